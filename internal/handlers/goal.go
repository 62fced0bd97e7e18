package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/services"
)

type GoalHandler struct {
	log   *logger.Logger
	goals services.GoalService
}

func NewGoalHandler(log *logger.Logger, goals services.GoalService) *GoalHandler {
	return &GoalHandler{
		log:   log.With("handler", "GoalHandler"),
		goals: goals,
	}
}

// goalLayerBody is the wire shape for goal layer writes; dates travel as
// ISO strings.
type goalLayerBody struct {
	Class           string               `json:"class" binding:"required"`
	GoalType        string               `json:"goal_type"`
	StartDate       string               `json:"start_date" binding:"required"`
	EndDate         *string              `json:"end_date"`
	DayOfWeek       *int                 `json:"day_of_week"`
	CycleLengthDays *int                 `json:"cycle_length_days"`
	PhaseStartDay   *int                 `json:"phase_start_day"`
	PhaseEndDay     *int                 `json:"phase_end_day"`
	Targets         *domain.TargetVector `json:"targets"`
}

func (b *goalLayerBody) toLayer(userID uuid.UUID) (*domain.GoalLayer, error) {
	start, err := domain.ParseDate(b.StartDate)
	if err != nil {
		return nil, err
	}
	layer := &domain.GoalLayer{
		UserID:          userID,
		Class:           b.Class,
		GoalType:        b.GoalType,
		StartDate:       start,
		DayOfWeek:       b.DayOfWeek,
		CycleLengthDays: b.CycleLengthDays,
		PhaseStartDay:   b.PhaseStartDay,
		PhaseEndDay:     b.PhaseEndDay,
	}
	if b.EndDate != nil {
		end, err := domain.ParseDate(*b.EndDate)
		if err != nil {
			return nil, err
		}
		layer.EndDate = &end
	}
	if err := layer.SetTargets(b.Targets); err != nil {
		return nil, err
	}
	return layer, nil
}

// GET /api/v1/users/:user_id/goals
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	layers, err := h.goals.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"goals": layers})
}

// POST /api/v1/users/:user_id/goals
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var body goalLayerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	layer, err := body.toLayer(userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	created, err := h.goals.Create(c.Request.Context(), layer)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": created})
}

// PUT /api/v1/users/:user_id/goals/:goal_id
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_goal_id", err)
		return
	}
	var body goalLayerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	layer, err := body.toLayer(userID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	layer.ID = goalID
	layer.UpdatedAt = time.Now().UTC()

	updated, err := h.goals.Update(c.Request.Context(), layer)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"goal": updated})
}

// DELETE /api/v1/users/:user_id/goals/:goal_id
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	goalID, err := uuid.Parse(c.Param("goal_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_goal_id", err)
		return
	}
	if err := h.goals.Delete(c.Request.Context(), userID, goalID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
