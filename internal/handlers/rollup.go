package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/services"
)

type RollupHandler struct {
	log     *logger.Logger
	rollups services.RollupService
}

func NewRollupHandler(log *logger.Logger, rollups services.RollupService) *RollupHandler {
	return &RollupHandler{
		log:     log.With("handler", "RollupHandler"),
		rollups: rollups,
	}
}

// POST /api/v1/users/:user_id/rollups/daily {date}
func (h *RollupHandler) RunDaily(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var body struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	date, err := domain.ParseDate(body.Date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}

	row, err := h.rollups.RunDaily(c.Request.Context(), userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": row})
}

// POST /api/v1/users/:user_id/rollups/backfill {start_date, end_date}
func (h *RollupHandler) Backfill(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var body struct {
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	start, err := domain.ParseDate(body.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_start_date", err)
		return
	}
	end, err := domain.ParseDate(body.EndDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_end_date", err)
		return
	}

	h.log.Info("Backfill requested", "user_id", userID, "start", body.StartDate, "end", body.EndDate)
	report, err := h.rollups.Backfill(c.Request.Context(), userID, start, end)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}
