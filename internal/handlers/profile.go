package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
)

type ProfileHandler struct {
	log      *logger.Logger
	profiles repos.UserProfileRepo
}

func NewProfileHandler(log *logger.Logger, profiles repos.UserProfileRepo) *ProfileHandler {
	return &ProfileHandler{
		log:      log.With("handler", "ProfileHandler"),
		profiles: profiles,
	}
}

// GET /api/v1/users/:user_id/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	profile, err := h.profiles.GetByUserID(dbctx.Context{Ctx: c.Request.Context()}, userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// PUT /api/v1/users/:user_id/profile
func (h *ProfileHandler) Put(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var body struct {
		Sex           string  `json:"sex" binding:"required"`
		Age           int     `json:"age" binding:"required"`
		HeightCm      float64 `json:"height_cm" binding:"required"`
		WeightKg      float64 `json:"weight_kg" binding:"required"`
		ActivityLevel string  `json:"activity_level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	now := time.Now().UTC()
	profile := &domain.UserProfile{
		ID:            uuid.New(),
		UserID:        userID,
		Sex:           body.Sex,
		Age:           body.Age,
		HeightCm:      body.HeightCm,
		WeightKg:      body.WeightKg,
		ActivityLevel: body.ActivityLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.profiles.Upsert(dbctx.Context{Ctx: c.Request.Context()}, profile); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}
