package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/services"
)

type TargetHandler struct {
	log     *logger.Logger
	targets services.TargetService
}

func NewTargetHandler(log *logger.Logger, targets services.TargetService) *TargetHandler {
	return &TargetHandler{
		log:     log.With("handler", "TargetHandler"),
		targets: targets,
	}
}

// GET /api/v1/users/:user_id/targets?date=2026-03-02
// GET /api/v1/users/:user_id/targets?start=...&end=...
func (h *TargetHandler) GetTargets(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if raw := c.Query("date"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			RespondError(c, 400, "invalid_date", err)
			return
		}
		targets, err := h.targets.Resolve(c.Request.Context(), userID, date)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"date": raw, "targets": targets})
		return
	}

	start, end, ok := parseRangeQuery(c, 7)
	if !ok {
		return
	}
	byDate, err := h.targets.ResolveRange(c.Request.Context(), userID, start, end)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"targets": byDate})
}
