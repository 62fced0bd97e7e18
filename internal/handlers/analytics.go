package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brudallism/macromuse-backend/internal/domain"
	"github.com/brudallism/macromuse-backend/internal/nutrition"
	"github.com/brudallism/macromuse-backend/internal/pkg/dbctx"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/repos"
	"github.com/brudallism/macromuse-backend/internal/services"
)

// defaultTrendDays is the window used when a trends/insights query carries no
// explicit range.
const defaultTrendDays = 30

type AnalyticsHandler struct {
	log      *logger.Logger
	trends   services.TrendService
	insights services.InsightService
	targets  services.TargetService
	summary  repos.SummaryRepo
}

func NewAnalyticsHandler(
	log *logger.Logger,
	trends services.TrendService,
	insights services.InsightService,
	targets services.TargetService,
	summary repos.SummaryRepo,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:      log.With("handler", "AnalyticsHandler"),
		trends:   trends,
		insights: insights,
		targets:  targets,
		summary:  summary,
	}
}

// GET /api/v1/users/:user_id/trends?start&end&nutrients=a,b&window=7
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c, defaultTrendDays)
	if !ok {
		return
	}

	nutrients := []string{domain.NutrientCalories, domain.NutrientProtein, domain.NutrientCarbs, domain.NutrientFat}
	if raw := c.Query("nutrients"); raw != "" {
		nutrients = nutrients[:0]
		for _, key := range strings.Split(raw, ",") {
			if key = strings.TrimSpace(key); key != "" {
				nutrients = append(nutrients, key)
			}
		}
	}

	results, err := h.trends.ComputeTrends(c.Request.Context(), userID, start, end, nutrients)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	// Optional smoothing over each returned series.
	if raw := c.Query("window"); raw != "" {
		windowSize, err := strconv.Atoi(raw)
		if err != nil || windowSize < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_window", errInvalidWindow)
			return
		}
		for _, r := range results {
			r.Points = services.RollingAverages(r.Points, windowSize)
		}
	}
	RespondOK(c, gin.H{"trends": results})
}

// GET /api/v1/users/:user_id/streaks?nutrient=protein&condition=met_target
func (h *AnalyticsHandler) GetStreak(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c, defaultTrendDays)
	if !ok {
		return
	}
	nutrient := c.DefaultQuery("nutrient", domain.NutrientCalories)

	cond := domain.StreakCondition(c.DefaultQuery("condition", string(domain.StreakMetTarget)))
	switch cond {
	case domain.StreakMetTarget, domain.StreakBelowTarget, domain.StreakAboveTarget:
	default:
		RespondError(c, http.StatusBadRequest, "invalid_condition", errInvalidCondition)
		return
	}

	rec, err := h.trends.DetectStreaks(c.Request.Context(), userID, start, end, nutrient, cond)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"streak": rec})
}

// GET /api/v1/users/:user_id/insights?start&end
func (h *AnalyticsHandler) GetInsights(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	start, end, ok := parseRangeQuery(c, defaultTrendDays)
	if !ok {
		return
	}

	insights, err := h.insights.Evaluate(c.Request.Context(), userID, start, end)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"insights": insights})
}

// GET /api/v1/users/:user_id/summary/daily?date
// The stored rollup joined with that day's resolved target and adherence.
func (h *AnalyticsHandler) GetDailySummary(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	row, err := h.summary.GetDaily(dbctx.Context{Ctx: c.Request.Context()}, userID, date)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if row == nil {
		RespondError(c, http.StatusNotFound, "not_found", errNoSummary)
		return
	}

	payload := gin.H{"summary": row}
	// Target resolution failure leaves the summary bare rather than failing
	// the read.
	if targets, terr := h.targets.Resolve(c.Request.Context(), userID, date); terr == nil {
		payload["targets"] = targets
		payload["adherence"] = nutrition.AdherenceVector(row.Nutrients, targets)
	}
	RespondOK(c, payload)
}

const (
	errInvalidWindow    = paramError("window must be a positive integer")
	errInvalidCondition = paramError("condition must be met_target, below_target or above_target")
	errNoSummary        = paramError("no summary for that date")
)
