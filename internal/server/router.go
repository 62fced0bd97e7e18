package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brudallism/macromuse-backend/internal/handlers"
	"github.com/brudallism/macromuse-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	RequestLogger    *middleware.RequestLogger
	AnalyticsHandler *handlers.AnalyticsHandler
	RollupHandler    *handlers.RollupHandler
	TargetHandler    *handlers.TargetHandler
	GoalHandler      *handlers.GoalHandler
	ProfileHandler   *handlers.ProfileHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Log())
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Handlers trust :user_id; authentication fronts this service elsewhere.
	users := router.Group("/api/v1/users/:user_id")
	{
		users.GET("/trends", cfg.AnalyticsHandler.GetTrends)
		users.GET("/streaks", cfg.AnalyticsHandler.GetStreak)
		users.GET("/insights", cfg.AnalyticsHandler.GetInsights)
		users.GET("/summary/daily", cfg.AnalyticsHandler.GetDailySummary)

		users.GET("/targets", cfg.TargetHandler.GetTargets)

		users.POST("/rollups/daily", cfg.RollupHandler.RunDaily)
		users.POST("/rollups/backfill", cfg.RollupHandler.Backfill)

		users.GET("/goals", cfg.GoalHandler.List)
		users.POST("/goals", cfg.GoalHandler.Create)
		users.PUT("/goals/:goal_id", cfg.GoalHandler.Update)
		users.DELETE("/goals/:goal_id", cfg.GoalHandler.Delete)

		users.GET("/profile", cfg.ProfileHandler.Get)
		users.PUT("/profile", cfg.ProfileHandler.Put)
	}

	return router
}

// SplitOrigins parses a comma-separated origins env value.
func SplitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
