package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brudallism/macromuse-backend/internal/handlers"
	"github.com/brudallism/macromuse-backend/internal/middleware"
	"github.com/brudallism/macromuse-backend/internal/pkg/logger"
	"github.com/brudallism/macromuse-backend/internal/server"
)

type Handlers struct {
	Analytics *handlers.AnalyticsHandler
	Rollup    *handlers.RollupHandler
	Target    *handlers.TargetHandler
	Goal      *handlers.GoalHandler
	Profile   *handlers.ProfileHandler
}

type Middleware struct {
	RequestLogger *middleware.RequestLogger
}

func wireHandlers(log *logger.Logger, services Services, repos Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Analytics: handlers.NewAnalyticsHandler(log, services.Trend, services.Insight, services.Target, repos.Summary),
		Rollup:    handlers.NewRollupHandler(log, services.Rollup),
		Target:    handlers.NewTargetHandler(log, services.Target),
		Goal:      handlers.NewGoalHandler(log, services.Goal),
		Profile:   handlers.NewProfileHandler(log, repos.UserProfile),
	}
}

func wireMiddleware(log *logger.Logger) Middleware {
	return Middleware{
		RequestLogger: middleware.NewRequestLogger(log),
	}
}

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:      cfg.ServiceName,
		AllowedOrigins:   server.SplitOrigins(cfg.AllowedOrigins),
		RequestLogger:    m.RequestLogger,
		AnalyticsHandler: h.Analytics,
		RollupHandler:    h.Rollup,
		TargetHandler:    h.Target,
		GoalHandler:      h.Goal,
		ProfileHandler:   h.Profile,
	})
}
