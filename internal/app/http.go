package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/rao305/boilerai-transcript/internal/http"
	httpH "github.com/rao305/boilerai-transcript/internal/http/handlers"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Transcript *httpH.TranscriptHandler
	Planner    *httpH.PlannerHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Transcript: httpH.NewTranscriptHandler(log, services.Transcript, services.Export),
		Planner:    httpH.NewPlannerHandler(log, services.Transfer),
	}
}

func wireRouter(cfg Config, handlers Handlers) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AllowOrigins:      cfg.AllowOrigins,
		HealthHandler:     handlers.Health,
		TranscriptHandler: handlers.Transcript,
		PlannerHandler:    handlers.Planner,
	})
}
