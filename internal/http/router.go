package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/rao305/boilerai-transcript/internal/http/handlers"
	httpMW "github.com/rao305/boilerai-transcript/internal/http/middleware"
)

type RouterConfig struct {
	ServiceName  string
	AllowOrigins []string

	HealthHandler     *httpH.HealthHandler
	TranscriptHandler *httpH.TranscriptHandler
	PlannerHandler    *httpH.PlannerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.RequireStudent())
	{
		if cfg.TranscriptHandler != nil {
			api.POST("/transcripts/process", cfg.TranscriptHandler.Process)
			api.GET("/transcripts/me", cfg.TranscriptHandler.GetMine)
			api.GET("/transcripts/:id", cfg.TranscriptHandler.Get)
			api.DELETE("/transcripts/:id", cfg.TranscriptHandler.Delete)
			api.PATCH("/transcripts/:id/entries/:entryId", cfg.TranscriptHandler.EditEntry)
			api.POST("/transcripts/:id/entries/:entryId/verify", cfg.TranscriptHandler.VerifyEntry)
			api.POST("/transcripts/:id/selection", cfg.TranscriptHandler.Selection)
			api.GET("/transcripts/:id/export", cfg.TranscriptHandler.Export)
		}

		if cfg.PlannerHandler != nil {
			api.POST("/transcripts/:id/transfer", cfg.PlannerHandler.Transfer)
			api.GET("/planner", cfg.PlannerHandler.List)
		}
	}

	return r
}
