package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/lexico-users/internal/service"
	"github.com/rs/zerolog"
)

// NewEngine builds the production engine: recovery, access log, CORS and all routes.
func NewEngine(logger zerolog.Logger, store, cache Pinger, recordSvc service.RecordService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), cors.Default())
	Register(r, store, cache, recordSvc)
	return r
}

// Register mounts all public routes on the given engine. cache may be nil.
func Register(r *gin.Engine, store, cache Pinger, recordSvc service.RecordService) {
	h := NewHealthHandler(store, cache)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIPrefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewRecordHandler(recordSvc).Register(api)
	}
}
