package router

import (
	"github.com/gin-gonic/gin"

	"radlic/internal/config"
	"radlic/internal/handler"
	"radlic/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. Auth is
// applied to the API group only when a JWT secret is configured.
func Setup(
	cfg *config.Config,
	licenseH *handler.LicenseHandler,
	recordH *handler.RecordHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	if cfg.JWT.Secret != "" {
		v1.Use(middleware.AuthMiddleware(&cfg.JWT))
	}

	documents := v1.Group("/documents")
	documents.POST("/extract", licenseH.Extract)
	documents.POST("/update", licenseH.UpdateSource)

	licenses := v1.Group("/licenses")
	licenses.POST("/generate", licenseH.Generate)

	records := v1.Group("/records")
	records.GET("", recordH.List)
	records.GET("/export", recordH.Export)
	records.GET("/:radicado", recordH.GetByRadicado)

	return r
}
