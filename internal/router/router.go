package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taxextract/docs"
	"taxextract/internal/handler"
	"taxextract/internal/metrics"
	"taxextract/internal/middleware"
	"taxextract/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Extraction *handler.ExtractionHandler
	Document   *handler.DocumentHandler
	Job        *handler.JobHandler
	Health     *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	m *metrics.Metrics,
	corsOrigins []string,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics(m))

	// Health checks and operations
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/extractions", h.Extraction.Extract)

	jobs := protected.Group("/extraction-jobs")
	jobs.POST("", h.Job.Create)
	jobs.GET("/:id", h.Job.Get)

	// Client-scoped routes
	clients := protected.Group("/clients/:client_id")
	clients.Use(middleware.ClientGuard())
	clients.GET("/extractions", h.Extraction.List)
	clients.GET("/extractions/export", h.Extraction.Export)
	clients.DELETE("/extractions", h.Extraction.DeleteDocument)
	clients.POST("/documents", h.Document.Upload)
	clients.DELETE("/documents/:blob_name", h.Document.Delete)

	return r
}
