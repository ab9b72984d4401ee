// Package api exposes the inventory over a JSON HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/blob"
	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/store"
)

// RouterConfig carries everything the handlers need.
type RouterConfig struct {
	Store      *store.Store
	Categories *inventory.CategoryAggregator
	Writer     *inventory.CategoryWriter
	Dashboard  *inventory.DashboardAggregator
	Bucket     blob.Bucket
	// Files serves locally stored files. Nil when objects live in GCS.
	Files     *blob.Local
	JWTSecret string
	Log       *zap.SugaredLogger

	AllowOrigins   []string
	TracerProvider trace.TracerProvider
	ServiceName    string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.TracerProvider != nil {
		router.Use(otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(cfg.TracerProvider)))
	}
	router.Use(LoggingMiddleware(cfg.Log))
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	authHandler := &AuthHandler{Store: cfg.Store, JWTSecret: cfg.JWTSecret, Log: cfg.Log}
	categoriesHandler := &CategoriesHandler{Aggregator: cfg.Categories, Writer: cfg.Writer, Log: cfg.Log}
	dashboardHandler := &DashboardHandler{Aggregator: cfg.Dashboard, Log: cfg.Log}
	containersHandler := &ContainersHandler{Store: cfg.Store, Log: cfg.Log}
	itemsHandler := &ItemsHandler{Store: cfg.Store, Bucket: cfg.Bucket, Log: cfg.Log}
	healthHandler := &HealthHandler{Store: cfg.Store}

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")

	// Public: login and signed file links.
	api.POST("/auth/login", authHandler.Login)
	if cfg.Files != nil {
		filesHandler := &FilesHandler{Files: cfg.Files, Log: cfg.Log}
		api.GET("/files/*key", filesHandler.Get)
	}

	// Authenticated routes.
	protected := api.Group("")
	protected.Use(AuthMiddleware(cfg.JWTSecret, cfg.Store, cfg.Log))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.PUT("/auth/password", authHandler.ChangePassword)

	protected.GET("/categories", categoriesHandler.List)
	protected.POST("/categories", categoriesHandler.Create)

	protected.GET("/dashboard", dashboardHandler.Get)

	protected.GET("/containers", containersHandler.List)
	protected.POST("/containers", containersHandler.Create)
	protected.DELETE("/containers/:id", containersHandler.Delete)

	protected.POST("/items", itemsHandler.Create)
	protected.GET("/items/:id", itemsHandler.Get)
	protected.PUT("/items/:id/status", itemsHandler.SetStatus)
	protected.POST("/items/:id/images", itemsHandler.UploadImage)

	router.NoRoute(func(c *gin.Context) {
		jsonError(c, http.StatusNotFound, "not found")
	})

	return router
}
