package handlers

import (
	"net/http"

	"deinfluencer/internal/auth"
	"deinfluencer/internal/metrics"
	"deinfluencer/internal/services"
	"deinfluencer/internal/stream"
	"deinfluencer/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RouterConfig wires the HTTP layer. DB, Workers, Hub, Metrics and
// AdminPassword are optional; routes that need a missing piece are left out.
type RouterConfig struct {
	DB            *gorm.DB
	Analysis      *services.AnalysisService
	Validator     auth.TokenValidator
	Workers       *worker.WorkerService
	Hub           *stream.Hub
	Metrics       *metrics.Collector
	Logger        logrus.FieldLogger
	AdminPassword string
}

// NewRouter builds the gin engine with every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(LoggingMiddleware(cfg.Logger))

	var historyService *services.HistoryService
	if cfg.DB != nil {
		historyService = services.NewHistoryService(cfg.DB)
	}

	healthHandler := NewHealthHandler(cfg.DB, cfg.Workers)
	analysisHandler := NewAnalysisHandler(cfg.Analysis, historyService)

	// Health check
	r.GET("/health", healthHandler.HealthCheck)
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Metrics.Handler())
	}
	if cfg.Hub != nil {
		r.GET("/ws/analyses", gin.WrapF(cfg.Hub.ServeWS))
	}

	// API routes
	api := r.Group("/api")
	{
		api.POST("/analyze", auth.Optional(cfg.Validator), analysisHandler.Analyze)
		api.GET("/trending", analysisHandler.Trending)
		api.GET("/worker/status", healthHandler.WorkerStatus)

		if historyService != nil {
			historyHandler := NewHistoryHandler(historyService, services.NewReportService())
			watchlistHandler := NewWatchlistHandler(services.NewWatchlistService(cfg.DB, cfg.Logger))

			history := api.Group("/history", auth.Required(cfg.Validator))
			{
				history.GET("", historyHandler.List)
				history.GET("/:id", historyHandler.Get)
				history.GET("/:id/report", historyHandler.Report)
			}

			watchlist := api.Group("/watchlist", auth.Required(cfg.Validator))
			{
				watchlist.GET("", watchlistHandler.List)
				watchlist.POST("", watchlistHandler.Add)
				watchlist.DELETE("/:id", watchlistHandler.Remove)
			}
		}
	}

	// Admin routes (password protected)
	if cfg.AdminPassword != "" && cfg.DB != nil {
		adminHandler := NewAdminHandler(cfg.DB, cfg.Workers)
		admin := r.Group("/admin", AdminAuth(cfg.AdminPassword))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.POST("/refresh-watchlist", adminHandler.RefreshWatchlist)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}
