package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"deinfluencer/internal/auth"
	"deinfluencer/internal/authenticity"
	"deinfluencer/internal/config"
	"deinfluencer/internal/database"
	"deinfluencer/internal/handlers"
	"deinfluencer/internal/logging"
	"deinfluencer/internal/metrics"
	"deinfluencer/internal/services"
	"deinfluencer/internal/source"
	"deinfluencer/internal/stream"
	"deinfluencer/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const serviceName = "deinfluencer"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	log := logging.WithService(logger, serviceName)

	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	if err := database.Connect(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	var collector *metrics.Collector
	if cfg.Metrics {
		collector = metrics.NewCollector(serviceName)
	}

	profiles, closeProfiles, err := source.Open(context.Background(), cfg.Source.Options(), log, collector)
	if err != nil {
		log.WithError(err).Fatal("failed to set up profile source")
	}
	defer closeProfiles()

	engine := authenticity.NewAnalyzer(authenticity.WithLogger(log))
	analysisService := services.NewAnalysisService(database.DB, engine, profiles, log)
	analysisService.SetMetrics(collector)

	hub := stream.NewHub(log, collector)
	analysisService.SetPublisher(hub)

	watchlistService := services.NewWatchlistService(database.DB, log)
	watchlistService.SetMetrics(collector)
	refreshWorker := worker.NewWatchlistRefreshWorker(watchlistService, analysisService, services.RefreshConfig{
		RefreshInterval: cfg.Watchlist.RefreshInterval,
		BatchSize:       cfg.Watchlist.BatchSize,
		Concurrency:     cfg.Watchlist.Concurrency,
	}, log)

	// Initialize and start background workers
	workerService := worker.NewWorkerService(refreshWorker, hub, log)
	if err := workerService.Start(); err != nil {
		log.WithError(err).Fatal("failed to start background workers")
	}

	var validator auth.TokenValidator
	if cfg.Auth.JWTSecret != "" {
		verifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret, log)
		if err != nil {
			log.WithError(err).Fatal("failed to create token verifier")
		}
		validator = verifier
	} else {
		log.Warn("JWT_SECRET not set, history and watchlist endpoints will reject every request")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:            database.DB,
		Analysis:      analysisService,
		Validator:     validator,
		Workers:       workerService,
		Hub:           hub,
		Metrics:       collector,
		Logger:        log,
		AdminPassword: cfg.Auth.AdminPassword,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("received shutdown signal, gracefully shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	// Stop background workers
	workerService.Stop()
	log.Info("shutdown complete")
}
