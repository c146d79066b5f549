package main

import (
	"context"
	"flag"

	"deinfluencer/internal/authenticity"
	"deinfluencer/internal/config"
	"deinfluencer/internal/database"
	"deinfluencer/internal/logging"
	"deinfluencer/internal/services"
	"deinfluencer/internal/source"

	"github.com/sirupsen/logrus"
)

func main() {
	// Command line flags
	force := flag.Bool("force", false, "Re-score every watched influencer regardless of when it was last analyzed")
	batchSize := flag.Int("batch", 0, "Maximum number of items to refresh (defaults to WATCHLIST_BATCH_SIZE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.WithService(logging.NewLogger(cfg.LogLevel), "deinfluencer-refresh")

	// Connect to database
	if err := database.Connect(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close()

	ctx := context.Background()
	profiles, closeProfiles, err := source.Open(ctx, cfg.Source.Options(), log, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to set up profile source")
	}
	defer closeProfiles()

	engine := authenticity.NewAnalyzer(authenticity.WithLogger(log))
	analysisService := services.NewAnalysisService(database.DB, engine, profiles, log)
	watchlistService := services.NewWatchlistService(database.DB, log)

	refresh := services.RefreshConfig{
		RefreshInterval: cfg.Watchlist.RefreshInterval,
		BatchSize:       cfg.Watchlist.BatchSize,
		Concurrency:     cfg.Watchlist.Concurrency,
	}
	if *force {
		// Everything analyzed before now is due
		refresh.RefreshInterval = 0
	}
	if *batchSize > 0 {
		refresh.BatchSize = *batchSize
	}

	log.WithFields(logrus.Fields{
		"force":      *force,
		"batch_size": refresh.BatchSize,
	}).Info("refreshing watchlist")

	stats, err := watchlistService.RefreshBatch(ctx, analysisService, refresh)
	if err != nil {
		log.WithError(err).Fatal("failed to refresh watchlist")
	}

	log.WithFields(logrus.Fields{
		"due":       stats.Due,
		"refreshed": stats.Refreshed,
		"failed":    stats.Failed,
	}).Info("watchlist refresh finished")
}
