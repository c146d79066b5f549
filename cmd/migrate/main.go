package main

import (
	"deinfluencer/internal/config"
	"deinfluencer/internal/database"
	"deinfluencer/internal/logging"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.WithService(logging.NewLogger(cfg.LogLevel), "deinfluencer-migrate")

	// Connect to database
	log.WithFields(logrus.Fields{
		"host":     cfg.Database.Host,
		"database": cfg.Database.DBName,
	}).Info("connecting to database")
	if err := database.Connect(cfg.Database); err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close()

	log.Info("running database migrations")
	if err := database.Migrate(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	log.Info("database migrations completed successfully")
}
