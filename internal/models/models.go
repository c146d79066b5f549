// Package models contains the scoring engine's inputs and outputs and the
// records persisted by the deinfluencer service
package models

import (
	"gorm.io/gorm"
)

// AllModels returns a slice of all model types for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&AnalysisRecord{},
		&WatchlistItem{},
		&InfluencerSnapshot{},
	}
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
