package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchlistItem is an influencer a user asked to keep re-scoring
type WatchlistItem struct {
	ID                 uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Owner              string     `json:"owner" db:"owner" gorm:"not null;uniqueIndex:idx_watchlist_owner_influencer"`
	InfluencerUsername string     `json:"influencer_username" db:"influencer_username" gorm:"not null;uniqueIndex:idx_watchlist_owner_influencer"`
	Platform           Platform   `json:"platform" db:"platform" gorm:"not null;uniqueIndex:idx_watchlist_owner_influencer"`
	AddedAt            time.Time  `json:"added_at" db:"added_at" gorm:"autoCreateTime"`
	LastScore          *float64   `json:"last_score,omitempty" db:"last_score"`
	LastAnalyzedAt     *time.Time `json:"last_analyzed_at,omitempty" db:"last_analyzed_at"`
}

// TableName sets the table name for the WatchlistItem model
func (WatchlistItem) TableName() string {
	return "watchlist_items"
}

// BeforeCreate assigns an ID client-side
func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
