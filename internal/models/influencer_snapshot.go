package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InfluencerSnapshot holds the most recent profile counts seen for an influencer
type InfluencerSnapshot struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Username        string    `json:"username" db:"username" gorm:"not null;uniqueIndex:idx_snapshot_username_platform"`
	Platform        Platform  `json:"platform" db:"platform" gorm:"not null;uniqueIndex:idx_snapshot_username_platform"`
	FollowerCount   int64     `json:"follower_count" db:"follower_count"`
	FollowingCount  int64     `json:"following_count" db:"following_count"`
	PostCount       int64     `json:"post_count" db:"post_count"`
	Bio             string    `json:"bio" db:"bio" gorm:"type:text"`
	Verified        bool      `json:"verified" db:"verified"`
	ProfileImageURL string    `json:"profile_image_url" db:"profile_image_url"`
	LastScore       float64   `json:"last_score" db:"last_score"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
}

// TableName sets the table name for the InfluencerSnapshot model
func (InfluencerSnapshot) TableName() string {
	return "influencer_snapshots"
}

// BeforeCreate assigns an ID client-side
func (s *InfluencerSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NewInfluencerSnapshot copies the persisted fields out of a profile
func NewInfluencerSnapshot(profile Profile, overall float64, at time.Time) *InfluencerSnapshot {
	return &InfluencerSnapshot{
		Username:        profile.Username,
		Platform:        profile.Platform.Normalize(),
		FollowerCount:   profile.FollowerCount,
		FollowingCount:  profile.FollowingCount,
		PostCount:       profile.PostCount,
		Bio:             profile.Bio,
		Verified:        profile.Verified,
		ProfileImageURL: profile.ProfileImageURL,
		LastScore:       overall,
		LastUpdated:     at,
	}
}
