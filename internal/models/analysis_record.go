package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// AnalysisRecord is a persisted authenticity analysis
type AnalysisRecord struct {
	ID                 uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Owner              *string   `json:"owner,omitempty" db:"owner" gorm:"index"` // Token subject, nil for anonymous runs
	InfluencerUsername string    `json:"influencer_username" db:"influencer_username" gorm:"index;not null"`
	Platform           Platform  `json:"platform" db:"platform" gorm:"index;not null"`

	OverallScore         float64 `json:"overall_score" db:"overall_score"`
	EngagementQuality    float64 `json:"engagement_quality" db:"engagement_quality"`
	ContentAuthenticity  float64 `json:"content_authenticity" db:"content_authenticity"`
	SponsoredRatio       float64 `json:"sponsored_ratio" db:"sponsored_ratio"`
	FollowerAuthenticity float64 `json:"follower_authenticity" db:"follower_authenticity"`
	ConsistencyScore     float64 `json:"consistency_score" db:"consistency_score"`

	Insights        pq.StringArray `json:"insights" db:"insights" gorm:"type:text[]"`
	Recommendations pq.StringArray `json:"recommendations" db:"recommendations" gorm:"type:text[]"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for the AnalysisRecord model
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// BeforeCreate assigns an ID client-side so it is known before the insert returns
func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NewAnalysisRecord builds a record from a finished analysis
func NewAnalysisRecord(owner *string, profile Profile, score AuthenticityScore, insights, recommendations []string) *AnalysisRecord {
	return &AnalysisRecord{
		Owner:                owner,
		InfluencerUsername:   profile.Username,
		Platform:             profile.Platform.Normalize(),
		OverallScore:         score.OverallScore,
		EngagementQuality:    score.EngagementQuality,
		ContentAuthenticity:  score.ContentAuthenticity,
		SponsoredRatio:       score.SponsoredRatio,
		FollowerAuthenticity: score.FollowerAuthenticity,
		ConsistencyScore:     score.ConsistencyScore,
		Insights:             pq.StringArray(insights),
		Recommendations:      pq.StringArray(recommendations),
	}
}

// Score returns the six persisted scores as an AuthenticityScore
func (r *AnalysisRecord) Score() AuthenticityScore {
	return AuthenticityScore{
		OverallScore:         r.OverallScore,
		EngagementQuality:    r.EngagementQuality,
		ContentAuthenticity:  r.ContentAuthenticity,
		SponsoredRatio:       r.SponsoredRatio,
		FollowerAuthenticity: r.FollowerAuthenticity,
		ConsistencyScore:     r.ConsistencyScore,
		LastUpdated:          r.CreatedAt,
	}
}
