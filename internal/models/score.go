package models

import "time"

// AuthenticityScore is the composite result of a single analysis run.
// Every score lies in [0, 10] and is rounded to two decimals.
type AuthenticityScore struct {
	OverallScore         float64   `json:"overall_score"`
	EngagementQuality    float64   `json:"engagement_quality"`
	ContentAuthenticity  float64   `json:"content_authenticity"`
	SponsoredRatio       float64   `json:"sponsored_ratio"`
	FollowerAuthenticity float64   `json:"follower_authenticity"`
	ConsistencyScore     float64   `json:"consistency_score"`
	LastUpdated          time.Time `json:"last_updated"`
}

// AnalysisPayload is a profile together with the window of posts to score
type AnalysisPayload struct {
	Profile Profile `json:"profile"`
	Posts   []Post  `json:"posts"`
}

// AnalysisResponse is what the API returns for an analysis request
type AnalysisResponse struct {
	ID                *string           `json:"id,omitempty"`
	Profile           Profile           `json:"profile"`
	AuthenticityScore AuthenticityScore `json:"authenticity_score"`
	Insights          []string          `json:"insights"`
	Recommendations   []string          `json:"recommendations"`
}
