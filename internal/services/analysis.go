package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deinfluencer/internal/authenticity"
	"deinfluencer/internal/metrics"
	"deinfluencer/internal/models"
	"deinfluencer/internal/source"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to someone else
	ErrNotFound = errors.New("not found")
	// ErrAlreadyWatched is returned when an influencer is already on the caller's watchlist
	ErrAlreadyWatched = errors.New("influencer already on watchlist")
	// ErrNoSource is returned when a lookup by username is requested but no source is configured
	ErrNoSource = errors.New("no profile source configured")
	// ErrInvalidUsername is returned for handles that are empty or cannot be looked up
	ErrInvalidUsername = errors.New("invalid influencer username")
)

// Triggers label where an analysis request came from
const (
	TriggerAPI       = "api"
	TriggerWatchlist = "watchlist"
	TriggerCLI       = "cli"
)

// AnalysisEvent summarizes a finished analysis for live subscribers
type AnalysisEvent struct {
	ID           *string         `json:"id,omitempty"`
	Username     string          `json:"influencer_username"`
	Platform     models.Platform `json:"platform"`
	OverallScore float64         `json:"overall_score"`
	Trigger      string          `json:"trigger"`
	AnalyzedAt   time.Time       `json:"analyzed_at"`
}

// Publisher receives every completed analysis
type Publisher interface {
	Publish(event AnalysisEvent)
}

// AnalysisOutcome is the result of scoring one profile
type AnalysisOutcome struct {
	Profile models.Profile
	Report  *authenticity.Report
	// Record is nil when the analysis was not saved to history
	Record *models.AnalysisRecord
}

// Response converts the outcome into the API response shape
func (o *AnalysisOutcome) Response() models.AnalysisResponse {
	resp := models.AnalysisResponse{
		Profile:           o.Profile,
		AuthenticityScore: o.Report.Score,
		Insights:          o.Report.Insights,
		Recommendations:   o.Report.Recommendations,
	}
	if o.Record != nil {
		id := o.Record.ID.String()
		resp.ID = &id
	}
	return resp
}

// AnalysisService runs the scoring engine and records the results
type AnalysisService struct {
	db        *gorm.DB
	engine    *authenticity.Analyzer
	source    source.ProfileSource
	publisher Publisher
	metrics   *metrics.Collector
	log       logrus.FieldLogger
}

// NewAnalysisService creates a new AnalysisService. db may be nil, in which
// case nothing is persisted.
func NewAnalysisService(db *gorm.DB, engine *authenticity.Analyzer, src source.ProfileSource, log logrus.FieldLogger) *AnalysisService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AnalysisService{
		db:     db,
		engine: engine,
		source: src,
		log:    log.WithField("component", "analysis_service"),
	}
}

// SetPublisher registers the receiver of completed analyses
func (s *AnalysisService) SetPublisher(p Publisher) {
	s.publisher = p
}

// SetMetrics registers the metrics collector
func (s *AnalysisService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// AnalyzeUsername fetches a profile from the configured source and scores it
func (s *AnalysisService) AnalyzeUsername(ctx context.Context, owner *string, platform models.Platform, username, trigger string) (*AnalysisOutcome, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	platform, err := models.ParsePlatform(string(platform))
	if err != nil {
		return nil, err
	}

	payload, err := s.source.FetchProfile(ctx, platform, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s profile %q: %w", platform, username, err)
	}
	payload.Profile.Platform = platform
	return s.AnalyzePayload(ctx, owner, payload, trigger)
}

// AnalyzePayload scores an already-fetched profile. The analysis is saved to
// history only when owner is set.
func (s *AnalysisService) AnalyzePayload(ctx context.Context, owner *string, payload *models.AnalysisPayload, trigger string) (*AnalysisOutcome, error) {
	platform, err := models.ParsePlatform(string(payload.Profile.Platform))
	if err != nil {
		return nil, err
	}
	profile := payload.Profile
	profile.Platform = platform

	start := time.Now()
	report := s.engine.Evaluate(profile, payload.Posts)
	s.metrics.ObserveAnalysis(string(platform), trigger, report.Score.OverallScore, time.Since(start))

	outcome := &AnalysisOutcome{Profile: profile, Report: report}
	logger := s.log.WithFields(logrus.Fields{
		"username": profile.Username,
		"platform": platform,
		"overall":  report.Score.OverallScore,
		"trigger":  trigger,
	})

	if s.db != nil {
		if owner != nil {
			record := models.NewAnalysisRecord(owner, profile, report.Score, report.Insights, report.Recommendations)
			if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
				return nil, fmt.Errorf("failed to save analysis: %w", err)
			}
			outcome.Record = record
			logger = logger.WithField("analysis_id", record.ID)
		}
		if profile.Username != "" {
			if err := s.saveSnapshot(ctx, profile, report.Score); err != nil {
				logger.WithError(err).Warn("failed to update influencer snapshot")
			}
		}
	}

	logger.Info("analysis complete")
	s.publish(outcome, trigger)
	return outcome, nil
}

// saveSnapshot upserts the latest profile counts for the influencer
func (s *AnalysisService) saveSnapshot(ctx context.Context, profile models.Profile, score models.AuthenticityScore) error {
	snapshot := models.NewInfluencerSnapshot(profile, score.OverallScore, score.LastUpdated)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"follower_count", "following_count", "post_count", "bio",
			"verified", "profile_image_url", "last_score", "last_updated",
		}),
	}).Create(snapshot).Error
}

func (s *AnalysisService) publish(o *AnalysisOutcome, trigger string) {
	if s.publisher == nil {
		return
	}
	event := AnalysisEvent{
		Username:     o.Profile.Username,
		Platform:     o.Profile.Platform,
		OverallScore: o.Report.Score.OverallScore,
		Trigger:      trigger,
		AnalyzedAt:   o.Report.Score.LastUpdated,
	}
	if o.Record != nil {
		id := o.Record.ID.String()
		event.ID = &id
	}
	s.publisher.Publish(event)
}
