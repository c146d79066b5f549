package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"deinfluencer/internal/metrics"
	"deinfluencer/internal/models"
	"deinfluencer/internal/source"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// UsernameAnalyzer scores an influencer by handle
type UsernameAnalyzer interface {
	AnalyzeUsername(ctx context.Context, owner *string, platform models.Platform, username, trigger string) (*AnalysisOutcome, error)
}

// RefreshConfig holds configuration for watchlist refresh behavior
type RefreshConfig struct {
	RefreshInterval time.Duration // How stale an item must be before it is re-scored
	BatchSize       int           // Items picked up per run
	Concurrency     int           // Parallel analyses per run
}

// DefaultRefreshConfig returns default configuration for watchlist refresh
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		RefreshInterval: 6 * time.Hour,
		BatchSize:       25,
		Concurrency:     4,
	}
}

// RefreshStats summarizes one refresh run
type RefreshStats struct {
	Due       int `json:"due"`
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

// WatchlistService manages the influencers each user keeps re-scoring
type WatchlistService struct {
	db      *gorm.DB
	metrics *metrics.Collector
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewWatchlistService creates a new WatchlistService
func NewWatchlistService(db *gorm.DB, log logrus.FieldLogger) *WatchlistService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WatchlistService{
		db:  db,
		log: log.WithField("component", "watchlist_service"),
		now: time.Now,
	}
}

// SetMetrics registers the metrics collector
func (s *WatchlistService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// Add puts an influencer on the owner's watchlist
func (s *WatchlistService) Add(ctx context.Context, owner string, platform models.Platform, username string) (*models.WatchlistItem, error) {
	platform, err := models.ParsePlatform(string(platform))
	if err != nil {
		return nil, err
	}
	username = source.NormalizeUsername(username)
	if !source.ValidUsername(username) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}

	var existing models.WatchlistItem
	err = s.db.WithContext(ctx).
		Where("owner = ? AND influencer_username = ? AND platform = ?", owner, username, platform).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyWatched
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}

	item := &models.WatchlistItem{
		Owner:              owner,
		InfluencerUsername: username,
		Platform:           platform,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		// Lost a race with a concurrent add
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyWatched
		}
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return item, nil
}

// List returns the owner's watchlist, most recently added first
func (s *WatchlistService) List(ctx context.Context, owner string) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	err := s.db.WithContext(ctx).Where("owner = ?", owner).Order("added_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlist: %w", err)
	}
	return items, nil
}

// Remove deletes an item from the owner's watchlist
func (s *WatchlistService) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove watchlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DueForRefresh returns items never analyzed or analyzed before interval ago,
// oldest first
func (s *WatchlistService) DueForRefresh(ctx context.Context, interval time.Duration, limit int) ([]models.WatchlistItem, error) {
	cutoff := s.now().Add(-interval)
	var items []models.WatchlistItem
	err := s.db.WithContext(ctx).
		Where("last_analyzed_at IS NULL OR last_analyzed_at < ?", cutoff).
		Order("last_analyzed_at ASC NULLS FIRST").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlist items due for refresh: %w", err)
	}
	return items, nil
}

// RecordScore stores the result of a refresh on the item
func (s *WatchlistService) RecordScore(ctx context.Context, id uuid.UUID, score float64, at time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.WatchlistItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_score":       score,
			"last_analyzed_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to record watchlist score: %w", err)
	}
	return nil
}

// RefreshBatch re-scores the items that are due. A failure on one item is
// logged and counted; it does not stop the rest of the batch.
func (s *WatchlistService) RefreshBatch(ctx context.Context, analyzer UsernameAnalyzer, config RefreshConfig) (RefreshStats, error) {
	items, err := s.DueForRefresh(ctx, config.RefreshInterval, config.BatchSize)
	if err != nil {
		return RefreshStats{}, err
	}
	stats := RefreshStats{Due: len(items)}
	if len(items) == 0 {
		return stats, nil
	}

	var refreshed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, config.Concurrency))

	for _, item := range items {
		g.Go(func() error {
			err := s.refreshItem(gctx, analyzer, item)
			s.metrics.ObserveWatchlistRefresh(err)
			if err != nil {
				failed.Add(1)
				s.log.WithError(err).WithFields(logrus.Fields{
					"item_id":  item.ID,
					"username": item.InfluencerUsername,
					"platform": item.Platform,
				}).Warn("watchlist refresh failed")
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats.Refreshed = int(refreshed.Load())
	stats.Failed = int(failed.Load())
	s.log.WithFields(logrus.Fields{
		"due":       stats.Due,
		"refreshed": stats.Refreshed,
		"failed":    stats.Failed,
	}).Info("watchlist refresh complete")
	return stats, ctx.Err()
}

func (s *WatchlistService) refreshItem(ctx context.Context, analyzer UsernameAnalyzer, item models.WatchlistItem) error {
	owner := item.Owner
	outcome, err := analyzer.AnalyzeUsername(ctx, &owner, item.Platform, item.InfluencerUsername, TriggerWatchlist)
	if err != nil {
		return err
	}
	score := outcome.Report.Score
	return s.RecordScore(ctx, item.ID, score.OverallScore, score.LastUpdated)
}
