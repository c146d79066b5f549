package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deinfluencer/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryQuery filters a user's saved analyses
type HistoryQuery struct {
	Platform models.Platform
	Search   string
	SortBy   string // "date" (default) or "score"
	Limit    int
	Offset   int
}

// Normalize applies defaults and clamps paging values
func (q *HistoryQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.SortBy = strings.ToLower(strings.TrimSpace(q.SortBy))
	if q.SortBy != "score" {
		q.SortBy = "date"
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.Platform != "" {
		q.Platform = q.Platform.Normalize()
	}
}

func (q HistoryQuery) order() string {
	if q.SortBy == "score" {
		return "overall_score DESC, created_at DESC"
	}
	return "created_at DESC"
}

// HistoryService reads saved analyses and influencer snapshots
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// List returns a page of the owner's analyses and the total matching count
func (s *HistoryService) List(ctx context.Context, owner string, q HistoryQuery) ([]models.AnalysisRecord, int64, error) {
	q.Normalize()

	query := s.db.WithContext(ctx).Model(&models.AnalysisRecord{}).Where("owner = ?", owner)
	if q.Platform != "" {
		query = query.Where("platform = ?", q.Platform)
	}
	if q.Search != "" {
		query = query.Where("influencer_username ILIKE ?", "%"+escapeLike(q.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	var records []models.AnalysisRecord
	err := query.Order(q.order()).Limit(q.Limit).Offset(q.Offset).Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch analyses: %w", err)
	}
	return records, total, nil
}

// Get returns a single analysis belonging to owner
func (s *HistoryService) Get(ctx context.Context, owner string, id uuid.UUID) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := s.db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analysis: %w", err)
	}
	return &record, nil
}

// Trending returns the highest scoring influencers analyzed since the given time
func (s *HistoryService) Trending(ctx context.Context, since time.Time, limit int) ([]models.InfluencerSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var snapshots []models.InfluencerSnapshot
	err := s.db.WithContext(ctx).
		Where("last_updated >= ?", since).
		Order("last_score DESC, last_updated DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending influencers: %w", err)
	}
	return snapshots, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
