package services

import (
	"context"
	"testing"
	"time"

	"deinfluencer/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{
	"id", "owner", "influencer_username", "platform",
	"overall_score", "engagement_quality", "content_authenticity",
	"sponsored_ratio", "follower_authenticity", "consistency_score",
	"insights", "recommendations", "created_at",
}

func TestHistoryQuery_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   HistoryQuery
		want HistoryQuery
	}{
		{"defaults", HistoryQuery{}, HistoryQuery{SortBy: "date", Limit: 20}},
		{"limit clamped", HistoryQuery{Limit: 500, Offset: -3}, HistoryQuery{SortBy: "date", Limit: 100}},
		{"score sort", HistoryQuery{SortBy: " Score ", Limit: 5}, HistoryQuery{SortBy: "score", Limit: 5}},
		{"unknown sort", HistoryQuery{SortBy: "followers"}, HistoryQuery{SortBy: "date", Limit: 20}},
		{"platform and search trimmed", HistoryQuery{Platform: "TikTok ", Search: "  runner "}, HistoryQuery{Platform: models.PlatformTikTok, Search: "runner", SortBy: "date", Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in
			q.Normalize()
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestHistoryService_List(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewHistoryService(db)

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	id := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "analysis_records" WHERE owner = \$1 AND platform = \$2 AND influencer_username ILIKE \$3`).
		WithArgs("test-owner", "instagram", "%run\\_ner%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT \* FROM "analysis_records" WHERE .+ ORDER BY overall_score DESC, created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
			id.String(), "test-owner", "run_ner", "instagram",
			8.1, 7.9, 8.4, 9.0, 7.6, 7.0,
			"{\"🟢 High authenticity\"}", "{}", created,
		))

	records, total, err := service.List(context.Background(), "test-owner", HistoryQuery{
		Platform: "instagram",
		Search:   "run_ner",
		SortBy:   "score",
		Limit:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, 8.1, records[0].OverallScore)
	assert.Equal(t, []string{"🟢 High authenticity"}, []string(records[0].Insights))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "analysis_records" WHERE id = \$1 AND owner = \$2`).
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
				id.String(), "test-owner", "trailrunner", "youtube",
				6.2, 6, 6, 7, 6, 5, "{}", "{}", time.Now(),
			))

		record, err := NewHistoryService(db).Get(context.Background(), "test-owner", id)
		require.NoError(t, err)
		assert.Equal(t, models.PlatformYouTube, record.Platform)
	})

	t.Run("someone else's record is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "analysis_records"`).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := NewHistoryService(db).Get(context.Background(), "test-other", uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestHistoryService_Trending(t *testing.T) {
	db, mock := newMockDB(t)
	since := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "influencer_snapshots" WHERE last_updated >= \$1 ORDER BY last_score DESC, last_updated DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "platform", "follower_count", "last_score", "last_updated"}).
			AddRow(uuid.New().String(), "a", "tiktok", 1000, 9.1, time.Now()).
			AddRow(uuid.New().String(), "b", "twitter", 2000, 8.4, time.Now()))

	snapshots, err := NewHistoryService(db).Trending(context.Background(), since, 0)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "a", snapshots[0].Username)
	assert.Equal(t, 9.1, snapshots[0].LastScore)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_real\\`, escapeLike(`100%_real\`))
}
