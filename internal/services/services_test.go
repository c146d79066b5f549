package services

import (
	"context"
	"testing"
	"time"

	"deinfluencer/internal/database"
	"deinfluencer/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB returns a gorm handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// setupTestDB connects to a real PostgreSQL test database or skips the test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("DB_NAME", "deinfluencer_test")
	t.Setenv("DB_SSLMODE", "disable")

	db, err := database.Open(database.LoadConfig())
	if err != nil {
		t.Skipf("Skipping test - PostgreSQL test database not available: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		t.Skipf("Skipping test - PostgreSQL test database not available: %v", err)
	}

	require.NoError(t, models.AutoMigrate(db))

	db.Exec("DELETE FROM analysis_records WHERE influencer_username LIKE 'test_%'")
	db.Exec("DELETE FROM watchlist_items WHERE owner LIKE 'test-%'")
	db.Exec("DELETE FROM influencer_snapshots WHERE username LIKE 'test_%'")
	return db
}

func strPtr(s string) *string {
	return &s
}
