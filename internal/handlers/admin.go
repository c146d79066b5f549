package handlers

import (
	"errors"
	"net/http"

	"deinfluencer/internal/models"
	"deinfluencer/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles operator endpoints
type AdminHandler struct {
	db            *gorm.DB
	workerService *worker.WorkerService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, workerService *worker.WorkerService) *AdminHandler {
	return &AdminHandler{
		db:            db,
		workerService: workerService,
	}
}

// AdminAuth middleware for basic password protection
func AdminAuth(password string) gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": password,
	})
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var analyses, anonymous, watched, influencers int64
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&analyses, h.db.WithContext(ctx).Model(&models.AnalysisRecord{})},
		{&anonymous, h.db.WithContext(ctx).Model(&models.AnalysisRecord{}).Where("owner IS NULL")},
		{&watched, h.db.WithContext(ctx).Model(&models.WatchlistItem{})},
		{&influencers, h.db.WithContext(ctx).Model(&models.InfluencerSnapshot{})},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to collect stats",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"analyses":        analyses,
		"saved_analyses":  analyses - anonymous,
		"watchlist_items": watched,
		"influencers":     influencers,
		"worker_status":   h.workerService.GetStatus(),
	})
}

// RefreshWatchlist handles POST /admin/refresh-watchlist
func (h *AdminHandler) RefreshWatchlist(c *gin.Context) {
	refresher := h.workerService.WatchlistWorker()
	if refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Watchlist worker is not configured"})
		return
	}

	stats, err := refresher.RunOnce(c.Request.Context())
	if errors.Is(err, worker.ErrRefreshInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "A watchlist refresh is already running"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to refresh watchlist",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  stats,
	})
}
