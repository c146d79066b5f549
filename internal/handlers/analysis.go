package handlers

import (
	"net/http"
	"time"

	"deinfluencer/internal/models"
	"deinfluencer/internal/services"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles HTTP requests for running analyses
type AnalysisHandler struct {
	analysisService *services.AnalysisService
	historyService  *services.HistoryService
}

// NewAnalysisHandler creates a new analysis handler. history may be nil when
// no database is configured.
func NewAnalysisHandler(analysisService *services.AnalysisService, historyService *services.HistoryService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		historyService:  historyService,
	}
}

// AnalyzeRequest is either a handle to look up or an inline payload
type AnalyzeRequest struct {
	Username string          `json:"username"`
	Platform string          `json:"platform"`
	Profile  *models.Profile `json:"profile"`
	Posts    []models.Post   `json:"posts"`
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var (
		outcome *services.AnalysisOutcome
		err     error
	)
	owner := ownerPtr(c)

	switch {
	case req.Profile != nil:
		payload := &models.AnalysisPayload{Profile: *req.Profile, Posts: req.Posts}
		if payload.Profile.Platform == "" {
			payload.Profile.Platform = models.Platform(req.Platform)
		}
		outcome, err = h.analysisService.AnalyzePayload(c.Request.Context(), owner, payload, services.TriggerAPI)
	case req.Username != "" && req.Platform != "":
		outcome, err = h.analysisService.AnalyzeUsername(c.Request.Context(), owner, models.Platform(req.Platform), req.Username, services.TriggerAPI)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Provide either username and platform, or an inline profile with posts",
		})
		return
	}

	if err != nil {
		respondError(c, "Failed to analyze influencer", err)
		return
	}

	c.JSON(http.StatusOK, outcome.Response())
}

// Trending handles GET /api/trending
func (h *AnalysisHandler) Trending(c *gin.Context) {
	if h.historyService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Trending requires a database"})
		return
	}

	days := queryInt(c, "days", 7)
	if days < 1 || days > 90 {
		days = 7
	}
	limit := queryInt(c, "limit", 10)

	since := time.Now().AddDate(0, 0, -days)
	snapshots, err := h.historyService.Trending(c.Request.Context(), since, limit)
	if err != nil {
		respondError(c, "Failed to retrieve trending influencers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"influencers": snapshots,
		"days":        days,
	})
}
