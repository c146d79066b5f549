package handlers

import (
	"net/http"

	"deinfluencer/internal/auth"
	"deinfluencer/internal/models"
	"deinfluencer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistoryHandler serves a user's saved analyses
type HistoryHandler struct {
	historyService *services.HistoryService
	reportService  *services.ReportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *services.HistoryService, reportService *services.ReportService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		reportService:  reportService,
	}
}

// List handles GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	owner, _ := auth.Owner(c)

	query := services.HistoryQuery{
		Platform: models.Platform(c.Query("platform")),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sort_by", "date"),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	if query.Platform != "" && !query.Platform.IsSupported() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}
	query.Normalize()

	records, total, err := h.historyService.List(c.Request.Context(), owner, query)
	if err != nil {
		respondError(c, "Failed to retrieve analysis history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analyses": records,
		"total":    total,
		"limit":    query.Limit,
		"offset":   query.Offset,
	})
}

// Get handles GET /api/history/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	record, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// Report handles GET /api/history/:id/report. format=markdown returns the
// Markdown source instead of HTML.
func (h *HistoryHandler) Report(c *gin.Context) {
	record, ok := h.load(c)
	if !ok {
		return
	}

	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(h.reportService.Markdown(record)))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.reportService.HTML(record))
}

func (h *HistoryHandler) load(c *gin.Context) (*models.AnalysisRecord, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis ID format"})
		return nil, false
	}

	owner, _ := auth.Owner(c)
	record, err := h.historyService.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, "Analysis not found", err)
		return nil, false
	}
	return record, true
}
