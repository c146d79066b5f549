package handlers

import (
	"net/http"

	"deinfluencer/internal/auth"
	"deinfluencer/internal/models"
	"deinfluencer/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WatchlistHandler manages a user's watched influencers
type WatchlistHandler struct {
	watchlistService *services.WatchlistService
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(watchlistService *services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// WatchRequest names the influencer to watch
type WatchRequest struct {
	Username string `json:"username" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(c *gin.Context) {
	owner, _ := auth.Owner(c)

	items, err := h.watchlistService.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "Failed to retrieve watchlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	owner, _ := auth.Owner(c)
	item, err := h.watchlistService.Add(c.Request.Context(), owner, models.Platform(req.Platform), req.Username)
	if err != nil {
		respondError(c, "Failed to add to watchlist", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Remove handles DELETE /api/watchlist/:id
func (h *WatchlistHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid watchlist item ID format"})
		return
	}

	owner, _ := auth.Owner(c)
	if err := h.watchlistService.Remove(c.Request.Context(), owner, id); err != nil {
		respondError(c, "Failed to remove watchlist item", err)
		return
	}
	c.Status(http.StatusNoContent)
}
