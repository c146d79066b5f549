package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"deinfluencer/internal/auth"
	"deinfluencer/internal/models"
	"deinfluencer/internal/services"
	"deinfluencer/internal/source"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedPlatform), errors.Is(err, services.ErrInvalidUsername):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrProfileNotFound), errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyWatched):
		return http.StatusConflict
	case errors.Is(err, services.ErrNoSource), errors.Is(err, source.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the standard error body for err
func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// ownerPtr returns the authenticated subject or nil for anonymous callers
func ownerPtr(c *gin.Context) *string {
	if owner, ok := auth.Owner(c); ok {
		return &owner
	}
	return nil
}

// queryInt parses an integer query parameter, returning def when absent or malformed
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
