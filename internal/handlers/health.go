package handlers

import (
	"net/http"
	"time"

	"deinfluencer/internal/database"
	"deinfluencer/internal/worker"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceName = "deinfluencer"

// HealthHandler reports service health
type HealthHandler struct {
	db            *gorm.DB
	workerService *worker.WorkerService
}

// NewHealthHandler creates a new health handler. Both arguments may be nil.
func NewHealthHandler(db *gorm.DB, workerService *worker.WorkerService) *HealthHandler {
	return &HealthHandler{db: db, workerService: workerService}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	checks := gin.H{}

	if h.db == nil {
		checks["database"] = gin.H{"status": "disabled"}
	} else {
		start := time.Now()
		if err := database.Ping(c.Request.Context(), h.db); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			checks["database"] = gin.H{"status": "unhealthy", "message": err.Error()}
		} else {
			checks["database"] = gin.H{"status": "healthy", "latency": time.Since(start).String()}
		}
	}

	if h.workerService != nil && !h.workerService.IsRunning() && status == "healthy" {
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": serviceName,
		"checks":  checks,
	})
}

// WorkerStatus handles GET /api/worker/status
func (h *HealthHandler) WorkerStatus(c *gin.Context) {
	if h.workerService == nil {
		c.JSON(http.StatusOK, gin.H{"worker_status": gin.H{"running": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"worker_status": h.workerService.GetStatus(),
	})
}
