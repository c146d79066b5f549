package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Hub is a long-running broadcaster driven by the worker service
type Hub interface {
	Run(ctx context.Context)
	ClientCount() int
}

// WorkerService manages background workers for the application
type WorkerService struct {
	watchlistWorker *WatchlistRefreshWorker
	hub             Hub
	log             logrus.FieldLogger
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         bool
	startedAt       time.Time
	mu              sync.RWMutex
}

// NewWorkerService creates a new worker service. Either worker may be nil.
func NewWorkerService(watchlistWorker *WatchlistRefreshWorker, hub Hub, log logrus.FieldLogger) *WorkerService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerService{
		watchlistWorker: watchlistWorker,
		hub:             hub,
		log:             log.WithField("component", "worker_service"),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	ws.log.Info("starting background workers")

	if ws.hub != nil {
		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			ws.hub.Run(ws.ctx)
		}()
	}

	if ws.watchlistWorker != nil {
		ws.watchlistWorker.Start(ws.ctx)
	}

	ws.running = true
	ws.startedAt = time.Now()
	ws.log.Info("background workers started")
	return nil
}

// Stop stops all background workers
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	ws.log.Info("stopping background workers")

	// Cancel context to signal all workers to stop
	ws.cancel()
	if ws.watchlistWorker != nil {
		ws.watchlistWorker.Stop()
	}
	ws.wg.Wait()

	ws.running = false
	ws.log.Info("background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// WatchlistWorker returns the refresh worker for on-demand runs
func (ws *WorkerService) WatchlistWorker() *WatchlistRefreshWorker {
	if ws == nil {
		return nil
	}
	return ws.watchlistWorker
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	if ws == nil {
		return map[string]interface{}{"running": false}
	}
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	status := map[string]interface{}{
		"running": ws.running,
	}
	if ws.running {
		status["uptime"] = time.Since(ws.startedAt).Round(time.Second).String()
	}
	if ws.watchlistWorker != nil {
		status["watchlist_worker"] = ws.watchlistWorker.GetStats()
	}
	if ws.hub != nil {
		status["stream_subscribers"] = ws.hub.ClientCount()
	}
	return status
}
