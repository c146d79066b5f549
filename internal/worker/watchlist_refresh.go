package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"deinfluencer/internal/services"

	"github.com/sirupsen/logrus"
)

// ErrRefreshInProgress is returned when a refresh is requested while one is running
var ErrRefreshInProgress = errors.New("watchlist refresh already in progress")

// BatchRefresher re-scores the watchlist items that are due
type BatchRefresher interface {
	RefreshBatch(ctx context.Context, analyzer services.UsernameAnalyzer, config services.RefreshConfig) (services.RefreshStats, error)
}

// WatchlistRefreshWorker handles periodic re-scoring of watched influencers
type WatchlistRefreshWorker struct {
	watchlist  BatchRefresher
	analyzer   services.UsernameAnalyzer
	config     services.RefreshConfig
	checkEvery time.Duration
	log        logrus.FieldLogger

	runMu    sync.Mutex // held for the duration of a batch
	statsMu  sync.RWMutex
	stats    WatchlistStats
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// WatchlistStats holds statistics about watchlist refresh runs
type WatchlistStats struct {
	Runs            int                    `json:"runs"`
	LastRun         *time.Time             `json:"last_run,omitempty"`
	LastResult      *services.RefreshStats `json:"last_result,omitempty"`
	LastError       string                 `json:"last_error,omitempty"`
	RefreshInterval string                 `json:"refresh_interval"`
	CheckEvery      string                 `json:"check_every"`
	BatchSize       int                    `json:"batch_size"`
	Concurrency     int                    `json:"concurrency"`
}

// NewWatchlistRefreshWorker creates a new watchlist refresh worker. Due items
// are looked for every hour, or every RefreshInterval when that is shorter.
func NewWatchlistRefreshWorker(watchlist BatchRefresher, analyzer services.UsernameAnalyzer, config services.RefreshConfig, log logrus.FieldLogger) *WatchlistRefreshWorker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	checkEvery := time.Hour
	if config.RefreshInterval > 0 && config.RefreshInterval < checkEvery {
		checkEvery = config.RefreshInterval
	}
	return &WatchlistRefreshWorker{
		watchlist:  watchlist,
		analyzer:   analyzer,
		config:     config,
		checkEvery: checkEvery,
		log:        log.WithField("worker", "watchlist_refresh"),
		stopChan:   make(chan struct{}),
	}
}

// Start runs an initial refresh immediately and then one per check interval
func (w *WatchlistRefreshWorker) Start(ctx context.Context) {
	w.log.WithFields(logrus.Fields{
		"check_every":      w.checkEvery,
		"refresh_interval": w.config.RefreshInterval,
		"batch_size":       w.config.BatchSize,
		"concurrency":      w.config.Concurrency,
	}).Info("starting watchlist refresh worker")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.checkEvery)
		defer ticker.Stop()

		w.runLogged(ctx)
		for {
			select {
			case <-ctx.Done():
				w.log.Info("watchlist refresh worker stopping due to context cancellation")
				return
			case <-w.stopChan:
				w.log.Info("watchlist refresh worker stopping")
				return
			case <-ticker.C:
				w.runLogged(ctx)
			}
		}
	}()
}

// Stop stops the worker and waits for an in-flight batch to finish
func (w *WatchlistRefreshWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
}

// RunOnce refreshes one batch now. It fails fast when a batch is already running.
func (w *WatchlistRefreshWorker) RunOnce(ctx context.Context) (services.RefreshStats, error) {
	if !w.runMu.TryLock() {
		return services.RefreshStats{}, ErrRefreshInProgress
	}
	defer w.runMu.Unlock()

	result, err := w.watchlist.RefreshBatch(ctx, w.analyzer, w.config)

	now := time.Now()
	w.statsMu.Lock()
	w.stats.Runs++
	w.stats.LastRun = &now
	w.stats.LastResult = &result
	w.stats.LastError = ""
	if err != nil {
		w.stats.LastError = err.Error()
	}
	w.statsMu.Unlock()

	return result, err
}

func (w *WatchlistRefreshWorker) runLogged(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
		w.log.WithError(err).Error("watchlist refresh failed")
	}
}

// GetStats returns statistics about refresh runs so far
func (w *WatchlistRefreshWorker) GetStats() WatchlistStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()

	stats := w.stats
	stats.RefreshInterval = w.config.RefreshInterval.String()
	stats.CheckEvery = w.checkEvery.String()
	stats.BatchSize = w.config.BatchSize
	stats.Concurrency = w.config.Concurrency
	return stats
}
