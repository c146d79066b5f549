package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus metrics. A nil *Collector is valid
// and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeConnections   prometheus.Gauge

	analysesTotal     *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	overallScore      *prometheus.HistogramVec
	watchlistRefresh  *prometheus.CounterVec
	streamSubscribers prometheus.Gauge
	profileCache      *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector(serviceName string) *Collector {
	ns := strings.ReplaceAll(serviceName, "-", "_")
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    ns + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	c.activeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ns + "_active_connections",
		Help: "Number of in-flight HTTP requests",
	})
	c.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_analyses_total",
			Help: "Completed authenticity analyses",
		},
		[]string{"platform", "trigger"},
	)
	c.analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    ns + "_analysis_duration_seconds",
			Help:    "Time spent scoring a profile",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"platform"},
	)
	c.overallScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    ns + "_overall_score",
			Help:    "Distribution of overall authenticity scores",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"platform"},
	)
	c.watchlistRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_watchlist_refresh_total",
			Help: "Watchlist items re-scored by the background worker",
		},
		[]string{"result"},
	)
	c.streamSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ns + "_stream_subscribers",
		Help: "Connected live analysis stream clients",
	})

	c.profileCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ns + "_profile_cache_lookups_total",
			Help: "Profile cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.activeConnections,
		c.analysesTotal,
		c.analysisDuration,
		c.overallScore,
		c.watchlistRefresh,
		c.streamSubscribers,
		c.profileCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware returns middleware that collects HTTP metrics
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}
		start := time.Now()

		c.activeConnections.Inc()
		defer c.activeConnections.Dec()

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		method := ctx.Request.Method
		c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (c *Collector) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		handler.ServeHTTP(ctx.Writer, ctx.Request)
	}
}

// ObserveAnalysis records a completed analysis
func (c *Collector) ObserveAnalysis(platform, trigger string, overall float64, took time.Duration) {
	if c == nil {
		return
	}
	c.analysesTotal.WithLabelValues(platform, trigger).Inc()
	c.analysisDuration.WithLabelValues(platform).Observe(took.Seconds())
	c.overallScore.WithLabelValues(platform).Observe(overall)
}

// ObserveWatchlistRefresh records the outcome of one background re-score
func (c *Collector) ObserveWatchlistRefresh(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.watchlistRefresh.WithLabelValues(result).Inc()
}

// SetStreamSubscribers records the number of live stream clients
func (c *Collector) SetStreamSubscribers(n int) {
	if c == nil {
		return
	}
	c.streamSubscribers.Set(float64(n))
}

// ObserveProfileCache records a profile cache lookup: hit, miss or error
func (c *Collector) ObserveProfileCache(result string) {
	if c == nil {
		return
	}
	c.profileCache.WithLabelValues(result).Inc()
}
