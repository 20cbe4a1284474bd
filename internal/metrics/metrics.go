// Package metrics provides Prometheus instrumentation for the Dooficoin engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doofi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LedgerEntriesTotal counts ledger entries recorded by type tag.
	LedgerEntriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "ledger_entries_total",
			Help:      "Total ledger entries recorded by transaction type.",
		},
		[]string{"type"},
	)

	// MiningRewardsTotal counts mining reward ticks emitted.
	MiningRewardsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "mining_rewards_total",
			Help:      "Total mining reward ticks credited to players.",
		},
	)

	// ActiveMiningSessions tracks currently open mining sessions.
	ActiveMiningSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "doofi",
			Name:      "active_mining_sessions",
			Help:      "Number of currently active mining sessions.",
		},
	)

	// CombatEventsTotal counts resolved combat events by kind.
	CombatEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "combat_events_total",
			Help:      "Total combat events resolved by kind.",
		},
		[]string{"kind"},
	)

	// FraudAlertsTotal counts fraud alerts raised by triggering rule.
	FraudAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "fraud_alerts_total",
			Help:      "Total fraud alerts raised by rule.",
		},
		[]string{"rule"},
	)

	// WebSocketClients tracks connected realtime clients.
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "doofi",
			Name:      "websocket_clients",
			Help:      "Number of connected realtime clients.",
		},
	)

	// FraudActionsRecorded counts actions appended to fraud windows.
	FraudActionsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "doofi",
			Name:      "fraud_actions_recorded_total",
			Help:      "Total player actions recorded for fraud analysis.",
		},
	)
)

// Register registers all collectors with the default registry.
// Safe to call once at startup.
func Register() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LedgerEntriesTotal,
		MiningRewardsTotal,
		ActiveMiningSessions,
		CombatEventsTotal,
		WebSocketClients,
		FraudAlertsTotal,
		FraudActionsRecorded,
	)
}

// Handler returns the /metrics HTTP handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware instruments HTTP requests with count and latency metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
