// Package metrics provides Prometheus-compatible metrics for monitoring.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "community_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_http_active_requests",
			Help: "Number of active HTTP requests",
		},
	)

	// GraphQL metrics
	GraphQLOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_graphql_operations_total",
			Help: "Total GraphQL operations by name and status",
		},
		[]string{"operation", "status"},
	)

	// Cascade delete metrics
	CascadeDocumentsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_cascade_documents_deleted_total",
			Help: "Documents removed by cascade deletes, by collection",
		},
		[]string{"collection"},
	)

	// Scheduler metrics
	SchedulerTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_scheduler_tasks_total",
			Help: "Total number of scheduled tasks executed",
		},
		[]string{"task", "status"},
	)

	SchedulerTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "community_scheduler_task_duration_seconds",
			Help:    "Scheduled task duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
		[]string{"task"},
	)

	SchedulerLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "community_scheduler_last_run_timestamp",
			Help: "Timestamp of last task run",
		},
		[]string{"task"},
	)

	// Authentication metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_auth_attempts_total",
			Help: "Total authentication attempts",
		},
		[]string{"method", "status"},
	)

	// Websocket metrics
	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_websocket_connections",
			Help: "Number of connected chat websocket clients",
		},
	)

	WebsocketEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "community_websocket_events_total",
			Help: "Total websocket events pushed to clients",
		},
		[]string{"event"},
	)

	// Application info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "community_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "build_date", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_app_start_timestamp",
			Help: "Application start timestamp",
		},
	)

	// System metrics
	SystemMemoryUsed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_system_memory_used_bytes",
			Help: "System memory used in bytes",
		},
	)

	SystemGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "community_system_goroutines",
			Help: "Number of goroutines",
		},
	)
)

var (
	initOnce  sync.Once
	startTime time.Time
)

// Init initializes application info metrics
func Init(version, commit, buildDate string) {
	initOnce.Do(func() {
		startTime = time.Now()
		AppInfo.WithLabelValues(version, commit, buildDate, runtime.Version()).Set(1)
		AppStartTime.SetToCurrentTime()

		go updateMetrics()
	})
}

// updateMetrics periodically updates uptime and system metrics
func updateMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		AppUptime.Set(time.Since(startTime).Seconds())

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		SystemMemoryUsed.Set(float64(m.Alloc))
		SystemGoroutines.Set(float64(runtime.NumGoroutine()))
	}
}

// GraphQLObserved records a resolved GraphQL operation
func GraphQLObserved(operation, status string) {
	GraphQLOperationsTotal.WithLabelValues(operation, status).Inc()
}

// CascadeDeleted records documents removed from a collection during a
// cascade delete
func CascadeDeleted(collection string, count int64) {
	if count > 0 {
		CascadeDocumentsDeleted.WithLabelValues(collection).Add(float64(count))
	}
}

// RecordSchedulerTask records scheduler task execution
func RecordSchedulerTask(task, status string, duration time.Duration) {
	SchedulerTasksTotal.WithLabelValues(task, status).Inc()
	SchedulerTaskDuration.WithLabelValues(task).Observe(duration.Seconds())
	SchedulerLastRun.WithLabelValues(task).SetToCurrentTime()
}

// RecordAuthAttempt records an authentication attempt
func RecordAuthAttempt(method, status string) {
	AuthAttempts.WithLabelValues(method, status).Inc()
}

// RecordWebsocketEvent records an event pushed over a websocket
func RecordWebsocketEvent(event string) {
	WebsocketEventsTotal.WithLabelValues(event).Inc()
}
