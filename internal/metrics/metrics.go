// Package metrics exposes Prometheus counters for license and sync decisions.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SyncOutcomes         *prometheus.CounterVec
	LicenseStatusChecks  *prometheus.CounterVec
	NotificationsCreated *prometheus.CounterVec
	UsageLogs            *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// New registers the counters on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		SyncOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whizrobo",
			Name:      "robot_sync_total",
			Help:      "Robot sync decisions by status and lock reason.",
		}, []string{"status", "lock_reason"}),
		LicenseStatusChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whizrobo",
			Name:      "license_status_checks_total",
			Help:      "License status resolutions by derived status.",
		}, []string{"status"}),
		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whizrobo",
			Name:      "license_notifications_created_total",
			Help:      "License notifications created by type.",
		}, []string{"type"}),
		UsageLogs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whizrobo",
			Name:      "robot_usage_logs_total",
			Help:      "Usage log entries by outcome (inserted, skipped).",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whizrobo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "whizrobo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	collectors := []prometheus.Collector{
		m.SyncOutcomes,
		m.LicenseStatusChecks,
		m.NotificationsCreated,
		m.UsageLogs,
		m.HTTPRequests,
		m.HTTPDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) RecordSync(status, lockReason string) {
	if m == nil {
		return
	}
	m.SyncOutcomes.WithLabelValues(status, lockReason).Inc()
}

func (m *Metrics) RecordLicenseStatus(status string) {
	if m == nil {
		return
	}
	m.LicenseStatusChecks.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordNotification(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsCreated.WithLabelValues(notificationType).Inc()
}

// RecordUsageLogs adds one ingestion batch
func (m *Metrics) RecordUsageLogs(inserted, skipped int) {
	if m == nil {
		return
	}
	m.UsageLogs.WithLabelValues("inserted").Add(float64(inserted))
	m.UsageLogs.WithLabelValues("skipped").Add(float64(skipped))
}

// ObserveHTTPRequest records one served request; route is the router pattern, not the raw path
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
