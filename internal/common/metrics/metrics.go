// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growthscan_sessions_started_total",
			Help: "Total number of Growth-Scan sessions opened",
		},
	)

	ScansAbandoned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growthscan_sessions_abandoned_total",
			Help: "Total number of Growth-Scan sessions closed before submission",
		},
		[]string{"stage"},
	)

	LeadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growthscan_leads_created_total",
			Help: "Total number of diagnostic leads persisted",
		},
		[]string{"archetype", "revenue_tier"},
	)

	LeadInsertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "growthscan_lead_insert_failures_total",
			Help: "Total number of failed lead inserts",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_notifications_sent_total",
			Help: "Total number of lead notifications sent",
		},
		[]string{"channel", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method", "status"},
	)

	GalleryUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_uploads_total",
			Help: "Total number of gallery image uploads",
		},
		[]string{"category", "status"},
	)
)
