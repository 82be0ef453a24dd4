// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_check_runs_total",
			Help: "Total number of check runs by trigger source",
		},
		[]string{"trigger"},
	)

	CheckRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hol_check_run_duration_seconds",
			Help: "Duration of full check runs in seconds",
		},
		[]string{"trigger"},
	)

	IntentsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_check_intents_total",
			Help: "Total number of notification intents emitted per check kind",
		},
		[]string{"kind"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_notifications_created_total",
			Help: "Total number of in-app notifications created per check kind",
		},
		[]string{"kind"},
	)

	NotificationsDeduplicated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_notifications_deduplicated_total",
			Help: "Total number of notifications suppressed by the sink dedup",
		},
		[]string{"kind"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_notifications_failed_total",
			Help: "Total number of failed notification attempts per check kind",
		},
		[]string{"kind", "error_code"},
	)

	EmailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hol_emails_sent_total",
			Help: "Total number of digest emails delivered",
		},
	)

	EmailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hol_emails_failed_total",
			Help: "Total number of failed digest email attempts",
		},
	)

	ArchiveRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hol_archive_runs_total",
			Help: "Total number of archival runs by outcome",
		},
		[]string{"outcome"},
	)

	ArchivedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hol_archived_records_total",
			Help: "Total number of employee records written to archive artifacts",
		},
	)

	ArchiveDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hol_archive_delete_failures_total",
			Help: "Total number of live-store deletes that failed after archival",
		},
	)
)
