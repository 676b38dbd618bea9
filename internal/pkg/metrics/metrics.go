// Package metrics defines and registers the custom Prometheus metrics of the
// employee accounts API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountOperationsTotal counts account lifecycle calls.
// Labels:
//   - operation: "register", "login", "edit", "logout"
//   - result: "ok" or the error class (e.g. "conflict", "cooldown", "unauthorized")
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaUploadedFilesTotal counts files stored in the object store.
var MediaUploadedFilesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploaded_files_total",
		Help:      "Total number of files uploaded to object storage.",
	},
)

// MediaUploadBytes observes the size of each uploaded file.
var MediaUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_bytes",
		Help:      "Size of uploaded files in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB … 16MiB
	},
)

// ── Hash notification metrics ─────────────────────────────────────────────────

// HashNotificationsTotal counts deliveries to the hash registry.
// Label:
//   - result: "sent", "error", or "dropped" (queue full / dispatcher stopped)
var HashNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hash_notifications_total",
		Help:      "Total number of hash notifications, labelled by result.",
	},
	[]string{"result"},
)

// HashNotificationQueueDepth tracks pending notifications per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var HashNotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// HashNotificationDuration measures a single registry call.
var HashNotificationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_notification_duration_seconds",
		Help:      "Duration of hash registry calls.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SwallowedErrorsTotal counts errors handed to the error reporter.
// Label:
//   - op: the operation that failed (e.g. "send_hash", "enqueue_hash")
var SwallowedErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swallowed_errors_total",
		Help:      "Total number of errors recorded by the error reporter instead of returned.",
	},
	[]string{"op"},
)
