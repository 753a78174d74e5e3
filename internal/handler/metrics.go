package handler

import (
	"fmt"
	"net/http"

	"github.com/userhub/userhub/internal/metrics"
)

// RecordCounter reports how many records are stored.
type RecordCounter interface {
	Count() int
}

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
	counter     RecordCounter
}

// NewMetricsHandler creates a new MetricsHandler. counter may be nil.
func NewMetricsHandler(snapshotter metrics.Snapshotter, counter RecordCounter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter, counter: counter}
}

// Metrics returns metrics in Prometheus text exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userhub_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "userhub_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "userhub_users_replaced_total %d\n", snap.UsersReplaced)
	writeMetric(w, "userhub_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "userhub_validation_failures_total %d\n", snap.ValidationFailures)
	writeMetric(w, "userhub_user_not_found_total %d\n", snap.NotFound)

	writeMetric(w, "userhub_range_query_duration_seconds_count %d\n", snap.RangeQueryCount)
	writeMetric(w, "userhub_range_query_duration_seconds_sum %.6f\n", float64(snap.RangeQueryDurationNs)/1e9)
	writeMetric(w, "userhub_range_query_results_total %d\n", snap.RangeQueryResultsTotal)

	writeMetric(w, "userhub_events_published_total{outcome=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "userhub_events_published_total{outcome=\"dropped\"} %d\n", snap.EventsDropped)

	if h.counter != nil {
		writeMetric(w, "userhub_users_stored %d\n", h.counter.Count())
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
