package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/userhub/userhub/internal/metrics"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestMetricsHandler_Exposition(t *testing.T) {
	rec := metrics.NewInMemory()
	rec.IncUserCreated()
	rec.IncUserCreated()
	rec.IncUserDeleted()
	rec.IncValidationFailed()
	rec.ObserveRangeQuery(1500*time.Millisecond, 3)
	rec.IncEventPublished(metrics.OutcomeDropped)

	h := NewMetricsHandler(rec, fixedCounter(7))

	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected Content-Type %s", ct)
	}

	body := w.Body.String()
	for _, line := range []string{
		"userhub_users_created_total 2\n",
		"userhub_users_deleted_total 1\n",
		"userhub_users_updated_total 0\n",
		"userhub_validation_failures_total 1\n",
		"userhub_range_query_duration_seconds_count 1\n",
		"userhub_range_query_duration_seconds_sum 1.500000\n",
		"userhub_range_query_results_total 3\n",
		"userhub_users_stored 7\n",
		"userhub_events_published_total{outcome=\"success\"} 0\n",
		"userhub_events_published_total{outcome=\"dropped\"} 1\n",
	} {
		if !strings.Contains(body, line) {
			t.Errorf("missing %q in:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil, nil)

	w := httptest.NewRecorder()
	h.Metrics(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
