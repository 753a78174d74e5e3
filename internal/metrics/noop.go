package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncUserReplaced is a no-op.
func (n *NoopRecorder) IncUserReplaced() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncValidationFailed is a no-op.
func (n *NoopRecorder) IncValidationFailed() {}

// IncUserNotFound is a no-op.
func (n *NoopRecorder) IncUserNotFound() {}

// ObserveRangeQuery is a no-op.
func (n *NoopRecorder) ObserveRangeQuery(duration time.Duration, results int) {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(outcome string) {}
