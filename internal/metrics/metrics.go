// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User mutation metrics
	IncUserCreated()
	IncUserUpdated()
	IncUserReplaced()
	IncUserDeleted()

	// Rejections
	IncValidationFailed()
	IncUserNotFound()

	// Range query metrics
	ObserveRangeQuery(duration time.Duration, results int)

	// Change event publishing; outcome is OutcomeSuccess or OutcomeDropped
	IncEventPublished(outcome string)
}

// Event publish outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDropped = "dropped"
)

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
