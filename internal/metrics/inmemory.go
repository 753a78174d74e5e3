package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated           uint64
	UsersUpdated           uint64
	UsersReplaced          uint64
	UsersDeleted           uint64
	ValidationFailures     uint64
	NotFound               uint64
	RangeQueryCount        uint64
	RangeQueryDurationNs   int64
	RangeQueryResultsTotal uint64
	EventsPublished        uint64
	EventsDropped          uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and is handy in tests.
type InMemoryRecorder struct {
	usersCreated           atomic.Uint64
	usersUpdated           atomic.Uint64
	usersReplaced          atomic.Uint64
	usersDeleted           atomic.Uint64
	validationFailures     atomic.Uint64
	notFound               atomic.Uint64
	rangeQueryCount        atomic.Uint64
	rangeQueryDurationNs   atomic.Int64
	rangeQueryResultsTotal atomic.Uint64
	eventsPublished        atomic.Uint64
	eventsDropped          atomic.Uint64
}

var (
	_ Recorder    = (*InMemoryRecorder)(nil)
	_ Snapshotter = (*InMemoryRecorder)(nil)
)

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:           m.usersCreated.Load(),
		UsersUpdated:           m.usersUpdated.Load(),
		UsersReplaced:          m.usersReplaced.Load(),
		UsersDeleted:           m.usersDeleted.Load(),
		ValidationFailures:     m.validationFailures.Load(),
		NotFound:               m.notFound.Load(),
		RangeQueryCount:        m.rangeQueryCount.Load(),
		RangeQueryDurationNs:   m.rangeQueryDurationNs.Load(),
		RangeQueryResultsTotal: m.rangeQueryResultsTotal.Load(),
		EventsPublished:        m.eventsPublished.Load(),
		EventsDropped:          m.eventsDropped.Load(),
	}
}

// IncUserCreated increments the created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	m.usersCreated.Add(1)
}

// IncUserUpdated increments the partial update counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	m.usersUpdated.Add(1)
}

// IncUserReplaced increments the full replace counter.
func (m *InMemoryRecorder) IncUserReplaced() {
	m.usersReplaced.Add(1)
}

// IncUserDeleted increments the delete counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	m.usersDeleted.Add(1)
}

// IncValidationFailed increments the validation rejection counter.
func (m *InMemoryRecorder) IncValidationFailed() {
	m.validationFailures.Add(1)
}

// IncUserNotFound increments the not-found counter.
func (m *InMemoryRecorder) IncUserNotFound() {
	m.notFound.Add(1)
}

// ObserveRangeQuery records a range query and its result size.
func (m *InMemoryRecorder) ObserveRangeQuery(duration time.Duration, results int) {
	m.rangeQueryCount.Add(1)
	m.rangeQueryDurationNs.Add(duration.Nanoseconds())
	m.rangeQueryResultsTotal.Add(uint64(results))
}

// IncEventPublished counts a change event by publish outcome.
func (m *InMemoryRecorder) IncEventPublished(outcome string) {
	if outcome == OutcomeSuccess {
		m.eventsPublished.Add(1)
		return
	}
	m.eventsDropped.Add(1)
}
