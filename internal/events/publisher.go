package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/userhub/internal/metrics"
)

const (
	// DefaultStreamKey is the Redis stream for user change events.
	DefaultStreamKey = "userhub:events:users"

	// DefaultMaxStreamLen is the approximate max length of the stream.
	DefaultMaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// Publisher accepts user change events without blocking the caller.
type Publisher interface {
	PublishAsync(e Event)
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

// PublishAsync is a no-op.
func (NoopPublisher) PublishAsync(Event) {}

// StreamPublisher appends events to a Redis stream.
type StreamPublisher struct {
	redis   *redis.Client
	stream  string
	maxLen  int64
	logger  *slog.Logger
	metrics metrics.Recorder

	wg sync.WaitGroup
}

var _ Publisher = (*StreamPublisher)(nil)

// StreamOption configures a StreamPublisher.
type StreamOption func(*StreamPublisher)

// WithStream overrides the stream key.
func WithStream(key string) StreamOption {
	return func(p *StreamPublisher) {
		if key != "" {
			p.stream = key
		}
	}
}

// WithMaxLen overrides the approximate stream length cap.
func WithMaxLen(n int64) StreamOption {
	return func(p *StreamPublisher) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

// NewStreamPublisher creates a publisher writing to client.
func NewStreamPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder, opts ...StreamOption) *StreamPublisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &StreamPublisher{
		redis:   client,
		stream:  DefaultStreamKey,
		maxLen:  DefaultMaxStreamLen,
		logger:  logger.With("component", "events.publisher"),
		metrics: recorder,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stream returns the stream key events are written to.
func (p *StreamPublisher) Stream() string {
	return p.stream
}

// Publish validates the event and adds it to the stream synchronously.
func (p *StreamPublisher) Publish(ctx context.Context, e Event) (string, error) {
	if err := Validate(e); err != nil {
		return "", fmt.Errorf("invalid event: %w", err)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	id, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return id, nil
}

// PublishAsync publishes in the background. Failures are logged and counted
// as dropped, never returned.
func (p *StreamPublisher) PublishAsync(e Event) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, e)
		if err != nil {
			p.logger.Warn("failed to publish user event",
				"type", string(e.Type),
				"user_id", e.UserID,
				"error", err,
			)
			p.metrics.IncEventPublished(metrics.OutcomeDropped)
			return
		}

		p.logger.Debug("user event published",
			"type", string(e.Type),
			"user_id", e.UserID,
			"stream_id", streamID,
		)
		p.metrics.IncEventPublished(metrics.OutcomeSuccess)
	}()
}

// Wait blocks until in-flight publishes finish or ctx is done.
func (p *StreamPublisher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Decode parses the payload field of a stream message.
func Decode(msg redis.XMessage) (Event, error) {
	raw, ok := msg.Values["payload"].(string)
	if !ok {
		return Event{}, fmt.Errorf("message %s has no payload", msg.ID)
	}
	var e Event
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Event{}, fmt.Errorf("decode message %s: %w", msg.ID, err)
	}
	return e, nil
}
