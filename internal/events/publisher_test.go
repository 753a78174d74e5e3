package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/userhub/userhub/internal/metrics"
)

func TestStreamPublisher_DropsWhenRedisUnreachable(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	recorder := metrics.NewInMemory()
	pub := NewStreamPublisher(client, slog.New(slog.NewTextHandler(io.Discard, nil)), recorder)

	pub.PublishAsync(New(TypeCreated, uuid.New(), time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pub.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	snap := recorder.Snapshot()
	if snap.EventsDropped != 1 {
		t.Errorf("EventsDropped = %d, want 1", snap.EventsDropped)
	}
	if snap.EventsPublished != 0 {
		t.Errorf("EventsPublished = %d, want 0", snap.EventsPublished)
	}
}

func TestNewStreamPublisher_Options(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	pub := NewStreamPublisher(client, nil, nil)
	if pub.Stream() != DefaultStreamKey {
		t.Errorf("Stream() = %q, want %q", pub.Stream(), DefaultStreamKey)
	}

	pub = NewStreamPublisher(client, nil, nil, WithStream("custom"), WithMaxLen(10))
	if pub.Stream() != "custom" {
		t.Errorf("Stream() = %q, want custom", pub.Stream())
	}
	if pub.maxLen != 10 {
		t.Errorf("maxLen = %d, want 10", pub.maxLen)
	}

	pub = NewStreamPublisher(client, nil, nil, WithStream(""), WithMaxLen(0))
	if pub.Stream() != DefaultStreamKey || pub.maxLen != DefaultMaxStreamLen {
		t.Error("empty options should keep defaults")
	}
}

func TestWait_NothingInFlight(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	pub := NewStreamPublisher(client, nil, nil)
	if err := pub.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
