package notify

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) snapshot() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event{}, p.events...)
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDispatcher(pub, 8, log.Default())

	d.Notify(Event{Type: EventRegistrationCreated, TourEventID: "event-1"})
	d.Notify(Event{Type: EventRegistrationApproved, TourEventID: "event-1"})
	d.Notify(Event{Type: EventTourEventFull, TourEventID: "event-1"})
	d.Close()

	events := pub.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, EventRegistrationCreated, events[0].Type)
	assert.Equal(t, EventRegistrationApproved, events[1].Type)
	assert.Equal(t, EventTourEventFull, events[2].Type)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	pub := &blockingPublisher{release: block}
	d := NewDispatcher(pub, 1, log.New(discard{}, "", 0))

	// First event occupies the consumer, second fills the buffer, third drops.
	d.Notify(Event{Type: "a"})
	require.Eventually(t, func() bool { return pub.started.Load() }, time.Second, time.Millisecond)
	d.Notify(Event{Type: "b"})
	d.Notify(Event{Type: "c"})

	close(block)
	d.Close()
	assert.Len(t, pub.snapshot(), 2)
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDispatcher(pub, 8, log.New(discard{}, "", 0))

	d.Notify(Event{Type: EventRegistrationCreated, TourEventID: "event-1"})
	d.Close()

	// A handler finishing late must not panic; the event is dropped.
	require.NotPanics(t, func() {
		d.Notify(Event{Type: EventRegistrationApproved, TourEventID: "event-1"})
	})
	require.NotPanics(t, d.Close)

	events := pub.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, EventRegistrationCreated, events[0].Type)
}

type blockingPublisher struct {
	capturePublisher
	started atomic.Bool
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, event Event) error {
	p.started.Store(true)
	<-p.release
	return p.capturePublisher.Publish(ctx, event)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
