// Package notify publishes domain events after a transaction commits. Delivery
// is decoupled from the commit path: services hand events to a Dispatcher and
// never wait on a publisher inside a transaction.
package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	EventRegistrationCreated   = "registration.created"
	EventRegistrationApproved  = "registration.approved"
	EventRegistrationRejected  = "registration.rejected"
	EventRegistrationCancelled = "registration.cancelled"
	EventTourEventFull         = "tour_event.full"
	EventTourEventReopened     = "tour_event.reopened"
)

// Event describes a committed state transition.
type Event struct {
	Type           string    `json:"type"`
	TourEventID    string    `json:"tour_event_id"`
	RegistrationID string    `json:"registration_id,omitempty"`
	TouristUserID  string    `json:"tourist_user_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers events to an external channel.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Notifier is the narrow seam services use to emit post-commit events.
type Notifier interface {
	Notify(event Event)
}

// LogPublisher writes events to a logger. Used when no broker is configured.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Printf("notify type=%s tour_event=%s registration=%s", event.Type, event.TourEventID, event.RegistrationID)
	return nil
}

const publishTimeout = 5 * time.Second

// Dispatcher buffers events and publishes them from a single goroutine.
// Notify never blocks; when the buffer is full the event is dropped with a
// log line rather than stalling a request.
type Dispatcher struct {
	publisher Publisher
	logger    *log.Logger
	events    chan Event

	closeOnce sync.Once
	// quit tells Notify and the run loop to stop; the events channel itself
	// is never closed, so a straggling request after Close cannot panic on
	// the send.
	quit chan struct{}
	done chan struct{}
}

func NewDispatcher(publisher Publisher, buffer int, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		publisher: publisher,
		logger:    logger,
		events:    make(chan Event, buffer),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Notify(event Event) {
	select {
	case <-d.quit:
		d.logger.Printf("WARN: dispatcher closed, dropping event type=%s tour_event=%s", event.Type, event.TourEventID)
		return
	default:
	}
	select {
	case d.events <- event:
	default:
		d.logger.Printf("WARN: notify buffer full, dropping event type=%s tour_event=%s", event.Type, event.TourEventID)
	}
}

// Close stops the dispatcher after draining buffered events.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.quit)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case event := <-d.events:
			d.publish(event)
		case <-d.quit:
			for {
				select {
				case event := <-d.events:
					d.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) publish(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Printf("WARN: publish event type=%s: %v", event.Type, err)
	}
}
