// Package events carries the observable notifications the workflow and the
// credential issuers emit on submission, validation, and issuance. External
// indexers are the consumer; the registries do not require events to be
// consumed for correctness, so emission failures are logged, never returned
// to callers.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"openbadges/pkg/domain"
)

type Type string

const (
	TypeExperienceSubmitted Type = "experience.submitted"
	TypeExperienceValidated Type = "experience.validated"
	TypeBadgeClassCreated   Type = "badge.class.created"
	TypeBadgeDelivered      Type = "badge.delivered"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID           string              `json:"id"`
	Type         Type                `json:"type"`
	Timestamp    time.Time           `json:"timestamp"`
	Actor        domain.Identity     `json:"actor,omitempty"`
	ExperienceID domain.ExperienceID `json:"experience_id,omitempty"`
	IssuerID     string              `json:"issuer_id,omitempty"`
	Recipient    domain.Identity     `json:"recipient,omitempty"`
	TokenID      int64               `json:"token_id,omitempty"`
}

// Publisher accepts events for delivery to external consumers.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Stamp fills generated fields so emitters only set domain payload.
func Stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}

// ChannelPublisher hands events to an in-process worker. Used when Kafka is
// not configured and in tests. Emission never blocks a domain operation: if
// the inbox is full the event is dropped.
type ChannelPublisher struct {
	inbox chan Event
}

func NewChannelPublisher(buffer int) *ChannelPublisher {
	return &ChannelPublisher{inbox: make(chan Event, buffer)}
}

func (p *ChannelPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.inbox <- Stamp(event):
		return nil
	default:
		return nil
	}
}

// Inbox exposes the channel for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event { return p.inbox }

// Sink receives events from the worker.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Worker consumes events from a channel and hands them to a sink. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// MemorySink retains events in order. Tests use it to observe emissions.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events...)
}
