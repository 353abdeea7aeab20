package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbadges/pkg/domain"
)

func TestStampFillsGeneratedFields(t *testing.T) {
	stamped := Stamp(Event{Type: TypeExperienceSubmitted})

	assert.NotEmpty(t, stamped.ID)
	assert.False(t, stamped.Timestamp.IsZero())
	assert.Equal(t, TypeExperienceSubmitted, stamped.Type)
}

func TestStampKeepsExistingFields(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stamped := Stamp(Event{ID: "fixed", Timestamp: ts})

	assert.Equal(t, "fixed", stamped.ID)
	assert.Equal(t, ts, stamped.Timestamp)
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	publisher := NewChannelPublisher(1)
	ctx := context.Background()

	require.NoError(t, publisher.Emit(ctx, Event{Type: TypeExperienceSubmitted}))
	// Inbox is full; the second emission is dropped, not blocked.
	require.NoError(t, publisher.Emit(ctx, Event{Type: TypeExperienceValidated}))

	assert.Len(t, publisher.Inbox(), 1)
}

func TestWorkerDeliversToSink(t *testing.T) {
	publisher := NewChannelPublisher(8)
	sink := NewMemorySink()
	worker := NewWorker(sink, publisher.Inbox())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	require.NoError(t, publisher.Emit(ctx, Event{
		Type:  TypeBadgeDelivered,
		Actor: domain.Identity("acme-corp"),
	}))

	assert.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	got := sink.Events()
	require.Len(t, got, 1)
	assert.Equal(t, TypeBadgeDelivered, got[0].Type)
	assert.Equal(t, domain.Identity("acme-corp"), got[0].Actor)
	assert.NotEmpty(t, got[0].ID)
}
