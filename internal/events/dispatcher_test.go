package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventComplaintEscalated, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventComplaintEscalated, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventComplaintCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintEscalated, ComplaintID: "c-1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventSLAAlertRaised}))
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false

	d.Subscribe(EventComplaintReopened, func(ctx context.Context, e Event) error {
		panic("nil payload")
	})
	d.Subscribe(EventComplaintReopened, func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintReopened, ComplaintID: "c-2"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nil payload")
	assert.Contains(t, err.Error(), string(EventComplaintReopened))
	assert.True(t, delivered)
}
