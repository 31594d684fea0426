package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "fundline/pkg/domain"
	dErrors "fundline/pkg/domain-errors"
)

func TestWorker_ForwardsBufferedEvents(t *testing.T) {
	sink := NewMemorySink()
	worker := NewWorker(sink, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	event := Event{
		LenderID: id.NewLenderID(),
		Type:     TypeRisk,
		Priority: PriorityHigh,
		Title:    "Loan overdue",
	}
	require.NoError(t, worker.Emit(context.Background(), event))

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	got := sink.Events()[0]
	assert.Equal(t, event.LenderID, got.LenderID)
	assert.Equal(t, TypeRisk, got.Type)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.False(t, got.Timestamp.IsZero())
}

func TestWorker_FullBufferRejectsEvents(t *testing.T) {
	worker := NewWorker(NewMemorySink(), 1)

	require.NoError(t, worker.Emit(context.Background(), Event{Title: "first"}))

	err := worker.Emit(context.Background(), Event{Title: "second"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDependency))
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	worker := NewWorker(NewMemorySink(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
