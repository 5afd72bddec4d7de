package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-labs/support-insights/internal/events"
	"github.com/helpdesk-labs/support-insights/internal/service"
)

type countingSink struct {
	sent   int
	closed bool
}

func (s *countingSink) SendEvent(context.Context, string, any) error {
	s.sent++
	return nil
}

func (s *countingSink) Close() error {
	s.closed = true
	return errors.New("already closed")
}

func TestNotificationWorker(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	sink := &countingSink{}

	w := StartNotificationWorker(service.NewNotificationService(dispatcher, sink, nil), sink, nil)
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTriageApplied, TicketID: "TKT-1"}))
	w.Stop()

	assert.Equal(t, 1, sink.sent)
	assert.True(t, sink.closed)
}

func TestNotificationWorker_NilSafe(t *testing.T) {
	var w *NotificationWorker
	w.Stop()
	StartNotificationWorker(nil, nil, nil).Stop()
}
