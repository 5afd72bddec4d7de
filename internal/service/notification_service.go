package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/events"
)

// EventSink forwards events outside the process.
type EventSink interface {
	SendEvent(ctx context.Context, key string, event any) error
}

// NotificationService handles emitting notifications for insight events.
type NotificationService struct {
	dispatcher events.Dispatcher
	sink       EventSink
	logger     *zap.Logger
}

// NewNotificationService creates the service. A nil sink only logs.
func NewNotificationService(dispatcher events.Dispatcher, sink EventSink, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		sink:       sink,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAnalysisCompleted, n.handleAnalysisCompleted)
	n.dispatcher.Subscribe(events.EventHighRiskDetected, n.handleHighRisk)
	n.dispatcher.Subscribe(events.EventTriageApplied, n.handleTriageApplied)
	n.dispatcher.Subscribe(events.EventKBGapsDetected, n.handleKBGaps)
}

func (n *NotificationService) handleAnalysisCompleted(ctx context.Context, event events.Event) error {
	n.logger.Debug("AnalysisCompleted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleHighRisk(ctx context.Context, event events.Event) error {
	n.logger.Warn("HighRiskDetected", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleTriageApplied(ctx context.Context, event events.Event) error {
	n.logger.Info("TriageApplied", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleKBGaps(ctx context.Context, event events.Event) error {
	n.logger.Info("KBGapsDetected", zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

// forward keys ticket events by ticket id so a ticket's events stay ordered on one partition.
func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.sink == nil {
		return nil
	}
	key := event.TicketID
	if key == "" {
		key = string(event.Type)
	}
	return n.sink.SendEvent(ctx, key, event)
}
