package worker

import (
	"io"

	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/service"
)

// NotificationWorker owns the event subscriptions and the outbound producer.
type NotificationWorker struct {
	producer io.Closer
	logger   *zap.Logger
}

// StartNotificationWorker registers notification handlers. producer may be nil.
func StartNotificationWorker(notificationService *service.NotificationService, producer io.Closer, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	return &NotificationWorker{producer: producer, logger: logger}
}

// Stop flushes the producer.
func (w *NotificationWorker) Stop() {
	if w == nil || w.producer == nil {
		return
	}
	if err := w.producer.Close(); err != nil {
		w.logger.Warn("close event producer", zap.Error(err))
	}
}
