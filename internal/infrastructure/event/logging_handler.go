package event

import (
	"context"

	"github.com/messhall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingEventHandler is a wildcard handler that writes every published
// domain event to the activity log
type LoggingEventHandler struct {
	logger *zap.Logger
}

// NewLoggingEventHandler creates a new logging event handler
func NewLoggingEventHandler(logger *zap.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{logger: logger}
}

// Handle logs the event
func (h *LoggingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()))
	return nil
}

// EventTypes returns an empty slice; the handler receives all events
func (h *LoggingEventHandler) EventTypes() []string {
	return []string{}
}

var _ shared.EventHandler = (*LoggingEventHandler)(nil)
