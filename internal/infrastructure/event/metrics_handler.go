package event

import (
	"context"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"github.com/messhall/backend/internal/infrastructure/telemetry"
)

// MetricsEventHandler feeds business metrics from domain events so
// application services stay free of telemetry concerns.
type MetricsEventHandler struct {
	metrics *telemetry.MessMetrics
}

// NewMetricsEventHandler creates a new metrics event handler
func NewMetricsEventHandler(metrics *telemetry.MessMetrics) *MetricsEventHandler {
	return &MetricsEventHandler{metrics: metrics}
}

// Handle records the metric matching the event
func (h *MetricsEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *mess.AttendanceMarkedEvent:
		source := telemetry.MarkSource(e.Source)
		if source != telemetry.MarkSourceStaff && source != telemetry.MarkSourceSelf {
			source = telemetry.MarkSourceStaff
		}
		h.metrics.RecordAttendanceMarked(ctx, source)
	case *mess.AllergyReportFiledEvent:
		h.metrics.RecordAllergyReport(ctx)
	}
	return nil
}

// EventTypes subscribes the handler to the counted events
func (h *MetricsEventHandler) EventTypes() []string {
	return []string{
		mess.EventTypeAttendanceMarked,
		mess.EventTypeAllergyReportFiled,
	}
}

var _ shared.EventHandler = (*MetricsEventHandler)(nil)
