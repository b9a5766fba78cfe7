package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/telemetry"
)

func newTestMessMetrics(t *testing.T) *telemetry.MessMetrics {
	t.Helper()
	metrics, err := telemetry.NewMessMetrics(telemetry.MessMetricsConfig{
		Meter:  noop.NewMeterProvider().Meter("test"),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	return metrics
}

func TestMetricsEventHandler_AttendanceMarked(t *testing.T) {
	h := NewMetricsEventHandler(newTestMessMetrics(t))

	event := mess.NewAttendanceMarkedEvent(uuid.New(), time.Now(), mess.MarkSourceSelf)

	assert.NoError(t, h.Handle(context.Background(), event))
}

func TestMetricsEventHandler_AllergyReportFiled(t *testing.T) {
	h := NewMetricsEventHandler(newTestMessMetrics(t))

	report, err := mess.NewAllergyReport(uuid.New(), uuid.New(), "itchy", time.Now())
	require.NoError(t, err)

	assert.NoError(t, h.Handle(context.Background(), mess.NewAllergyReportFiledEvent(report)))
}

func TestMetricsEventHandler_IgnoresOtherEvents(t *testing.T) {
	h := NewMetricsEventHandler(newTestMessMetrics(t))

	student, err := mess.NewStudent("Ravi Kumar", "A-101", "", "veg")
	require.NoError(t, err)

	assert.NoError(t, h.Handle(context.Background(), mess.NewStudentCreatedEvent(student)))
}

func TestMetricsEventHandler_EventTypes(t *testing.T) {
	h := NewMetricsEventHandler(newTestMessMetrics(t))

	assert.Equal(t, []string{mess.EventTypeAttendanceMarked, mess.EventTypeAllergyReportFiled}, h.EventTypes())
}
