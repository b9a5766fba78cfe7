package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/messhall/backend/internal/infrastructure/telemetry"
)

func TestStartSpan(t *testing.T) {
	ctx, span := telemetry.StartSpan(context.Background(), "attendance.mark")
	require.NotNil(t, span)
	defer span.End()

	assert.NotNil(t, ctx)
	assert.Equal(t, span, telemetry.SpanFromContext(ctx))
}

func TestStartSpan_WithOptions(t *testing.T) {
	ctx, span := telemetry.StartSpan(context.Background(), "menu.list",
		telemetry.WithAttribute(telemetry.SpanAttrDay, "Monday"),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	assert.NotNil(t, ctx)
}

func TestStartServiceSpan(t *testing.T) {
	ctx, span := telemetry.StartServiceSpan(context.Background(), "attendance", "mark")
	require.NotNil(t, span)
	defer span.End()

	assert.NotNil(t, ctx)
}

func TestSetAttributes_HandlesNilAndOddPairs(t *testing.T) {
	// Nil span must not panic
	telemetry.SetAttributes(nil, "key", "value")

	_, span := telemetry.StartSpan(context.Background(), "test")
	defer span.End()

	// Odd trailing value is ignored
	telemetry.SetAttributes(span,
		"student_id", "abc",
		"marked_count", 3,
		"dangling",
	)

	// Non-string keys are skipped
	telemetry.SetAttributes(span, 42, "value")
}

func TestRecordError(t *testing.T) {
	// Nil span and nil error must not panic
	telemetry.RecordError(nil, errors.New("boom"))

	_, span := telemetry.StartSpan(context.Background(), "test")
	defer span.End()

	telemetry.RecordError(span, nil)
	telemetry.RecordError(span, errors.New("storage failed"))
}

func TestAddEvent(t *testing.T) {
	telemetry.AddEvent(nil, "noop")

	_, span := telemetry.StartSpan(context.Background(), "test")
	defer span.End()

	telemetry.AddEvent(span, "attendance_marked",
		"student_id", "abc",
		"date", "2026-08-31",
	)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))
}
