package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/messhall/backend/internal/infrastructure/telemetry"
)

// headcountStub returns canned headcount values
type headcountStub struct {
	mu      sync.Mutex
	present int64
	total   int64
	err     error
	calls   int
}

func (h *headcountStub) CountPresentToday(ctx context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return h.present, h.err
}

func (h *headcountStub) CountStudents(ctx context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total, h.err
}

func (h *headcountStub) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func newMessMetrics(t *testing.T, provider telemetry.HeadcountProvider) *telemetry.MessMetrics {
	t.Helper()
	mm, err := telemetry.NewMessMetrics(telemetry.MessMetricsConfig{
		Meter:             noop.NewMeterProvider().Meter("test"),
		Logger:            zap.NewNop(),
		HeadcountProvider: provider,
	})
	require.NoError(t, err)
	return mm
}

func TestNewMessMetrics_RequiresMeter(t *testing.T) {
	_, err := telemetry.NewMessMetrics(telemetry.MessMetricsConfig{})
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestMessMetrics_RecordCounters(t *testing.T) {
	mm := newMessMetrics(t, nil)
	ctx := context.Background()

	// Recording against a no-op meter must not panic
	mm.RecordAttendanceMarked(ctx, telemetry.MarkSourceStaff)
	mm.RecordAttendanceMarked(ctx, telemetry.MarkSourceSelf)
	mm.RecordAllergyReport(ctx)
	mm.RecordMenuCacheLookup(ctx, telemetry.CacheResultHit)
	mm.RecordMenuCacheLookup(ctx, telemetry.CacheResultMiss)
	mm.RecordPresentToday(ctx, 42)
	mm.RecordTotalStudents(ctx, 120)
}

func TestMessMetrics_PeriodicCollection(t *testing.T) {
	stub := &headcountStub{present: 10, total: 50}
	mm := newMessMetrics(t, stub)
	defer mm.Stop()

	mm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return stub.callCount() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestMessMetrics_PeriodicCollection_SurvivesProviderError(t *testing.T) {
	stub := &headcountStub{err: errors.New("db down")}
	mm := newMessMetrics(t, stub)
	defer mm.Stop()

	mm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return stub.callCount() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestMessMetrics_StopIsIdempotent(t *testing.T) {
	mm := newMessMetrics(t, &headcountStub{})
	mm.StartPeriodicCollection(context.Background(), time.Hour)

	mm.Stop()
	mm.Stop()
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
	assert.NoError(t, mp.ForceFlush(context.Background()))
}
