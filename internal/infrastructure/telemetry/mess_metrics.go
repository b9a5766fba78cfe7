// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MessMetrics provides business metrics for the mess hall system.
// It tracks attendance marking, allergy reports, and headcount health.
type MessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	attendanceMarkedTotal *Counter
	allergyReportsTotal   *Counter
	menuCacheTotal        *Counter

	// Gauge metrics (point-in-time values)
	presentTodayGauge  *Gauge
	totalStudentsGauge *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	headcountProvider HeadcountProvider
}

// HeadcountProvider provides headcount data for periodic metrics
// collection. The interface keeps the telemetry layer from depending on
// the attendance domain directly.
type HeadcountProvider interface {
	// CountPresentToday returns the number of students marked present today
	CountPresentToday(ctx context.Context) (int64, error)
	// CountStudents returns the total number of enrolled students
	CountStudents(ctx context.Context) (int64, error)
}

// MessMetricsConfig holds configuration for mess hall metrics.
type MessMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	CollectInterval   time.Duration // Default: 5 minutes
	HeadcountProvider HeadcountProvider
}

// NewMessMetrics creates a new MessMetrics instance.
func NewMessMetrics(cfg MessMetricsConfig) (*MessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mm := &MessMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		headcountProvider: cfg.HeadcountProvider,
	}

	var err error

	mm.attendanceMarkedTotal, err = NewCounter(
		cfg.Meter,
		"messhall_attendance_marked_total",
		"Total number of attendance marks recorded",
		"{marks}",
	)
	if err != nil {
		return nil, err
	}

	mm.allergyReportsTotal, err = NewCounter(
		cfg.Meter,
		"messhall_allergy_reports_total",
		"Total number of allergy reports filed by students",
		"{reports}",
	)
	if err != nil {
		return nil, err
	}

	mm.menuCacheTotal, err = NewCounter(
		cfg.Meter,
		"messhall_menu_cache_total",
		"Menu cache lookups by result",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}

	mm.presentTodayGauge, err = NewGauge(
		cfg.Meter,
		"messhall_present_today",
		"Number of students marked present today",
		"{students}",
	)
	if err != nil {
		return nil, err
	}

	mm.totalStudentsGauge, err = NewGauge(
		cfg.Meter,
		"messhall_students_total",
		"Total number of enrolled students",
		"{students}",
	)
	if err != nil {
		return nil, err
	}

	return mm, nil
}

// MarkSource labels who recorded an attendance mark.
type MarkSource string

const (
	MarkSourceStaff MarkSource = "staff"
	MarkSourceSelf  MarkSource = "self"
)

// CacheResult labels the outcome of a menu cache lookup.
type CacheResult string

const (
	CacheResultHit  CacheResult = "hit"
	CacheResultMiss CacheResult = "miss"
)

// RecordAttendanceMarked records a successful attendance mark.
func (mm *MessMetrics) RecordAttendanceMarked(ctx context.Context, source MarkSource) {
	mm.attendanceMarkedTotal.Inc(ctx,
		AttrMarkSource.String(string(source)),
	)
}

// RecordAllergyReport records a filed allergy report.
func (mm *MessMetrics) RecordAllergyReport(ctx context.Context) {
	mm.allergyReportsTotal.Inc(ctx)
}

// RecordMenuCacheLookup records a menu cache hit or miss.
func (mm *MessMetrics) RecordMenuCacheLookup(ctx context.Context, result CacheResult) {
	mm.menuCacheTotal.Inc(ctx,
		AttrCacheResult.String(string(result)),
	)
}

// RecordPresentToday records the current present-today headcount.
func (mm *MessMetrics) RecordPresentToday(ctx context.Context, count int64) {
	mm.presentTodayGauge.Record(ctx, count)
}

// RecordTotalStudents records the current enrolled student count.
func (mm *MessMetrics) RecordTotalStudents(ctx context.Context, count int64) {
	mm.totalStudentsGauge.Record(ctx, count)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (mm *MessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	mm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go mm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (mm *MessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	mm.collectHeadcountMetrics(ctx)

	for {
		select {
		case <-mm.stopChan:
			mm.logger.Info("Stopping periodic mess metrics collection")
			return
		case <-ctx.Done():
			mm.logger.Info("Context cancelled, stopping periodic mess metrics collection")
			return
		case <-ticker.C:
			mm.collectHeadcountMetrics(ctx)
		}
	}
}

// collectHeadcountMetrics collects headcount gauge metrics.
func (mm *MessMetrics) collectHeadcountMetrics(ctx context.Context) {
	if mm.headcountProvider == nil {
		mm.logger.Debug("No headcount provider configured, skipping headcount metrics collection")
		return
	}

	present, err := mm.headcountProvider.CountPresentToday(ctx)
	if err != nil {
		mm.logger.Warn("Failed to get present-today count", zap.Error(err))
	} else {
		mm.RecordPresentToday(ctx, present)
	}

	total, err := mm.headcountProvider.CountStudents(ctx)
	if err != nil {
		mm.logger.Warn("Failed to get student count", zap.Error(err))
	} else {
		mm.RecordTotalStudents(ctx, total)
	}
}

// Stop stops the periodic collection.
func (mm *MessMetrics) Stop() {
	mm.stopOnce.Do(func() {
		close(mm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewMessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
