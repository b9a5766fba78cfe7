package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ensure NoopReportArchive implements ReportArchive
var _ ReportArchive = (*NoopReportArchive)(nil)

// NoopReportArchive keeps report keys in memory without persisting the
// PDF bytes. Used when object storage is disabled: export still works,
// only the archive copy is skipped.
type NoopReportArchive struct {
	mu     sync.RWMutex
	keys   map[string]struct{}
	logger *zap.Logger
}

// NewNoopReportArchive creates a new NoopReportArchive
func NewNoopReportArchive(logger *zap.Logger) *NoopReportArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopReportArchive{
		keys:   make(map[string]struct{}),
		logger: logger,
	}
}

// Store records the key and discards the PDF bytes
func (s *NoopReportArchive) Store(ctx context.Context, date time.Time, pdfData []byte) (string, error) {
	if len(pdfData) == 0 {
		return "", errors.New("report data is empty")
	}

	key := ReportKey("", date)

	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("Report archive disabled, discarding PDF",
		zap.String("key", key),
		zap.Int("bytes", len(pdfData)))

	return key, nil
}

// Key returns the date-based key reports are recorded under
func (s *NoopReportArchive) Key(date time.Time) string {
	return ReportKey("", date)
}

// DownloadURL is unavailable without a storage backend
func (s *NoopReportArchive) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "", time.Time{}, errors.New("report archive is disabled")
}

// Exists reports whether a key was stored during this process lifetime
func (s *NoopReportArchive) Exists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[storageKey]
	return ok, nil
}

// Delete removes a recorded key
func (s *NoopReportArchive) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, storageKey)
	return nil
}
