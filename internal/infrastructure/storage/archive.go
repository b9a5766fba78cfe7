// Package storage archives rendered food count reports in S3-compatible
// object storage so staff can retrieve past reports.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReportArchive stores rendered report PDFs and hands out download URLs
type ReportArchive interface {
	// Store persists a rendered report and returns its storage key
	Store(ctx context.Context, date time.Time, pdfData []byte) (string, error)
	// Key returns the storage key a report for the given date lives under
	Key(date time.Time) string
	// DownloadURL returns a time-limited URL for a stored report
	DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	// Exists reports whether a report is present under the given key
	Exists(ctx context.Context, storageKey string) (bool, error)
	// Delete removes a stored report
	Delete(ctx context.Context, storageKey string) error
}

// ReportKey builds the storage key for a food count report. Keys are
// date-based so re-archiving the same day overwrites the previous copy.
func ReportKey(prefix string, date time.Time) string {
	key := fmt.Sprintf("food-count/%s.pdf", date.Format("2006-01-02"))
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}
