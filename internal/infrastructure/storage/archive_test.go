package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/messhall/backend/internal/infrastructure/config"
)

func TestReportKey(t *testing.T) {
	date := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "no prefix", prefix: "", want: "food-count/2026-08-31.pdf"},
		{name: "plain prefix", prefix: "messhall", want: "messhall/food-count/2026-08-31.pdf"},
		{name: "prefix with trailing slash", prefix: "messhall/", want: "messhall/food-count/2026-08-31.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReportKey(tt.prefix, date))
		})
	}
}

func TestNewS3ReportArchive_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     infraconfig.StorageConfig
		wantErr string
	}{
		{
			name:    "missing bucket",
			cfg:     infraconfig.StorageConfig{AccessKeyID: "key", SecretAccessKey: "secret"},
			wantErr: "bucket is required",
		},
		{
			name:    "missing access key",
			cfg:     infraconfig.StorageConfig{Bucket: "reports", SecretAccessKey: "secret"},
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key",
			cfg:     infraconfig.StorageConfig{Bucket: "reports", AccessKeyID: "key"},
			wantErr: "secret key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ReportArchive(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewS3ReportArchive_Defaults(t *testing.T) {
	archive, err := NewS3ReportArchive(infraconfig.StorageConfig{
		Bucket:          "reports",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        "minio.local:9000",
		UsePathStyle:    true,
		KeyPrefix:       "messhall",
	})
	require.NoError(t, err)

	assert.Equal(t, "reports", archive.GetBucket())
	assert.Equal(t, defaultPresignExpiration, archive.presignExpiration)
	assert.Equal(t, "messhall", archive.keyPrefix)
}

func TestNoopReportArchive(t *testing.T) {
	ctx := context.Background()
	archive := NewNoopReportArchive(nil)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("store and exists", func(t *testing.T) {
		key, err := archive.Store(ctx, date, []byte("%PDF-1.4"))
		require.NoError(t, err)
		assert.Equal(t, "food-count/2026-08-31.pdf", key)

		exists, err := archive.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("empty data rejected", func(t *testing.T) {
		_, err := archive.Store(ctx, date, nil)
		assert.Error(t, err)
	})

	t.Run("download URL unavailable", func(t *testing.T) {
		_, _, err := archive.DownloadURL(ctx, "food-count/2026-08-31.pdf", time.Minute)
		assert.Error(t, err)
	})

	t.Run("delete removes key", func(t *testing.T) {
		require.NoError(t, archive.Delete(ctx, "food-count/2026-08-31.pdf"))

		exists, err := archive.Exists(ctx, "food-count/2026-08-31.pdf")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
