package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error

	descriptions []string
	failures     []error
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func (f *fakeCleaner) LogMaintenance(_ context.Context, _, description string, err error) {
	f.descriptions = append(f.descriptions, description)
	f.failures = append(f.failures, err)
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{RetentionDays: 7}.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 4}
		deleted, err := CleanupAuditEvents(ctx, cleaner, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(4), deleted)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
		assert.Equal(t, []string{"Deleted 4 audit events older than 7 days"}, cleaner.descriptions)
	})

	t.Run("defaults retention", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		_, err := CleanupAuditEvents(ctx, cleaner, 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, cleaner.retention)
	})

	t.Run("records failures", func(t *testing.T) {
		cleaner := &fakeCleaner{err: errors.New("locked")}
		_, err := CleanupAuditEvents(ctx, cleaner, 1)
		assert.Error(t, err)
		require.Len(t, cleaner.failures, 1)
		assert.EqualError(t, cleaner.failures[0], "locked")
	})

	t.Run("requires a cleaner", func(t *testing.T) {
		_, err := CleanupAuditEvents(ctx, nil, 1)
		assert.Error(t, err)
	})

	t.Run("processor runs a pass", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 1}
		err := CleanupAuditEventsProcessor(cleaner)(ctx, CleanupAuditEventsTask{RetentionDays: 2})
		require.NoError(t, err)
		assert.Equal(t, 2*24*time.Hour, cleaner.retention)
	})
}
