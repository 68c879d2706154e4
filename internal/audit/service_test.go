package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/catalog"
	auditRepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(auditRepo.NewRepository(db)), db
}

func TestService_RecordsCatalogMutations(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.Created(ctx, catalog.KindAuthor, "a1", "Austen, Jane")
	svc.Updated(ctx, catalog.KindAuthor, "a1", "Austen, Jane")
	svc.DeleteBlocked(ctx, catalog.KindAuthor, "a1", "Austen, Jane", 2)
	svc.Deleted(ctx, catalog.KindAuthor, "a1", "Austen, Jane")

	events, err := svc.History(ctx, catalog.KindAuthor, "a1")
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, entities.AuditEventCreate, events[0].EventType)
	assert.Equal(t, "author_create", events[0].Action)
	assert.Equal(t, "Created author: Austen, Jane", events[0].Description)

	assert.Equal(t, entities.AuditEventUpdate, events[1].EventType)

	assert.Equal(t, entities.AuditEventDeleteBlocked, events[2].EventType)
	assert.JSONEq(t, `{"dependents":2}`, events[2].Metadata)

	assert.Equal(t, entities.AuditEventDelete, events[3].EventType)
	assert.Equal(t, entities.AuditStatusSuccess, events[3].Status)
}

func TestService_LogMaintenance(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc.LogMaintenance(ctx, "audit_cleanup", "Deleted 3 audit events", nil)

		var event entities.AuditEvent
		require.NoError(t, db.Where("description = ?", "Deleted 3 audit events").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Empty(t, event.ErrorMsg)
	})

	t.Run("failure", func(t *testing.T) {
		svc.LogMaintenance(ctx, "audit_cleanup", "Cleanup failed", errors.New("disk full"))

		var event entities.AuditEvent
		require.NoError(t, db.Where("description = ?", "Cleanup failed").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Equal(t, "disk full", event.ErrorMsg)
	})
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	oldEvent := &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(oldEvent).Error)

	newEvent := &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "new",
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(newEvent).Error)

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining []entities.AuditEvent
	db.Find(&remaining)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Action)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a very long string", 10, "this is..."},
		{"", 5, ""},
		{"Война и мир", 10, "Вой..."},
		{"ab€def", 7, "ab..."},
	}

	for _, tc := range tests {
		result := truncate(tc.input, tc.maxLen)
		assert.Equal(t, tc.expected, result)
		assert.True(t, utf8.ValidString(result), "truncate(%q) split a character", tc.input)
		assert.LessOrEqual(t, len(result), tc.maxLen)
	}
}

func TestService_RecordsLongMultibyteLabel(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	title := strings.Repeat("ж", 300)
	svc.Created(ctx, catalog.KindBook, "b1", title)

	events, err := svc.History(ctx, catalog.KindBook, "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, utf8.ValidString(events[0].Description))
	assert.LessOrEqual(t, len(events[0].Description), 500)
	assert.True(t, strings.HasSuffix(events[0].Description, "..."))
}
