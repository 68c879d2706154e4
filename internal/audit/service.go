package audit

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

// Service provides high-level audit logging functionality. It implements
// catalog.Recorder; a failure to record is logged and never reaches the
// caller.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Created(ctx context.Context, kind catalog.Kind, id, label string) {
	s.record(ctx, entities.AuditEventCreate, kind, id, "Created "+string(kind)+": "+label, nil)
}

func (s *Service) Updated(ctx context.Context, kind catalog.Kind, id, label string) {
	s.record(ctx, entities.AuditEventUpdate, kind, id, "Updated "+string(kind)+": "+label, nil)
}

func (s *Service) Deleted(ctx context.Context, kind catalog.Kind, id, label string) {
	s.record(ctx, entities.AuditEventDelete, kind, id, "Deleted "+string(kind)+": "+label, nil)
}

// DeleteBlocked records a delete refused because other records still
// reference the target.
func (s *Service) DeleteBlocked(ctx context.Context, kind catalog.Kind, id, label string, dependents int) {
	s.record(ctx, entities.AuditEventDeleteBlocked, kind, id,
		"Refused to delete "+string(kind)+": "+label,
		map[string]any{"dependents": dependents})
}

// LogMaintenance records a housekeeping run such as retention cleanup.
func (s *Service) LogMaintenance(ctx context.Context, action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventMaintenance,
		Action:      action,
		Description: truncate(description, 500),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.save(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// History returns the recorded events of one catalog record.
func (s *Service) History(ctx context.Context, kind catalog.Kind, id string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(ctx, string(kind), id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func (s *Service) record(ctx context.Context, eventType entities.AuditEventType, kind catalog.Kind, id, description string, metadata map[string]any) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      string(kind) + "_" + string(eventType),
		Description: truncate(description, 500),
		EntityType:  string(kind),
		EntityID:    id,
		Status:      entities.AuditStatusSuccess,
	}
	if metadata != nil {
		if md, err := json.Marshal(metadata); err == nil {
			event.Metadata = string(md)
		}
	}
	s.save(ctx, event)
}

func (s *Service) save(ctx context.Context, event *entities.AuditEvent) {
	if err := s.repo.LogEvent(ctx, event); err != nil {
		log.Error().Err(err).
			Str("action", event.Action).
			Str("entity_id", event.EntityID).
			Msg("Failed to log audit event")
	}
}

// truncate shortens a string to at most maxLen bytes without splitting a
// multibyte character.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
