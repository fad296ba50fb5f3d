package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
)

type eventStore struct {
	db dbtx
}

// CreateEvent inserts one event record.
func (s *eventStore) CreateEvent(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(event.Slug) == "" {
		return fmt.Errorf("event slug is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO events (
		   id, slug, name, starts_at, ends_at, status, deleted, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		strings.TrimSpace(event.Slug),
		strings.TrimSpace(event.Name),
		toMillis(event.StartsAt),
		toMillis(event.EndsAt),
		domain.EventStatusLabel(event.Status),
		boolToInt(event.Deleted),
		toMillis(event.CreatedAt),
		toMillis(event.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "events") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

const eventColumns = `id, slug, name, starts_at, ends_at, status, deleted, created_at, updated_at`

// GetEvent returns one event by ID.
func (s *eventStore) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return domain.Event{}, fmt.Errorf("event id is required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
	return scanEvent(row.Scan)
}

// GetEventBySlug returns one event by slug.
func (s *eventStore) GetEventBySlug(ctx context.Context, slug string) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Event{}, fmt.Errorf("event slug is required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = ?`, slug)
	return scanEvent(row.Scan)
}

// UpdateEvent rewrites one event record.
func (s *eventStore) UpdateEvent(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE events
		    SET slug = ?, name = ?, starts_at = ?, ends_at = ?, status = ?, deleted = ?, updated_at = ?
		  WHERE id = ?`,
		strings.TrimSpace(event.Slug),
		strings.TrimSpace(event.Name),
		toMillis(event.StartsAt),
		toMillis(event.EndsAt),
		domain.EventStatusLabel(event.Status),
		boolToInt(event.Deleted),
		toMillis(event.UpdatedAt),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var event domain.Event
	var status string
	var deleted int
	var startsAt, endsAt, createdAt, updatedAt int64
	err := scan(
		&event.ID,
		&event.Slug,
		&event.Name,
		&startsAt,
		&endsAt,
		&status,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, storage.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	event.StartsAt = fromMillis(startsAt)
	event.EndsAt = fromMillis(endsAt)
	event.Status = domain.EventStatusFromLabel(status)
	event.Deleted = deleted != 0
	event.CreatedAt = fromMillis(createdAt)
	event.UpdatedAt = fromMillis(updatedAt)
	return event, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
