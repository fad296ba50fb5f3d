package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
)

type participantStore struct {
	db dbtx
}

const participantColumns = `id, event_id, identity_id, type, status, team_id, admin, early_access,
	confidentiality_accepted, lead_request_status, status_changed_at, deleted, created_at, updated_at`

// CreateParticipant inserts one participant record. The (event, identity)
// uniqueness constraint surfaces as ErrAlreadyExists.
func (s *participantStore) CreateParticipant(ctx context.Context, participant domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(participant.ID) == "" {
		return fmt.Errorf("participant id is required")
	}
	if strings.TrimSpace(participant.EventID) == "" || strings.TrimSpace(participant.IdentityID) == "" {
		return fmt.Errorf("event id and identity id are required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO participants (`+participantColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		participant.ID,
		participant.EventID,
		participant.IdentityID,
		domain.ParticipantTypeLabel(participant.Type),
		domain.ParticipantStatusLabel(participant.Status),
		participant.TeamID,
		boolToInt(participant.Admin),
		boolToInt(participant.EarlyAccess),
		boolToInt(participant.ConfidentialityAccepted),
		domain.LeadRequestStatusLabel(participant.LeadRequest),
		toMillis(participant.StatusChangedAt),
		boolToInt(participant.Deleted),
		toMillis(participant.CreatedAt),
		toMillis(participant.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "participants") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

// GetParticipant returns one participant scoped to an event.
func (s *participantStore) GetParticipant(ctx context.Context, eventID, participantID string) (domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Participant{}, err
	}
	eventID = strings.TrimSpace(eventID)
	participantID = strings.TrimSpace(participantID)
	if eventID == "" || participantID == "" {
		return domain.Participant{}, fmt.Errorf("event id and participant id are required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = ? AND id = ?`,
		eventID,
		participantID,
	)
	return scanParticipant(row.Scan)
}

// GetParticipantByEventAndIdentity returns one participant by its natural key.
func (s *participantStore) GetParticipantByEventAndIdentity(ctx context.Context, eventID, identityID string) (domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Participant{}, err
	}
	eventID = strings.TrimSpace(eventID)
	identityID = strings.TrimSpace(identityID)
	if eventID == "" || identityID == "" {
		return domain.Participant{}, fmt.Errorf("event id and identity id are required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+participantColumns+` FROM participants WHERE event_id = ? AND identity_id = ?`,
		eventID,
		identityID,
	)
	return scanParticipant(row.Scan)
}

// UpdateParticipant rewrites one participant record.
func (s *participantStore) UpdateParticipant(ctx context.Context, participant domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(participant.ID) == "" {
		return fmt.Errorf("participant id is required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE participants
		    SET type = ?, status = ?, team_id = ?, admin = ?, early_access = ?,
		        confidentiality_accepted = ?, lead_request_status = ?, status_changed_at = ?,
		        deleted = ?, updated_at = ?
		  WHERE id = ?`,
		domain.ParticipantTypeLabel(participant.Type),
		domain.ParticipantStatusLabel(participant.Status),
		participant.TeamID,
		boolToInt(participant.Admin),
		boolToInt(participant.EarlyAccess),
		boolToInt(participant.ConfidentialityAccepted),
		domain.LeadRequestStatusLabel(participant.LeadRequest),
		toMillis(participant.StatusChangedAt),
		boolToInt(participant.Deleted),
		toMillis(participant.UpdatedAt),
		participant.ID,
	)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListParticipants returns one page of participant records for an event,
// applying an optional translated filter clause and order-by fragment.
// The page token is a decimal row offset.
func (s *participantStore) ListParticipants(ctx context.Context, query storage.ParticipantQuery) (storage.ParticipantPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ParticipantPage{}, err
	}
	eventID := strings.TrimSpace(query.EventID)
	if eventID == "" {
		return storage.ParticipantPage{}, fmt.Errorf("event id is required")
	}
	if query.PageSize <= 0 {
		return storage.ParticipantPage{}, fmt.Errorf("page size must be greater than zero")
	}
	if query.Offset < 0 {
		return storage.ParticipantPage{}, fmt.Errorf("offset must not be negative")
	}

	where := `event_id = ?`
	args := []any{eventID}
	if !query.IncludeDeleted {
		where += ` AND deleted = 0`
	}
	if strings.TrimSpace(query.WhereClause) != "" {
		where += ` AND ` + query.WhereClause
		args = append(args, query.WhereParams...)
	}

	orderBy := strings.TrimSpace(query.OrderBy)
	if orderBy == "" {
		orderBy = `created_at ASC, id ASC`
	} else {
		orderBy += `, id ASC`
	}

	args = append(args, query.PageSize+1, query.Offset)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+participantColumns+`
		   FROM participants
		  WHERE `+where+`
		  ORDER BY `+orderBy+`
		  LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return storage.ParticipantPage{}, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	page := storage.ParticipantPage{
		Participants: make([]domain.Participant, 0, query.PageSize),
	}
	for rows.Next() {
		participant, err := scanParticipant(rows.Scan)
		if err != nil {
			return storage.ParticipantPage{}, fmt.Errorf("list participants: %w", err)
		}
		page.Participants = append(page.Participants, participant)
	}
	if err := rows.Err(); err != nil {
		return storage.ParticipantPage{}, fmt.Errorf("list participants: %w", err)
	}
	if len(page.Participants) > query.PageSize {
		page.Participants = page.Participants[:query.PageSize]
		page.NextPageToken = strconv.Itoa(query.Offset + query.PageSize)
	}
	return page, nil
}

// CountEnabledFounders counts enabled, non-deleted founders for (event, team).
func (s *participantStore) CountEnabledFounders(ctx context.Context, eventID, teamID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	eventID = strings.TrimSpace(eventID)
	teamID = strings.TrimSpace(teamID)
	if eventID == "" || teamID == "" {
		return 0, fmt.Errorf("event id and team id are required")
	}

	var count int
	row := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*)
		   FROM participants
		  WHERE event_id = ? AND team_id = ? AND type = 'FOUNDER' AND status = 'ENABLED' AND deleted = 0`,
		eventID,
		teamID,
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count enabled founders: %w", err)
	}
	return count, nil
}

func scanParticipant(scan func(dest ...any) error) (domain.Participant, error) {
	var participant domain.Participant
	var participantType, status, leadRequest string
	var admin, earlyAccess, confidentiality, deleted int
	var statusChangedAt, createdAt, updatedAt int64
	err := scan(
		&participant.ID,
		&participant.EventID,
		&participant.IdentityID,
		&participantType,
		&status,
		&participant.TeamID,
		&admin,
		&earlyAccess,
		&confidentiality,
		&leadRequest,
		&statusChangedAt,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Participant{}, storage.ErrNotFound
		}
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	participant.Type = domain.ParticipantTypeFromLabel(participantType)
	participant.Status = domain.ParticipantStatusFromLabel(status)
	participant.Admin = admin != 0
	participant.EarlyAccess = earlyAccess != 0
	participant.ConfidentialityAccepted = confidentiality != 0
	participant.LeadRequest = domain.LeadRequestStatusFromLabel(leadRequest)
	participant.StatusChangedAt = fromMillis(statusChangedAt)
	participant.Deleted = deleted != 0
	participant.CreatedAt = fromMillis(createdAt)
	participant.UpdatedAt = fromMillis(updatedAt)
	return participant, nil
}
