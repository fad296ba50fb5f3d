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

type profileStore struct {
	db dbtx
}

const profileColumns = `id, team_id, event_id, one_pager_upload_id, video_upload_id, description, status, created_at, updated_at`

// CreateProfile inserts one fundraising profile. The (team, event)
// uniqueness constraint surfaces as ErrAlreadyExists.
func (s *profileStore) CreateProfile(ctx context.Context, profile domain.FundraisingProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if strings.TrimSpace(profile.TeamID) == "" || strings.TrimSpace(profile.EventID) == "" {
		return fmt.Errorf("team id and event id are required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO fundraising_profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.TeamID,
		profile.EventID,
		profile.OnePagerUploadID,
		profile.VideoUploadID,
		profile.Description,
		domain.PublicationStatusLabel(profile.Status),
		toMillis(profile.CreatedAt),
		toMillis(profile.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "fundraising_profiles") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetProfileByTeamAndEvent returns one profile by its natural key.
func (s *profileStore) GetProfileByTeamAndEvent(ctx context.Context, teamID, eventID string) (domain.FundraisingProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.FundraisingProfile{}, err
	}
	teamID = strings.TrimSpace(teamID)
	eventID = strings.TrimSpace(eventID)
	if teamID == "" || eventID == "" {
		return domain.FundraisingProfile{}, fmt.Errorf("team id and event id are required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM fundraising_profiles WHERE team_id = ? AND event_id = ?`,
		teamID,
		eventID,
	)
	return scanProfile(row.Scan)
}

// UpdateProfile rewrites one fundraising profile.
func (s *profileStore) UpdateProfile(ctx context.Context, profile domain.FundraisingProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("profile id is required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE fundraising_profiles
		    SET one_pager_upload_id = ?, video_upload_id = ?, description = ?, status = ?, updated_at = ?
		  WHERE id = ?`,
		profile.OnePagerUploadID,
		profile.VideoUploadID,
		profile.Description,
		domain.PublicationStatusLabel(profile.Status),
		toMillis(profile.UpdatedAt),
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListEligibleProfiles returns published profiles for an event backed by at
// least one enabled, non-deleted founder participant.
func (s *profileStore) ListEligibleProfiles(ctx context.Context, eventID string) ([]domain.FundraisingProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+profileColumns+`
		   FROM fundraising_profiles fp
		  WHERE fp.event_id = ?
		    AND fp.status = 'PUBLISHED'
		    AND EXISTS (
		        SELECT 1 FROM participants p
		         WHERE p.event_id = fp.event_id
		           AND p.team_id = fp.team_id
		           AND p.type = 'FOUNDER'
		           AND p.status = 'ENABLED'
		           AND p.deleted = 0
		    )
		  ORDER BY fp.team_id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list eligible profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.FundraisingProfile
	for rows.Next() {
		profile, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list eligible profiles: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list eligible profiles: %w", err)
	}
	return profiles, nil
}

func scanProfile(scan func(dest ...any) error) (domain.FundraisingProfile, error) {
	var profile domain.FundraisingProfile
	var status string
	var createdAt, updatedAt int64
	err := scan(
		&profile.ID,
		&profile.TeamID,
		&profile.EventID,
		&profile.OnePagerUploadID,
		&profile.VideoUploadID,
		&profile.Description,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FundraisingProfile{}, storage.ErrNotFound
		}
		return domain.FundraisingProfile{}, fmt.Errorf("get profile: %w", err)
	}
	profile.Status = domain.PublicationStatusFromLabel(status)
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}
