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

type teamStore struct {
	db dbtx
}

// CreateTeam inserts one team record with its folded lookup name.
func (s *teamStore) CreateTeam(ctx context.Context, team domain.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(team.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	name := strings.TrimSpace(team.Name)
	if name == "" {
		return fmt.Errorf("team name is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO teams (id, name, name_folded, is_fund, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		team.ID,
		name,
		domain.FoldTeamName(name),
		boolToInt(team.IsFund),
		toMillis(team.CreatedAt),
		toMillis(team.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "teams") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// GetTeam returns one team by ID.
func (s *teamStore) GetTeam(ctx context.Context, teamID string) (domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return domain.Team{}, err
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return domain.Team{}, fmt.Errorf("team id is required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, is_fund, created_at, updated_at FROM teams WHERE id = ?`,
		teamID,
	)
	return scanTeam(row.Scan)
}

// GetTeamByFoldedName returns one team by its case-folded name.
func (s *teamStore) GetTeamByFoldedName(ctx context.Context, foldedName string) (domain.Team, error) {
	if err := ctx.Err(); err != nil {
		return domain.Team{}, err
	}
	foldedName = strings.TrimSpace(foldedName)
	if foldedName == "" {
		return domain.Team{}, fmt.Errorf("folded team name is required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, is_fund, created_at, updated_at
		   FROM teams
		  WHERE name_folded = ?
		  ORDER BY created_at ASC
		  LIMIT 1`,
		foldedName,
	)
	return scanTeam(row.Scan)
}

// UpdateTeam rewrites one team record.
func (s *teamStore) UpdateTeam(ctx context.Context, team domain.Team) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(team.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	name := strings.TrimSpace(team.Name)
	if name == "" {
		return fmt.Errorf("team name is required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE teams SET name = ?, name_folded = ?, is_fund = ?, updated_at = ? WHERE id = ?`,
		name,
		domain.FoldTeamName(name),
		boolToInt(team.IsFund),
		toMillis(team.UpdatedAt),
		team.ID,
	)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTeam(scan func(dest ...any) error) (domain.Team, error) {
	var team domain.Team
	var isFund int
	var createdAt, updatedAt int64
	err := scan(&team.ID, &team.Name, &isFund, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Team{}, storage.ErrNotFound
		}
		return domain.Team{}, fmt.Errorf("get team: %w", err)
	}
	team.IsFund = isFund != 0
	team.CreatedAt = fromMillis(createdAt)
	team.UpdatedAt = fromMillis(updatedAt)
	return team, nil
}
