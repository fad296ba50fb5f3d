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

type roleStore struct {
	db dbtx
}

const roleColumns = `identity_id, team_id, team_lead, main_team, investment_team, role_text, tags, created_at, updated_at`

// CreateRole inserts one team membership role.
func (s *roleStore) CreateRole(ctx context.Context, role domain.TeamRole) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(role.IdentityID) == "" || strings.TrimSpace(role.TeamID) == "" {
		return fmt.Errorf("identity id and team id are required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO team_roles (`+roleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		role.IdentityID,
		role.TeamID,
		boolToInt(role.TeamLead),
		boolToInt(role.MainTeam),
		boolToInt(role.InvestmentTeam),
		role.RoleText,
		role.Tags,
		toMillis(role.CreatedAt),
		toMillis(role.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "team_roles") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// GetRole returns one membership role by (identity, team).
func (s *roleStore) GetRole(ctx context.Context, identityID, teamID string) (domain.TeamRole, error) {
	if err := ctx.Err(); err != nil {
		return domain.TeamRole{}, err
	}
	identityID = strings.TrimSpace(identityID)
	teamID = strings.TrimSpace(teamID)
	if identityID == "" || teamID == "" {
		return domain.TeamRole{}, fmt.Errorf("identity id and team id are required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+roleColumns+` FROM team_roles WHERE identity_id = ? AND team_id = ?`,
		identityID,
		teamID,
	)
	return scanRole(row.Scan)
}

// ListRolesByIdentity returns all membership roles for one identity,
// main-team memberships first.
func (s *roleStore) ListRolesByIdentity(ctx context.Context, identityID string) ([]domain.TeamRole, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, fmt.Errorf("identity id is required")
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+roleColumns+`
		   FROM team_roles
		  WHERE identity_id = ?
		  ORDER BY main_team DESC, created_at ASC`,
		identityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.TeamRole
	for rows.Next() {
		role, err := scanRole(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list roles: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// UpdateRole rewrites one membership role.
func (s *roleStore) UpdateRole(ctx context.Context, role domain.TeamRole) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(role.IdentityID) == "" || strings.TrimSpace(role.TeamID) == "" {
		return fmt.Errorf("identity id and team id are required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE team_roles
		    SET team_lead = ?, main_team = ?, investment_team = ?, role_text = ?, tags = ?, updated_at = ?
		  WHERE identity_id = ? AND team_id = ?`,
		boolToInt(role.TeamLead),
		boolToInt(role.MainTeam),
		boolToInt(role.InvestmentTeam),
		role.RoleText,
		role.Tags,
		toMillis(role.UpdatedAt),
		role.IdentityID,
		role.TeamID,
	)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteRolesByTeamAndIdentities removes membership roles for a team
// restricted to the given identity set.
func (s *roleStore) DeleteRolesByTeamAndIdentities(ctx context.Context, teamID string, identityIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("team id is required")
	}
	if len(identityIDs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(identityIDs))
	args := make([]any, 0, len(identityIDs)+1)
	args = append(args, teamID)
	for _, identityID := range identityIDs {
		placeholders = append(placeholders, "?")
		args = append(args, identityID)
	}

	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM team_roles WHERE team_id = ? AND identity_id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("delete roles: %w", err)
	}
	return nil
}

// HasTeamLead reports whether any membership carries the lead flag for a team.
func (s *roleStore) HasTeamLead(ctx context.Context, teamID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return false, fmt.Errorf("team id is required")
	}

	var found int
	row := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM team_roles WHERE team_id = ? AND team_lead = 1 LIMIT 1`,
		teamID,
	)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check team lead: %w", err)
	}
	return true, nil
}

func scanRole(scan func(dest ...any) error) (domain.TeamRole, error) {
	var role domain.TeamRole
	var teamLead, mainTeam, investmentTeam int
	var createdAt, updatedAt int64
	err := scan(
		&role.IdentityID,
		&role.TeamID,
		&teamLead,
		&mainTeam,
		&investmentTeam,
		&role.RoleText,
		&role.Tags,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TeamRole{}, storage.ErrNotFound
		}
		return domain.TeamRole{}, fmt.Errorf("get role: %w", err)
	}
	role.TeamLead = teamLead != 0
	role.MainTeam = mainTeam != 0
	role.InvestmentTeam = investmentTeam != 0
	role.CreatedAt = fromMillis(createdAt)
	role.UpdatedAt = fromMillis(updatedAt)
	return role, nil
}
