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

type investorProfileStore struct {
	db dbtx
}

const investorProfileColumns = `id, team_id, identity_id, investment_type, focus, check_range, created_at, updated_at`

// GetInvestorProfileByTeam returns the investor profile attached to a team.
func (s *investorProfileStore) GetInvestorProfileByTeam(ctx context.Context, teamID string) (domain.InvestorProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.InvestorProfile{}, err
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return domain.InvestorProfile{}, fmt.Errorf("team id is required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+investorProfileColumns+` FROM investor_profiles WHERE team_id = ?`,
		teamID,
	)
	return scanInvestorProfile(row.Scan)
}

// PutInvestorProfile inserts or refreshes an investor profile by ID.
func (s *investorProfileStore) PutInvestorProfile(ctx context.Context, profile domain.InvestorProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(profile.ID) == "" {
		return fmt.Errorf("investor profile id is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO investor_profiles (`+investorProfileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   investment_type = excluded.investment_type,
		   focus = excluded.focus,
		   check_range = excluded.check_range,
		   updated_at = excluded.updated_at`,
		profile.ID,
		profile.TeamID,
		profile.IdentityID,
		profile.InvestmentType,
		profile.Focus,
		profile.CheckRange,
		toMillis(profile.CreatedAt),
		toMillis(profile.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "investor_profiles") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put investor profile: %w", err)
	}
	return nil
}

func scanInvestorProfile(scan func(dest ...any) error) (domain.InvestorProfile, error) {
	var profile domain.InvestorProfile
	var createdAt, updatedAt int64
	err := scan(
		&profile.ID,
		&profile.TeamID,
		&profile.IdentityID,
		&profile.InvestmentType,
		&profile.Focus,
		&profile.CheckRange,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InvestorProfile{}, storage.ErrNotFound
		}
		return domain.InvestorProfile{}, fmt.Errorf("get investor profile: %w", err)
	}
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}
