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

type identityStore struct {
	db dbtx
}

const identityColumns = `id, email, name, access_tier, linkedin_handle, twitter_handle, telegram_handle, created_at, updated_at`

// CreateIdentity inserts one identity record.
func (s *identityStore) CreateIdentity(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(identity.ID) == "" {
		return fmt.Errorf("identity id is required")
	}
	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return fmt.Errorf("identity email is required")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO identities (
		   id, email, name, access_tier, linkedin_handle, twitter_handle, telegram_handle, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		identity.ID,
		email,
		strings.TrimSpace(identity.Name),
		domain.TierLabel(identity.Tier),
		identity.LinkedInHandle,
		identity.TwitterHandle,
		identity.TelegramHandle,
		toMillis(identity.CreatedAt),
		toMillis(identity.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "identities") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

// GetIdentity returns one identity by ID.
func (s *identityStore) GetIdentity(ctx context.Context, identityID string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return domain.Identity{}, fmt.Errorf("identity id is required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE id = ?`, identityID)
	return scanIdentity(row.Scan)
}

// GetIdentityByEmail returns one identity by normalized email.
func (s *identityStore) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Identity{}, fmt.Errorf("identity email is required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE email = ?`, email)
	return scanIdentity(row.Scan)
}

// GetIdentityByTelegramHandle returns the identity owning a telegram handle.
func (s *identityStore) GetIdentityByTelegramHandle(ctx context.Context, handle string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Identity{}, fmt.Errorf("telegram handle is required")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+identityColumns+` FROM identities WHERE telegram_handle = ?`, handle)
	return scanIdentity(row.Scan)
}

// UpdateIdentity rewrites one identity record.
func (s *identityStore) UpdateIdentity(ctx context.Context, identity domain.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(identity.ID) == "" {
		return fmt.Errorf("identity id is required")
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE identities
		    SET email = ?, name = ?, access_tier = ?, linkedin_handle = ?, twitter_handle = ?, telegram_handle = ?, updated_at = ?
		  WHERE id = ?`,
		domain.NormalizeEmail(identity.Email),
		strings.TrimSpace(identity.Name),
		domain.TierLabel(identity.Tier),
		identity.LinkedInHandle,
		identity.TwitterHandle,
		identity.TelegramHandle,
		toMillis(identity.UpdatedAt),
		identity.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "identities") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("update identity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanIdentity(scan func(dest ...any) error) (domain.Identity, error) {
	var identity domain.Identity
	var tier string
	var createdAt, updatedAt int64
	err := scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&tier,
		&identity.LinkedInHandle,
		&identity.TwitterHandle,
		&identity.TelegramHandle,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Identity{}, storage.ErrNotFound
		}
		return domain.Identity{}, fmt.Errorf("get identity: %w", err)
	}
	identity.Tier = domain.TierFromLabel(tier)
	identity.CreatedAt = fromMillis(createdAt)
	identity.UpdatedAt = fromMillis(updatedAt)
	return identity, nil
}
