package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/venturehq/demoday/internal/platform/errors"
	"github.com/venturehq/demoday/internal/platform/id"
)

// AccessTier orders platform-wide access levels for an identity.
type AccessTier int

const (
	// TierUnspecified represents an invalid access tier value.
	TierUnspecified AccessTier = iota
	// TierGuest is the lowest tier, granted to identities created implicitly.
	TierGuest
	// TierMember is granted to identities merged through an import.
	TierMember
	// TierInvestor is required to add an identity to an event by reference.
	TierInvestor
	// TierPartner is the highest tier.
	TierPartner
)

var (
	// ErrIdentityEmailRequired indicates a missing identity email.
	ErrIdentityEmailRequired = apperrors.New(apperrors.CodeIdentityEmailRequired, "identity email is required")
	// ErrIdentityNameRequired indicates a missing identity name.
	ErrIdentityNameRequired = apperrors.New(apperrors.CodeIdentityNameRequired, "identity name is required")
)

// Identity represents a person independent of any event.
type Identity struct {
	ID             string
	Email          string
	Name           string
	Tier           AccessTier
	LinkedInHandle string
	TwitterHandle  string
	TelegramHandle string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AtLeast reports whether the tier is at or above the given tier.
func (t AccessTier) AtLeast(other AccessTier) bool {
	return t >= other
}

// RaisedForImport returns the tier an existing identity holds after an
// import merge. Guests become members; higher tiers are never lowered.
func (t AccessTier) RaisedForImport() AccessTier {
	if t <= TierGuest {
		return TierMember
	}
	return t
}

// CreateIdentityInput describes the metadata needed to create an identity.
type CreateIdentityInput struct {
	Email          string
	Name           string
	Tier           AccessTier
	LinkedInHandle string
	TwitterHandle  string
	TelegramHandle string
}

// CreateIdentity creates a new identity with a generated ID and timestamps.
func CreateIdentity(input CreateIdentityInput, now func() time.Time, idGenerator func() (string, error)) (Identity, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Email = NormalizeEmail(input.Email)
	if input.Email == "" {
		return Identity{}, ErrIdentityEmailRequired
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Identity{}, ErrIdentityNameRequired
	}
	if input.Tier == TierUnspecified {
		input.Tier = TierGuest
	}

	identityID, err := idGenerator()
	if err != nil {
		return Identity{}, fmt.Errorf("generate identity id: %w", err)
	}

	createdAt := now().UTC()
	return Identity{
		ID:             identityID,
		Email:          input.Email,
		Name:           input.Name,
		Tier:           input.Tier,
		LinkedInHandle: input.LinkedInHandle,
		TwitterHandle:  input.TwitterHandle,
		TelegramHandle: input.TelegramHandle,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// NormalizeEmail lowercases and trims an email address for lookup keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TierLabel returns the string label for an access tier.
func TierLabel(tier AccessTier) string {
	switch tier {
	case TierGuest:
		return "GUEST"
	case TierMember:
		return "MEMBER"
	case TierInvestor:
		return "INVESTOR"
	case TierPartner:
		return "PARTNER"
	default:
		return "UNSPECIFIED"
	}
}

// TierFromLabel converts a tier label to an AccessTier value.
func TierFromLabel(label string) AccessTier {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "GUEST":
		return TierGuest
	case "MEMBER":
		return TierMember
	case "INVESTOR":
		return TierInvestor
	case "PARTNER":
		return TierPartner
	default:
		return TierUnspecified
	}
}
