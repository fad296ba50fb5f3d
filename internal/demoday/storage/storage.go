// Package storage defines persistence contracts for demo-day state.
package storage

import (
	"context"
	"errors"

	"github.com/venturehq/demoday/internal/demoday/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ParticipantQuery configures participant listing.
type ParticipantQuery struct {
	EventID        string
	WhereClause    string // SQL fragment produced by the filter translator
	WhereParams    []any
	OrderBy        string // validated "col dir, col dir" fragment
	PageSize       int
	Offset         int
	IncludeDeleted bool
}

// ParticipantPage is one page of participant records.
type ParticipantPage struct {
	Participants  []domain.Participant
	NextPageToken string
}

// EventStore persists demo-day event records.
type EventStore interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
}

// IdentityStore persists person records independent of any event.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, identity domain.Identity) error
	GetIdentity(ctx context.Context, identityID string) (domain.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)
	GetIdentityByTelegramHandle(ctx context.Context, handle string) (domain.Identity, error)
	UpdateIdentity(ctx context.Context, identity domain.Identity) error
}

// TeamStore persists organization records.
type TeamStore interface {
	CreateTeam(ctx context.Context, team domain.Team) error
	GetTeam(ctx context.Context, teamID string) (domain.Team, error)
	// GetTeamByFoldedName matches case-insensitively on the folded name.
	GetTeamByFoldedName(ctx context.Context, foldedName string) (domain.Team, error)
	UpdateTeam(ctx context.Context, team domain.Team) error
}

// RoleStore persists team membership roles.
type RoleStore interface {
	CreateRole(ctx context.Context, role domain.TeamRole) error
	GetRole(ctx context.Context, identityID, teamID string) (domain.TeamRole, error)
	ListRolesByIdentity(ctx context.Context, identityID string) ([]domain.TeamRole, error)
	UpdateRole(ctx context.Context, role domain.TeamRole) error
	DeleteRolesByTeamAndIdentities(ctx context.Context, teamID string, identityIDs []string) error
	// HasTeamLead reports whether any membership carries the lead flag for a team.
	HasTeamLead(ctx context.Context, teamID string) (bool, error)
}

// ParticipantStore persists per-(event, identity) registration records.
type ParticipantStore interface {
	CreateParticipant(ctx context.Context, participant domain.Participant) error
	GetParticipant(ctx context.Context, eventID, participantID string) (domain.Participant, error)
	GetParticipantByEventAndIdentity(ctx context.Context, eventID, identityID string) (domain.Participant, error)
	UpdateParticipant(ctx context.Context, participant domain.Participant) error
	ListParticipants(ctx context.Context, query ParticipantQuery) (ParticipantPage, error)
	// CountEnabledFounders counts enabled, non-deleted founders for (event, team).
	CountEnabledFounders(ctx context.Context, eventID, teamID string) (int, error)
}

// ProfileStore persists fundraising profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile domain.FundraisingProfile) error
	GetProfileByTeamAndEvent(ctx context.Context, teamID, eventID string) (domain.FundraisingProfile, error)
	UpdateProfile(ctx context.Context, profile domain.FundraisingProfile) error
	// ListEligibleProfiles returns published profiles for the event that have
	// at least one enabled, non-deleted founder participant.
	ListEligibleProfiles(ctx context.Context, eventID string) ([]domain.FundraisingProfile, error)
}

// InvestorProfileStore persists investment-preference records.
type InvestorProfileStore interface {
	GetInvestorProfileByTeam(ctx context.Context, teamID string) (domain.InvestorProfile, error)
	PutInvestorProfile(ctx context.Context, profile domain.InvestorProfile) error
}

// Stores bundles the entity store contracts, optionally bound to one
// transaction.
type Stores struct {
	Events           EventStore
	Identities       IdentityStore
	Teams            TeamStore
	Roles            RoleStore
	Participants     ParticipantStore
	Profiles         ProfileStore
	InvestorProfiles InvestorProfileStore
}

// TxRunner executes a function with all stores bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(Stores) error) error
}
