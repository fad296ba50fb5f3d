package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/venturehq/demoday/internal/platform/errors"
	"github.com/venturehq/demoday/internal/platform/id"
	"golang.org/x/text/cases"
)

// ErrTeamNameRequired indicates a missing team name.
var ErrTeamNameRequired = apperrors.New(apperrors.CodeTeamNameRequired, "team name is required")

// Team represents an organization participating in or investing through events.
type Team struct {
	ID        string
	Name      string
	IsFund    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamRole is the join record granting an identity standing within a team.
type TeamRole struct {
	IdentityID     string
	TeamID         string
	TeamLead       bool
	MainTeam       bool
	InvestmentTeam bool
	RoleText       string
	Tags           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InvestorProfile holds investment preferences for a team or an identity.
type InvestorProfile struct {
	ID             string
	TeamID         string
	IdentityID     string
	InvestmentType string
	Focus          string
	CheckRange     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateTeamInput describes the metadata needed to create a team.
type CreateTeamInput struct {
	Name   string
	IsFund bool
}

// CreateTeam creates a team with a generated ID and timestamps.
func CreateTeam(input CreateTeamInput, now func() time.Time, idGenerator func() (string, error)) (Team, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Team{}, ErrTeamNameRequired
	}

	teamID, err := idGenerator()
	if err != nil {
		return Team{}, fmt.Errorf("generate team id: %w", err)
	}

	createdAt := now().UTC()
	return Team{
		ID:        teamID,
		Name:      input.Name,
		IsFund:    input.IsFund,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

var nameFolder = cases.Fold()

// FoldTeamName returns the case-folded form of a team name used for
// case-insensitive matching.
func FoldTeamName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}
