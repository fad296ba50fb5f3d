package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/venturehq/demoday/internal/platform/errors"
	"github.com/venturehq/demoday/internal/platform/id"
)

// ParticipantType describes the kind of participant in an event.
type ParticipantType int

const (
	// ParticipantTypeUnspecified represents an invalid participant type value.
	ParticipantTypeUnspecified ParticipantType = iota
	// ParticipantTypeInvestor indicates an investor participant.
	ParticipantTypeInvestor
	// ParticipantTypeFounder indicates a founding-team participant.
	ParticipantTypeFounder
)

// ParticipantStatus represents the access state of a participant.
type ParticipantStatus int

const (
	// ParticipantStatusUnspecified represents an invalid status value.
	ParticipantStatusUnspecified ParticipantStatus = iota
	// ParticipantStatusPending indicates a self-service application awaiting review.
	ParticipantStatusPending
	// ParticipantStatusInvited indicates an invite that has not been claimed.
	ParticipantStatusInvited
	// ParticipantStatusEnabled indicates full event access.
	ParticipantStatusEnabled
	// ParticipantStatusDisabled indicates access revoked by an admin.
	ParticipantStatusDisabled
)

// LeadRequestStatus represents the team-lead promotion request lifecycle.
type LeadRequestStatus int

const (
	// LeadRequestNone indicates no promotion request exists.
	LeadRequestNone LeadRequestStatus = iota
	// LeadRequestRequested indicates a pending founder request.
	LeadRequestRequested
	// LeadRequestApproved indicates an admin approved the request.
	LeadRequestApproved
	// LeadRequestRejected indicates an admin rejected the request.
	LeadRequestRejected
)

var (
	// ErrParticipantTypeInvalid indicates a missing or invalid participant type.
	ErrParticipantTypeInvalid = apperrors.New(apperrors.CodeParticipantTypeInvalid, "participant type is required")
	// ErrParticipantStatusInvalid indicates a missing or invalid participant status.
	ErrParticipantStatusInvalid = apperrors.New(apperrors.CodeParticipantStatusInvalid, "participant status is invalid")
	// ErrTeamNotAllowed indicates a team assignment on a non-founder participant.
	ErrTeamNotAllowed = apperrors.New(apperrors.CodeParticipantTeamNotAllowed, "team assignment is only valid for founders")
	// ErrLeadRequestNotFounder indicates a lead request from a non-founder.
	ErrLeadRequestNotFounder = apperrors.New(apperrors.CodeLeadRequestNotFounder, "only founders may request team lead")
	// ErrLeadRequestNoTeam indicates a lead request without a team assignment.
	ErrLeadRequestNoTeam = apperrors.New(apperrors.CodeLeadRequestNoTeam, "a team assignment is required to request team lead")
	// ErrLeadRequestAlreadyLead indicates the requester already leads the team.
	ErrLeadRequestAlreadyLead = apperrors.New(apperrors.CodeLeadRequestAlreadyLead, "participant already leads this team")
	// ErrLeadRequestPending indicates a duplicate pending lead request.
	ErrLeadRequestPending = apperrors.New(apperrors.CodeLeadRequestPending, "a team lead request is already pending")
	// ErrLeadRequestNotRequested indicates a review of a non-pending request.
	ErrLeadRequestNotRequested = apperrors.New(apperrors.CodeLeadRequestNotRequested, "no pending team lead request to review")
)

// Participant represents an identity's registration record for one event.
// TeamID is only meaningful for founders; AssignTeam enforces that.
type Participant struct {
	ID                      string
	EventID                 string
	IdentityID              string
	Type                    ParticipantType
	Status                  ParticipantStatus
	TeamID                  string
	Admin                   bool
	EarlyAccess             bool
	ConfidentialityAccepted bool
	LeadRequest             LeadRequestStatus
	StatusChangedAt         time.Time
	Deleted                 bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// CreateParticipantInput describes the metadata needed to create a participant.
type CreateParticipantInput struct {
	EventID    string
	IdentityID string
	Type       ParticipantType
	Status     ParticipantStatus
	TeamID     string
}

// CreateParticipant creates a participant record with a generated ID and timestamps.
func CreateParticipant(input CreateParticipantInput, now func() time.Time, idGenerator func() (string, error)) (Participant, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if input.Type == ParticipantTypeUnspecified {
		return Participant{}, ErrParticipantTypeInvalid
	}
	if input.Status == ParticipantStatusUnspecified {
		return Participant{}, ErrParticipantStatusInvalid
	}
	if input.TeamID != "" && input.Type != ParticipantTypeFounder {
		return Participant{}, ErrTeamNotAllowed
	}

	participantID, err := idGenerator()
	if err != nil {
		return Participant{}, fmt.Errorf("generate participant id: %w", err)
	}

	createdAt := now().UTC()
	return Participant{
		ID:              participantID,
		EventID:         strings.TrimSpace(input.EventID),
		IdentityID:      strings.TrimSpace(input.IdentityID),
		Type:            input.Type,
		Status:          input.Status,
		TeamID:          strings.TrimSpace(input.TeamID),
		LeadRequest:     LeadRequestNone,
		StatusChangedAt: createdAt,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// WithStatus returns the participant with the given status applied. The
// second return reports whether the status actually changed; the
// status-changed timestamp is only touched on a real change.
func (p Participant) WithStatus(status ParticipantStatus, now time.Time) (Participant, bool) {
	if status == ParticipantStatusUnspecified || status == p.Status {
		return p, false
	}
	p.Status = status
	p.StatusChangedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	return p, true
}

// AssignTeam sets the participant's team. Only founders carry a team.
func (p *Participant) AssignTeam(teamID string) error {
	teamID = strings.TrimSpace(teamID)
	if teamID != "" && p.Type != ParticipantTypeFounder {
		return ErrTeamNotAllowed
	}
	p.TeamID = teamID
	return nil
}

// RequestLead transitions the lead request to REQUESTED. alreadyLead reports
// whether the underlying membership already carries the lead flag.
func (p *Participant) RequestLead(alreadyLead bool) error {
	if p.Type != ParticipantTypeFounder {
		return ErrLeadRequestNotFounder
	}
	if p.TeamID == "" {
		return ErrLeadRequestNoTeam
	}
	if alreadyLead {
		return ErrLeadRequestAlreadyLead
	}
	if p.LeadRequest == LeadRequestRequested {
		return ErrLeadRequestPending
	}
	p.LeadRequest = LeadRequestRequested
	return nil
}

// ResolveLeadRequest transitions a REQUESTED lead request to APPROVED or
// REJECTED. Requests in any other state cannot be reviewed.
func (p *Participant) ResolveLeadRequest(approve bool) error {
	if p.LeadRequest != LeadRequestRequested {
		return ErrLeadRequestNotRequested
	}
	if approve {
		p.LeadRequest = LeadRequestApproved
	} else {
		p.LeadRequest = LeadRequestRejected
	}
	return nil
}

// ParticipantTypeLabel returns the string label for a participant type.
func ParticipantTypeLabel(t ParticipantType) string {
	switch t {
	case ParticipantTypeInvestor:
		return "INVESTOR"
	case ParticipantTypeFounder:
		return "FOUNDER"
	default:
		return "UNSPECIFIED"
	}
}

// ParticipantTypeFromLabel converts a type label to a ParticipantType value.
func ParticipantTypeFromLabel(label string) ParticipantType {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "INVESTOR":
		return ParticipantTypeInvestor
	case "FOUNDER":
		return ParticipantTypeFounder
	default:
		return ParticipantTypeUnspecified
	}
}

// ParticipantStatusLabel returns the string label for a participant status.
func ParticipantStatusLabel(status ParticipantStatus) string {
	switch status {
	case ParticipantStatusPending:
		return "PENDING"
	case ParticipantStatusInvited:
		return "INVITED"
	case ParticipantStatusEnabled:
		return "ENABLED"
	case ParticipantStatusDisabled:
		return "DISABLED"
	default:
		return "UNSPECIFIED"
	}
}

// ParticipantStatusFromLabel converts a status label to a ParticipantStatus value.
func ParticipantStatusFromLabel(label string) ParticipantStatus {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PENDING":
		return ParticipantStatusPending
	case "INVITED":
		return ParticipantStatusInvited
	case "ENABLED":
		return ParticipantStatusEnabled
	case "DISABLED":
		return ParticipantStatusDisabled
	default:
		return ParticipantStatusUnspecified
	}
}

// LeadRequestStatusLabel returns the string label for a lead request status.
func LeadRequestStatusLabel(status LeadRequestStatus) string {
	switch status {
	case LeadRequestRequested:
		return "REQUESTED"
	case LeadRequestApproved:
		return "APPROVED"
	case LeadRequestRejected:
		return "REJECTED"
	default:
		return "NONE"
	}
}

// LeadRequestStatusFromLabel converts a label to a LeadRequestStatus value.
func LeadRequestStatusFromLabel(label string) LeadRequestStatus {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "REQUESTED":
		return LeadRequestRequested
	case "APPROVED":
		return LeadRequestApproved
	case "REJECTED":
		return LeadRequestRejected
	default:
		return LeadRequestNone
	}
}
