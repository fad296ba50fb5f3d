package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/venturehq/demoday/internal/analytics"
	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/filter"
	"github.com/venturehq/demoday/internal/demoday/storage"
	apperrors "github.com/venturehq/demoday/internal/platform/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AddParticipantInput describes an admin add-participant request. Exactly
// one of IdentityID (add by reference) or Email+Name (add by email) should
// be set; IdentityID wins when both are present.
type AddParticipantInput struct {
	EventID    string
	IdentityID string
	Email      string
	Name       string
	Type       domain.ParticipantType
}

// AddParticipant registers an identity for an event. Adding by reference
// requires the identity to already hold investor tier or above; adding by
// email resolves or creates the identity at guest tier. Founders resolved
// by reference inherit their primary team and are promoted to lead on it.
func (s *Service) AddParticipant(ctx context.Context, input AddParticipantInput) (domain.Participant, error) {
	var participant domain.Participant
	var pending []analytics.Event

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		event, err := s.getEvent(ctx, st, input.EventID)
		if err != nil {
			return err
		}

		identity, created, err := s.resolveIdentity(ctx, st, input)
		if err != nil {
			return err
		}

		_, err = st.Participants.GetParticipantByEventAndIdentity(ctx, event.ID, identity.ID)
		if err == nil {
			return ErrParticipantExists
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("look up participant: %w", err)
		}

		status := domain.ParticipantStatusEnabled
		if created {
			status = domain.ParticipantStatusInvited
		}

		teamID := ""
		if input.Type == domain.ParticipantTypeFounder && !created {
			teamID, err = s.claimFounderTeam(ctx, st, identity.ID)
			if err != nil {
				return err
			}
		}

		participant, err = domain.CreateParticipant(domain.CreateParticipantInput{
			EventID:    event.ID,
			IdentityID: identity.ID,
			Type:       input.Type,
			Status:     status,
			TeamID:     teamID,
		}, s.clock, s.newID)
		if err != nil {
			return err
		}

		if err := st.Participants.CreateParticipant(ctx, participant); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrParticipantExists
			}
			return fmt.Errorf("create participant: %w", err)
		}

		pending = append(pending, participantAddedEvent(participant))
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	s.emitter.EmitAsync(pending)
	return participant, nil
}

// resolveIdentity loads the identity for an add request, creating a guest
// identity when adding by email finds no match. The second return reports
// whether the identity was created.
func (s *Service) resolveIdentity(ctx context.Context, st storage.Stores, input AddParticipantInput) (domain.Identity, bool, error) {
	if strings.TrimSpace(input.IdentityID) != "" {
		identity, err := st.Identities.GetIdentity(ctx, strings.TrimSpace(input.IdentityID))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domain.Identity{}, false, ErrIdentityNotFound
			}
			return domain.Identity{}, false, fmt.Errorf("get identity: %w", err)
		}
		if !identity.Tier.AtLeast(domain.TierInvestor) {
			return domain.Identity{}, false, ErrIdentityTierTooLow
		}
		return identity, false, nil
	}

	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return domain.Identity{}, false, domain.ErrIdentityEmailRequired
	}

	identity, err := st.Identities.GetIdentityByEmail(ctx, email)
	if err == nil {
		return identity, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domain.Identity{}, false, fmt.Errorf("get identity by email: %w", err)
	}

	identity, err = domain.CreateIdentity(domain.CreateIdentityInput{
		Email: email,
		Name:  input.Name,
		Tier:  domain.TierGuest,
	}, s.clock, s.newID)
	if err != nil {
		return domain.Identity{}, false, err
	}
	if err := st.Identities.CreateIdentity(ctx, identity); err != nil {
		return domain.Identity{}, false, fmt.Errorf("create identity: %w", err)
	}
	return identity, true, nil
}

// claimFounderTeam finds the identity's primary team membership and marks
// it as team lead. Identities without any membership join without a team.
func (s *Service) claimFounderTeam(ctx context.Context, st storage.Stores, identityID string) (string, error) {
	roles, err := st.Roles.ListRolesByIdentity(ctx, identityID)
	if err != nil {
		return "", fmt.Errorf("list roles: %w", err)
	}
	if len(roles) == 0 {
		return "", nil
	}

	role := roles[0]
	for _, candidate := range roles {
		if candidate.MainTeam {
			role = candidate
			break
		}
	}

	if !role.TeamLead {
		role.TeamLead = true
		role.UpdatedAt = s.clock().UTC()
		if err := st.Roles.UpdateRole(ctx, role); err != nil {
			return "", fmt.Errorf("update role: %w", err)
		}
	}
	return role.TeamID, nil
}

// UpdateParticipantInput describes an admin participant update. A zero
// Status leaves the status untouched; a nil TeamID leaves the team
// untouched while a pointer to "" clears it.
type UpdateParticipantInput struct {
	EventID       string
	ParticipantID string
	Status        domain.ParticipantStatus
	TeamID        *string
	Admin         *bool
	EarlyAccess   *bool
}

// UpdateParticipant applies an admin update to a participant. Status
// transitions are edge-triggered: the status-changed timestamp moves and a
// status-changed analytics event fires only when the value actually changes.
func (s *Service) UpdateParticipant(ctx context.Context, input UpdateParticipantInput) (domain.Participant, error) {
	var participant domain.Participant
	var pending []analytics.Event

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		var err error
		participant, err = s.getParticipant(ctx, st, input.EventID, input.ParticipantID)
		if err != nil {
			return err
		}

		now := s.clock().UTC()

		if input.TeamID != nil {
			teamID := strings.TrimSpace(*input.TeamID)
			if teamID != "" {
				if _, err := st.Teams.GetTeam(ctx, teamID); err != nil {
					if errors.Is(err, storage.ErrNotFound) {
						return ErrTeamNotFound
					}
					return fmt.Errorf("get team: %w", err)
				}
			}
			if err := participant.AssignTeam(teamID); err != nil {
				return err
			}
		}
		if input.Admin != nil {
			participant.Admin = *input.Admin
		}
		if input.EarlyAccess != nil {
			participant.EarlyAccess = *input.EarlyAccess
		}

		previous := participant.Status
		updated, changed := participant.WithStatus(input.Status, now)
		participant = updated
		if changed {
			pending = append(pending, participantStatusChangedEvent(participant, previous))
		}

		participant.UpdatedAt = now
		if err := st.Participants.UpdateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	s.emitter.EmitAsync(pending)
	return participant, nil
}

// ActivateOnAccess flips an INVITED participant to ENABLED the first time
// they access the event. Participants in any other status are returned
// unchanged.
func (s *Service) ActivateOnAccess(ctx context.Context, eventID, identityID string) (domain.Participant, error) {
	var participant domain.Participant
	var pending []analytics.Event

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		var err error
		participant, err = st.Participants.GetParticipantByEventAndIdentity(ctx, strings.TrimSpace(eventID), strings.TrimSpace(identityID))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrParticipantNotFound
			}
			return fmt.Errorf("get participant: %w", err)
		}
		if participant.Status != domain.ParticipantStatusInvited {
			return nil
		}

		previous := participant.Status
		updated, changed := participant.WithStatus(domain.ParticipantStatusEnabled, s.clock().UTC())
		participant = updated
		if !changed {
			return nil
		}
		if err := st.Participants.UpdateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}
		pending = append(pending, participantStatusChangedEvent(participant, previous))
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	s.emitter.EmitAsync(pending)
	return participant, nil
}

// ListParticipantsInput describes a filtered participant listing request.
// Filter is an AIP-160 expression over type, status, team_id,
// lead_request_status, admin, early_access and confidentiality_accepted;
// OrderBy is an AIP-132 expression over the sortable columns.
type ListParticipantsInput struct {
	EventID   string
	Filter    string
	OrderBy   string
	PageSize  int
	PageToken string
}

// ListParticipants returns one page of an event's participants.
func (s *Service) ListParticipants(ctx context.Context, input ListParticipantsInput) (storage.ParticipantPage, error) {
	condition, err := filter.ParseParticipantFilter(input.Filter)
	if err != nil {
		return storage.ParticipantPage{}, apperrors.Wrap(apperrors.CodeListFilterInvalid, "invalid filter expression", err)
	}
	orderBy, err := filter.ParseParticipantOrderBy(input.OrderBy)
	if err != nil {
		return storage.ParticipantPage{}, apperrors.Wrap(apperrors.CodeListOrderByInvalid, "invalid order_by expression", err)
	}

	offset := 0
	if input.PageToken != "" {
		offset, err = strconv.Atoi(input.PageToken)
		if err != nil || offset < 0 {
			return storage.ParticipantPage{}, apperrors.New(apperrors.CodeListPageTokenInvalid, "invalid page token")
		}
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	page, err := s.stores.Participants.ListParticipants(ctx, storage.ParticipantQuery{
		EventID:     strings.TrimSpace(input.EventID),
		WhereClause: condition.Clause,
		WhereParams: condition.Params,
		OrderBy:     orderBy,
		PageSize:    pageSize,
		Offset:      offset,
	})
	if err != nil {
		return storage.ParticipantPage{}, fmt.Errorf("list participants: %w", err)
	}
	return page, nil
}

func (s *Service) getEvent(ctx context.Context, st storage.Stores, eventID string) (domain.Event, error) {
	event, err := st.Events.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	if event.Deleted {
		return domain.Event{}, ErrEventNotFound
	}
	return event, nil
}

func (s *Service) getParticipant(ctx context.Context, st storage.Stores, eventID, participantID string) (domain.Participant, error) {
	participant, err := st.Participants.GetParticipant(ctx, strings.TrimSpace(eventID), strings.TrimSpace(participantID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}
		return domain.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	return participant, nil
}

func participantAddedEvent(p domain.Participant) analytics.Event {
	return analytics.Event{
		Name:       eventParticipantAdded,
		DistinctID: p.IdentityID,
		Properties: map[string]any{
			"event_id":        p.EventID,
			"participant_id":  p.ID,
			"type":            domain.ParticipantTypeLabel(p.Type),
			"previous_status": "",
			"status":          domain.ParticipantStatusLabel(p.Status),
		},
	}
}

func participantStatusChangedEvent(p domain.Participant, previous domain.ParticipantStatus) analytics.Event {
	return analytics.Event{
		Name:       eventParticipantStatusChanged,
		DistinctID: p.IdentityID,
		Properties: map[string]any{
			"event_id":        p.EventID,
			"participant_id":  p.ID,
			"previous_status": domain.ParticipantStatusLabel(previous),
			"status":          domain.ParticipantStatusLabel(p.Status),
		},
	}
}
