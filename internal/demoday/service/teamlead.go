package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
)

// RequestTeamLead records a founder's request to lead their team. Only an
// enabled founder with a team assignment and no lead flag may request; a
// rejected request may be re-requested, a pending one may not.
func (s *Service) RequestTeamLead(ctx context.Context, eventID, participantID string) (domain.Participant, error) {
	var participant domain.Participant

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		var err error
		participant, err = s.getParticipant(ctx, st, eventID, participantID)
		if err != nil {
			return err
		}

		alreadyLead := false
		if participant.TeamID != "" {
			role, err := st.Roles.GetRole(ctx, participant.IdentityID, participant.TeamID)
			switch {
			case err == nil:
				alreadyLead = role.TeamLead
			case errors.Is(err, storage.ErrNotFound):
				// No membership yet; approval creates it.
			default:
				return fmt.Errorf("get role: %w", err)
			}
		}

		if err := participant.RequestLead(alreadyLead); err != nil {
			return err
		}
		participant.UpdatedAt = s.clock().UTC()
		if err := st.Participants.UpdateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("update participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}
	return participant, nil
}

// ReviewTeamLeadRequest resolves a pending lead request. Approval writes
// the request status and the membership lead flag in one transaction so
// the two can never diverge; rejection only records the decision.
func (s *Service) ReviewTeamLeadRequest(ctx context.Context, eventID, participantID string, approve bool) (domain.Participant, error) {
	var participant domain.Participant

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		var err error
		participant, err = s.getParticipant(ctx, st, eventID, participantID)
		if err != nil {
			return err
		}

		if err := participant.ResolveLeadRequest(approve); err != nil {
			return err
		}

		now := s.clock().UTC()
		if approve {
			if err := s.grantTeamLead(ctx, st, participant, now); err != nil {
				return err
			}
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
	return participant, nil
}

// grantTeamLead sets the lead flag on the participant's membership,
// creating the membership if the identity has none for the team yet.
func (s *Service) grantTeamLead(ctx context.Context, st storage.Stores, participant domain.Participant, now time.Time) error {
	if participant.TeamID == "" {
		return domain.ErrLeadRequestNoTeam
	}

	role, err := st.Roles.GetRole(ctx, participant.IdentityID, participant.TeamID)
	switch {
	case err == nil:
		if role.TeamLead {
			return nil
		}
		role.TeamLead = true
		role.UpdatedAt = now
		if err := st.Roles.UpdateRole(ctx, role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		role = domain.TeamRole{
			IdentityID: participant.IdentityID,
			TeamID:     participant.TeamID,
			TeamLead:   true,
			MainTeam:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := st.Roles.CreateRole(ctx, role); err != nil {
			return fmt.Errorf("create role: %w", err)
		}
	default:
		return fmt.Errorf("get role: %w", err)
	}
	return nil
}
