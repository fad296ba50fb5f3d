package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/venturehq/demoday/internal/demoday/domain"
)

func TestAddParticipantByEmailCreatesGuestInvite(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	participant, err := env.svc.AddParticipant(ctx, AddParticipantInput{
		EventID: event.ID,
		Email:   "Founder@Example.COM",
		Name:    "Ada Founder",
		Type:    domain.ParticipantTypeFounder,
	})
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	if participant.Status != domain.ParticipantStatusInvited {
		t.Errorf("status = %s, want INVITED", domain.ParticipantStatusLabel(participant.Status))
	}
	if participant.TeamID != "" {
		t.Errorf("team = %q, want empty for a new identity", participant.TeamID)
	}

	identity, err := env.stores.Identities.GetIdentityByEmail(ctx, "founder@example.com")
	if err != nil {
		t.Fatalf("get identity by email: %v", err)
	}
	if identity.Tier != domain.TierGuest {
		t.Errorf("tier = %s, want GUEST", domain.TierLabel(identity.Tier))
	}

	env.svc.Drain()
	if got := env.sink.countByName("participant_added"); got != 1 {
		t.Errorf("participant_added events = %d, want 1", got)
	}
}

func TestAddParticipantDuplicateConflicts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	input := AddParticipantInput{
		EventID: event.ID,
		Email:   "dup@example.com",
		Name:    "Dup Licate",
		Type:    domain.ParticipantTypeInvestor,
	}
	if _, err := env.svc.AddParticipant(ctx, input); err != nil {
		t.Fatalf("first AddParticipant: %v", err)
	}
	if _, err := env.svc.AddParticipant(ctx, input); !errors.Is(err, ErrParticipantExists) {
		t.Fatalf("second AddParticipant err = %v, want ErrParticipantExists", err)
	}
}

func TestAddParticipantByReferenceRequiresTier(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	guest := env.seedIdentity(t, "ident-guest", "guest@example.com", domain.TierGuest)
	if _, err := env.svc.AddParticipant(ctx, AddParticipantInput{
		EventID:    event.ID,
		IdentityID: guest.ID,
		Type:       domain.ParticipantTypeInvestor,
	}); !errors.Is(err, ErrIdentityTierTooLow) {
		t.Fatalf("guest add err = %v, want ErrIdentityTierTooLow", err)
	}

	investor := env.seedIdentity(t, "ident-vc", "vc@example.com", domain.TierInvestor)
	participant, err := env.svc.AddParticipant(ctx, AddParticipantInput{
		EventID:    event.ID,
		IdentityID: investor.ID,
		Type:       domain.ParticipantTypeInvestor,
	})
	if err != nil {
		t.Fatalf("investor add: %v", err)
	}
	if participant.Status != domain.ParticipantStatusEnabled {
		t.Errorf("status = %s, want ENABLED", domain.ParticipantStatusLabel(participant.Status))
	}
}

func TestAddParticipantFounderClaimsPrimaryTeamLead(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	founder := env.seedIdentity(t, "ident-founder", "ceo@example.com", domain.TierInvestor)
	team := env.seedTeam(t, "team-acme", "Acme")
	env.seedRole(t, domain.TeamRole{
		IdentityID: founder.ID,
		TeamID:     team.ID,
		MainTeam:   true,
	})

	participant, err := env.svc.AddParticipant(ctx, AddParticipantInput{
		EventID:    event.ID,
		IdentityID: founder.ID,
		Type:       domain.ParticipantTypeFounder,
	})
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if participant.TeamID != team.ID {
		t.Errorf("team = %q, want %q", participant.TeamID, team.ID)
	}

	role, err := env.stores.Roles.GetRole(ctx, founder.ID, team.ID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if !role.TeamLead {
		t.Error("membership lead flag not set")
	}
}

func TestUpdateParticipantStatusEdgeTriggered(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	identity := env.seedIdentity(t, "ident-1", "edge@example.com", domain.TierMember)
	seeded := env.seedParticipant(t, domain.Participant{
		ID:         "part-1",
		EventID:    event.ID,
		IdentityID: identity.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusEnabled,
	})

	// Same status: no event, status-changed timestamp untouched.
	updated, err := env.svc.UpdateParticipant(ctx, UpdateParticipantInput{
		EventID:       event.ID,
		ParticipantID: seeded.ID,
		Status:        domain.ParticipantStatusEnabled,
	})
	if err != nil {
		t.Fatalf("same-status update: %v", err)
	}
	if !updated.StatusChangedAt.Equal(seeded.StatusChangedAt) {
		t.Error("status-changed timestamp moved without a status change")
	}
	env.svc.Drain()
	if got := env.sink.countByName("participant_status_changed"); got != 0 {
		t.Fatalf("status events after no-op = %d, want 0", got)
	}

	// Real transition: exactly one event.
	if _, err := env.svc.UpdateParticipant(ctx, UpdateParticipantInput{
		EventID:       event.ID,
		ParticipantID: seeded.ID,
		Status:        domain.ParticipantStatusDisabled,
	}); err != nil {
		t.Fatalf("disable update: %v", err)
	}
	env.svc.Drain()
	if got := env.sink.countByName("participant_status_changed"); got != 1 {
		t.Errorf("status events after transition = %d, want 1", got)
	}
}

func TestUpdateParticipantRejectsTeamOnInvestor(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	identity := env.seedIdentity(t, "ident-1", "vc@example.com", domain.TierInvestor)
	team := env.seedTeam(t, "team-1", "Fund One")
	seeded := env.seedParticipant(t, domain.Participant{
		ID:         "part-1",
		EventID:    event.ID,
		IdentityID: identity.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusEnabled,
	})

	teamID := team.ID
	if _, err := env.svc.UpdateParticipant(ctx, UpdateParticipantInput{
		EventID:       event.ID,
		ParticipantID: seeded.ID,
		TeamID:        &teamID,
	}); !errors.Is(err, domain.ErrTeamNotAllowed) {
		t.Fatalf("err = %v, want ErrTeamNotAllowed", err)
	}
}

func TestActivateOnAccessEnablesInvited(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	identity := env.seedIdentity(t, "ident-1", "invited@example.com", domain.TierMember)
	env.seedParticipant(t, domain.Participant{
		ID:         "part-1",
		EventID:    event.ID,
		IdentityID: identity.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusInvited,
	})

	participant, err := env.svc.ActivateOnAccess(ctx, event.ID, identity.ID)
	if err != nil {
		t.Fatalf("ActivateOnAccess: %v", err)
	}
	if participant.Status != domain.ParticipantStatusEnabled {
		t.Fatalf("status = %s, want ENABLED", domain.ParticipantStatusLabel(participant.Status))
	}

	// Second access is a no-op.
	again, err := env.svc.ActivateOnAccess(ctx, event.ID, identity.ID)
	if err != nil {
		t.Fatalf("second ActivateOnAccess: %v", err)
	}
	if again.Status != domain.ParticipantStatusEnabled {
		t.Errorf("status after second access = %s", domain.ParticipantStatusLabel(again.Status))
	}
	env.svc.Drain()
	if got := env.sink.countByName("participant_status_changed"); got != 1 {
		t.Errorf("status events = %d, want 1", got)
	}
}

func TestActivateOnAccessLeavesDisabledAlone(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	identity := env.seedIdentity(t, "ident-1", "blocked@example.com", domain.TierMember)
	env.seedParticipant(t, domain.Participant{
		ID:         "part-1",
		EventID:    event.ID,
		IdentityID: identity.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusDisabled,
	})

	participant, err := env.svc.ActivateOnAccess(ctx, event.ID, identity.ID)
	if err != nil {
		t.Fatalf("ActivateOnAccess: %v", err)
	}
	if participant.Status != domain.ParticipantStatusDisabled {
		t.Errorf("status = %s, want DISABLED", domain.ParticipantStatusLabel(participant.Status))
	}
}

func TestListParticipantsFilterAndPaging(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	for i, status := range []domain.ParticipantStatus{
		domain.ParticipantStatusEnabled,
		domain.ParticipantStatusEnabled,
		domain.ParticipantStatusDisabled,
	} {
		identity := env.seedIdentity(t, fmt.Sprintf("ident-%d", i), fmt.Sprintf("p%d@example.com", i), domain.TierMember)
		env.seedParticipant(t, domain.Participant{
			ID:         fmt.Sprintf("part-%d", i),
			EventID:    event.ID,
			IdentityID: identity.ID,
			Type:       domain.ParticipantTypeInvestor,
			Status:     status,
		})
	}

	page, err := env.svc.ListParticipants(ctx, ListParticipantsInput{
		EventID: event.ID,
		Filter:  `status = "ENABLED"`,
	})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(page.Participants) != 2 {
		t.Errorf("filtered count = %d, want 2", len(page.Participants))
	}

	first, err := env.svc.ListParticipants(ctx, ListParticipantsInput{
		EventID:  event.ID,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first.Participants) != 2 || first.NextPageToken == "" {
		t.Fatalf("first page = %d records, token %q", len(first.Participants), first.NextPageToken)
	}
	second, err := env.svc.ListParticipants(ctx, ListParticipantsInput{
		EventID:   event.ID,
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Participants) != 1 || second.NextPageToken != "" {
		t.Errorf("second page = %d records, token %q", len(second.Participants), second.NextPageToken)
	}

	if _, err := env.svc.ListParticipants(ctx, ListParticipantsInput{
		EventID: event.ID,
		Filter:  `nonsense = "x"`,
	}); err == nil {
		t.Error("unknown filter field accepted")
	}
	if _, err := env.svc.ListParticipants(ctx, ListParticipantsInput{
		EventID:   event.ID,
		PageToken: "not-a-number",
	}); err == nil {
		t.Error("garbage page token accepted")
	}
}
