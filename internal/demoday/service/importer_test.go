package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/notifications"
)

// recorderSender captures invite notifications.
type recorderSender struct {
	mu       sync.Mutex
	requests []notifications.SendRequest
}

func (r *recorderSender) Send(_ context.Context, request notifications.SendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, request)
	return nil
}

func (r *recorderSender) Requests() []notifications.SendRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifications.SendRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

func TestImportInvestorsValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		Records: []InvestorRecord{{Email: "a@example.com", Name: "A"}},
	}); !errors.Is(err, ErrImportEventRequired) {
		t.Errorf("missing event err = %v, want ErrImportEventRequired", err)
	}
	if _, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{EventID: "event-1"}); !errors.Is(err, ErrImportEmptyBatch) {
		t.Errorf("empty batch err = %v, want ErrImportEmptyBatch", err)
	}
}

func TestImportInvestorsRowErrorDoesNotBlockBatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	// Row 2's identity is already registered for the event.
	existing := env.seedIdentity(t, "ident-dup", "dup@example.com", domain.TierInvestor)
	env.seedParticipant(t, domain.Participant{
		ID:         "part-dup",
		EventID:    event.ID,
		IdentityID: existing.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusEnabled,
	})

	report, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{
			{Email: "first@example.com", Name: "First", Organization: "Fund One", Fund: true},
			{Email: "dup@example.com", Name: "Dup"},
			{Email: "third@example.com", Name: "Third", Organization: "Fund One"},
		},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}

	if report.Summary.Total != 3 || report.Summary.Errors != 1 {
		t.Fatalf("summary = %+v, want total 3 errors 1", report.Summary)
	}
	if report.Summary.CreatedUsers != 2 || report.Summary.CreatedTeams != 1 {
		t.Errorf("summary = %+v, want 2 created users and 1 created team", report.Summary)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(report.Rows))
	}
	if report.Rows[0].Status != ImportRowSuccess || report.Rows[2].Status != ImportRowSuccess {
		t.Errorf("rows 1 and 3 should succeed: %+v", report.Rows)
	}
	if report.Rows[1].Status != ImportRowError {
		t.Errorf("row 2 should fail: %+v", report.Rows[1])
	}

	// Rows 1 and 3 landed despite row 2's failure.
	for _, email := range []string{"first@example.com", "third@example.com"} {
		identity, err := env.stores.Identities.GetIdentityByEmail(ctx, email)
		if err != nil {
			t.Fatalf("identity %s: %v", email, err)
		}
		if identity.Tier != domain.TierGuest {
			t.Errorf("tier for %s = %s, want GUEST for import-created identities", email, domain.TierLabel(identity.Tier))
		}
		participant, err := env.stores.Participants.GetParticipantByEventAndIdentity(ctx, event.ID, identity.ID)
		if err != nil {
			t.Errorf("participant for %s: %v", email, err)
			continue
		}
		if participant.Status != domain.ParticipantStatusInvited {
			t.Errorf("status for %s = %s, want INVITED", email, domain.ParticipantStatusLabel(participant.Status))
		}
	}
}

func TestImportInvestorsSkippedRowLeavesIdentityUntouched(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	guest := env.seedIdentity(t, "ident-reg", "registered@example.com", domain.TierGuest)
	env.seedParticipant(t, domain.Participant{
		ID:         "part-reg",
		EventID:    event.ID,
		IdentityID: guest.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     domain.ParticipantStatusEnabled,
	})

	report, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{{
			Email:   "registered@example.com",
			Name:    "Registered Person",
			Twitter: "newhandle",
		}},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}
	if report.Summary.Errors != 1 || report.Summary.UpdatedUsers != 0 {
		t.Fatalf("summary = %+v, want 1 error and no updated users", report.Summary)
	}

	// The skipped row must not merge anything into the existing identity.
	after, err := env.stores.Identities.GetIdentity(ctx, guest.ID)
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if after.Tier != domain.TierGuest {
		t.Errorf("tier = %s, want GUEST unchanged", domain.TierLabel(after.Tier))
	}
	if after.TwitterHandle != "" {
		t.Errorf("twitter = %q, want empty", after.TwitterHandle)
	}
}

func TestImportInvestorsMergesExistingIdentity(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	guest := env.seedIdentity(t, "ident-guest", "guest@example.com", domain.TierGuest)

	report, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{{
			Email:    "guest@example.com",
			Name:     "Guest Person",
			Twitter:  "https://x.com/guestperson",
			Telegram: "@guest_tg",
		}},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}
	if report.Summary.UpdatedUsers != 1 || report.Summary.CreatedUsers != 0 {
		t.Fatalf("summary = %+v, want 1 updated user", report.Summary)
	}

	merged, err := env.stores.Identities.GetIdentity(ctx, guest.ID)
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if merged.Tier != domain.TierMember {
		t.Errorf("tier = %s, want MEMBER after import raise", domain.TierLabel(merged.Tier))
	}
	if merged.TwitterHandle != "guestperson" {
		t.Errorf("twitter = %q, want normalized handle", merged.TwitterHandle)
	}
	if merged.TelegramHandle != "guest_tg" {
		t.Errorf("telegram = %q, want guest_tg", merged.TelegramHandle)
	}

	// An existing participant keeps ENABLED (identity existed).
	participant, err := env.stores.Participants.GetParticipantByEventAndIdentity(ctx, event.ID, guest.ID)
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if participant.Status != domain.ParticipantStatusEnabled {
		t.Errorf("status = %s, want ENABLED", domain.ParticipantStatusLabel(participant.Status))
	}
}

func TestImportInvestorsTelegramConflictDropsHandle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	owner := env.seedIdentity(t, "ident-owner", "owner@example.com", domain.TierMember)
	owner.TelegramHandle = "shared_handle"
	if err := env.stores.Identities.UpdateIdentity(ctx, owner); err != nil {
		t.Fatalf("seed telegram handle: %v", err)
	}

	report, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{{
			Email:    "newcomer@example.com",
			Name:     "New Comer",
			Telegram: "shared_handle",
		}},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}
	if report.Summary.Errors != 0 {
		t.Fatalf("summary = %+v, want no errors", report.Summary)
	}

	created, err := env.stores.Identities.GetIdentityByEmail(ctx, "newcomer@example.com")
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if created.TelegramHandle != "" {
		t.Errorf("telegram = %q, want dropped on conflict", created.TelegramHandle)
	}
}

func TestImportInvestorsLeadInference(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	explicitNotLead := false
	report, err := env.svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{
			// First contact of Fund One, partner role: inferred lead.
			{Email: "partner@fund.com", Name: "Pat Partner", Organization: "Fund One", RoleText: "General Partner"},
			// Second contact: lead already claimed in this batch.
			{Email: "second@fund.com", Name: "Sam Second", Organization: "fund one"},
			// First contact of Fund Two but a support role: not inferred.
			{Email: "analyst@fund2.com", Name: "Al Analyst", Organization: "Fund Two", RoleText: "Senior Analyst"},
			// Explicit flag wins over inference.
			{Email: "exec@fund3.com", Name: "Ed Exec", Organization: "Fund Three", Lead: &explicitNotLead},
		},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}
	if report.Summary.PromotedToLead != 1 {
		t.Fatalf("summary = %+v, want exactly 1 lead promotion", report.Summary)
	}
	if report.Summary.CreatedTeams != 3 {
		t.Errorf("summary = %+v, want 3 created teams (case-insensitive merge)", report.Summary)
	}

	partner, err := env.stores.Identities.GetIdentityByEmail(ctx, "partner@fund.com")
	if err != nil {
		t.Fatalf("get partner: %v", err)
	}
	role, err := env.stores.Roles.GetRole(ctx, partner.ID, report.Rows[0].TeamID)
	if err != nil {
		t.Fatalf("get partner role: %v", err)
	}
	if !role.TeamLead {
		t.Error("first contact with partner role should be inferred lead")
	}

	second, err := env.stores.Identities.GetIdentityByEmail(ctx, "second@fund.com")
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if report.Rows[1].TeamID != report.Rows[0].TeamID {
		t.Errorf("case-insensitive org matching failed: %q vs %q", report.Rows[1].TeamID, report.Rows[0].TeamID)
	}
	secondRole, err := env.stores.Roles.GetRole(ctx, second.ID, report.Rows[1].TeamID)
	if err != nil {
		t.Fatalf("get second role: %v", err)
	}
	if secondRole.TeamLead {
		t.Error("second contact should not be lead")
	}
}

func TestImportInvestorsFundProfileAndInvites(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)
	ctx := context.Background()

	sender := &recorderSender{}
	svc := New(Deps{
		Tx:       env.store,
		Stores:   env.store.Stores(),
		Notifier: sender,
		Clock:    fixedClock,
		NewID:    sequentialIDs(),
	})

	report, err := svc.ImportInvestors(ctx, ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{{
			Email:          "gp@seedfund.com",
			Name:           "Grace Partner",
			Organization:   "Seed Fund",
			Fund:           true,
			InvestmentType: "pre-seed",
			CheckRange:     "25k-100k",
		}},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}

	profile, err := env.stores.InvestorProfiles.GetInvestorProfileByTeam(ctx, report.Rows[0].TeamID)
	if err != nil {
		t.Fatalf("get investor profile: %v", err)
	}
	if profile.InvestmentType != "pre-seed" || profile.CheckRange != "25k-100k" {
		t.Errorf("investor profile = %+v", profile)
	}

	svc.Drain()
	requests := sender.Requests()
	if len(requests) != 1 {
		t.Fatalf("invites = %d, want 1", len(requests))
	}
	if requests[0].TemplateID != inviteTemplateID {
		t.Errorf("template = %q", requests[0].TemplateID)
	}
	if len(requests[0].Recipients) != 1 || requests[0].Recipients[0] != "gp@seedfund.com" {
		t.Errorf("recipients = %v", requests[0].Recipients)
	}
}

func TestImportInvestorsInvalidRowReported(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	event := env.seedEvent(t)

	report, err := env.svc.ImportInvestors(context.Background(), ImportInvestorsInput{
		EventID: event.ID,
		Records: []InvestorRecord{{Email: "", Name: "No Email"}},
	})
	if err != nil {
		t.Fatalf("ImportInvestors: %v", err)
	}
	if report.Summary.Errors != 1 || report.Rows[0].Status != ImportRowError {
		t.Fatalf("report = %+v, want one row error", report)
	}
}
