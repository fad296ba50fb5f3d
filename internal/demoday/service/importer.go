package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/venturehq/demoday/internal/analytics"
	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
	"github.com/venturehq/demoday/internal/notifications"
	apperrors "github.com/venturehq/demoday/internal/platform/errors"
)

// inviteTemplateID is the notification template sent to investors that were
// created by an import.
const inviteTemplateID = "investor_event_invite"

// supportRoleWords are role-text markers that veto team-lead inference.
var supportRoleWords = []string{"analyst", "associate", "assistant", "intern"}

// InvestorRecord is one row of an investor import batch.
type InvestorRecord struct {
	Email          string
	Name           string
	Organization   string
	RoleText       string
	Tags           string
	LinkedIn       string
	Twitter        string
	Telegram       string
	Fund           bool
	Lead           *bool
	InvestmentType string
	Focus          string
	CheckRange     string
}

// ImportRowStatus classifies the outcome of one import row.
type ImportRowStatus string

const (
	// ImportRowSuccess indicates the row was fully applied.
	ImportRowSuccess ImportRowStatus = "success"
	// ImportRowError indicates the row was skipped with a business error.
	ImportRowError ImportRowStatus = "error"
)

// ImportRowResult reports the per-row outcome of an import.
type ImportRowResult struct {
	Email         string
	IdentityID    string
	TeamID        string
	ParticipantID string
	Status        ImportRowStatus
	Message       string
}

// ImportSummary aggregates counters across one import batch.
type ImportSummary struct {
	Total              int
	CreatedUsers       int
	UpdatedUsers       int
	CreatedTeams       int
	UpdatedMemberships int
	PromotedToLead     int
	Errors             int
}

// ImportReport is the full result of one import batch.
type ImportReport struct {
	Summary ImportSummary
	Rows    []ImportRowResult
}

// ImportInvestorsInput describes an investor import batch.
type ImportInvestorsInput struct {
	EventID string
	Records []InvestorRecord
}

// importState carries batch-scoped caches so rows in one batch observe the
// effects of earlier rows without re-querying.
type importState struct {
	teamsByFoldedName map[string]domain.Team
	leadClaimed       map[string]bool
	telegramOwners    map[string]string
}

func newImportState() *importState {
	return &importState{
		teamsByFoldedName: make(map[string]domain.Team),
		leadClaimed:       make(map[string]bool),
		telegramOwners:    make(map[string]string),
	}
}

// ImportInvestors applies a batch of investor records to an event in one
// transaction. Rows that fail a business rule are reported individually
// and do not block the rest of the batch; infrastructure failures abort
// the whole batch. Invite notifications and analytics fire after commit.
func (s *Service) ImportInvestors(ctx context.Context, input ImportInvestorsInput) (ImportReport, error) {
	if strings.TrimSpace(input.EventID) == "" {
		return ImportReport{}, ErrImportEventRequired
	}
	if len(input.Records) == 0 {
		return ImportReport{}, ErrImportEmptyBatch
	}

	var report ImportReport
	var pending []analytics.Event
	var invited []string

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		event, err := s.getEvent(ctx, st, input.EventID)
		if err != nil {
			return err
		}

		state := newImportState()
		for _, record := range input.Records {
			row, events, created, err := s.importRecord(ctx, st, event, state, record, &report.Summary)
			if err != nil {
				var appErr *apperrors.Error
				if !errors.As(err, &appErr) {
					return err
				}
				report.Summary.Errors++
				report.Rows = append(report.Rows, ImportRowResult{
					Email:   domain.NormalizeEmail(record.Email),
					Status:  ImportRowError,
					Message: appErr.Message,
				})
				continue
			}
			report.Rows = append(report.Rows, row)
			pending = append(pending, events...)
			if created {
				invited = append(invited, row.Email)
			}
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}

	report.Summary.Total = len(input.Records)
	s.emitter.EmitAsync(pending)
	s.sendInvites(input.EventID, invited)
	return report, nil
}

// importRecord applies one import row. The returned bool reports whether a
// new identity was created, which drives the invite notification.
func (s *Service) importRecord(ctx context.Context, st storage.Stores, event domain.Event, state *importState, record InvestorRecord, summary *ImportSummary) (ImportRowResult, []analytics.Event, bool, error) {
	email := domain.NormalizeEmail(record.Email)
	name := strings.TrimSpace(record.Name)
	if email == "" || name == "" {
		return ImportRowResult{}, nil, false, apperrors.New(apperrors.CodeImportRowInvalid, "email and name are required")
	}

	// The duplicate check runs before the identity merge so a skipped row
	// leaves the existing identity untouched.
	existing, err := st.Identities.GetIdentityByEmail(ctx, email)
	switch {
	case err == nil:
		_, err = st.Participants.GetParticipantByEventAndIdentity(ctx, event.ID, existing.ID)
		if err == nil {
			return ImportRowResult{}, nil, false, ErrParticipantExists
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return ImportRowResult{}, nil, false, fmt.Errorf("look up participant: %w", err)
		}
	case !errors.Is(err, storage.ErrNotFound):
		return ImportRowResult{}, nil, false, fmt.Errorf("get identity by email: %w", err)
	}

	identity, created, err := s.mergeImportIdentity(ctx, st, state, record, email, name, summary)
	if err != nil {
		return ImportRowResult{}, nil, false, err
	}

	teamID := ""
	if strings.TrimSpace(record.Organization) != "" {
		teamID, err = s.mergeImportTeam(ctx, st, state, record, identity, summary)
		if err != nil {
			return ImportRowResult{}, nil, false, err
		}
	}

	status := domain.ParticipantStatusEnabled
	if created {
		status = domain.ParticipantStatusInvited
	}
	participant, err := domain.CreateParticipant(domain.CreateParticipantInput{
		EventID:    event.ID,
		IdentityID: identity.ID,
		Type:       domain.ParticipantTypeInvestor,
		Status:     status,
	}, s.clock, s.newID)
	if err != nil {
		return ImportRowResult{}, nil, false, err
	}
	if err := st.Participants.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return ImportRowResult{}, nil, false, ErrParticipantExists
		}
		return ImportRowResult{}, nil, false, fmt.Errorf("create participant: %w", err)
	}

	return ImportRowResult{
		Email:         email,
		IdentityID:    identity.ID,
		TeamID:        teamID,
		ParticipantID: participant.ID,
		Status:        ImportRowSuccess,
	}, []analytics.Event{participantAddedEvent(participant)}, created, nil
}

// mergeImportIdentity resolves the row's identity by email, creating it at
// guest tier or merging contact fields into the existing record. Handle
// fields only fill gaps; a telegram handle already owned by a different
// identity is dropped rather than reassigned.
func (s *Service) mergeImportIdentity(ctx context.Context, st storage.Stores, state *importState, record InvestorRecord, email, name string, summary *ImportSummary) (domain.Identity, bool, error) {
	linkedIn := domain.NormalizeLinkedInHandle(record.LinkedIn)
	twitter := domain.NormalizeTwitterHandle(record.Twitter)
	telegram := domain.NormalizeTelegramHandle(record.Telegram)

	identity, err := st.Identities.GetIdentityByEmail(ctx, email)
	switch {
	case err == nil:
		changed := false
		if raised := identity.Tier.RaisedForImport(); raised != identity.Tier {
			identity.Tier = raised
			changed = true
		}
		if identity.Name == "" && name != "" {
			identity.Name = name
			changed = true
		}
		if identity.LinkedInHandle == "" && linkedIn != "" {
			identity.LinkedInHandle = linkedIn
			changed = true
		}
		if identity.TwitterHandle == "" && twitter != "" {
			identity.TwitterHandle = twitter
			changed = true
		}
		if identity.TelegramHandle == "" && telegram != "" {
			owned, err := s.telegramOwned(ctx, st, state, telegram, identity.ID)
			if err != nil {
				return domain.Identity{}, false, err
			}
			if !owned {
				identity.TelegramHandle = telegram
				changed = true
			}
		}
		if changed {
			identity.UpdatedAt = s.clock().UTC()
			if err := st.Identities.UpdateIdentity(ctx, identity); err != nil {
				return domain.Identity{}, false, fmt.Errorf("update identity: %w", err)
			}
			summary.UpdatedUsers++
		}
		if identity.TelegramHandle != "" {
			state.telegramOwners[identity.TelegramHandle] = identity.ID
		}
		return identity, false, nil

	case errors.Is(err, storage.ErrNotFound):
		if telegram != "" {
			owned, err := s.telegramOwned(ctx, st, state, telegram, "")
			if err != nil {
				return domain.Identity{}, false, err
			}
			if owned {
				telegram = ""
			}
		}
		identity, err := domain.CreateIdentity(domain.CreateIdentityInput{
			Email:          email,
			Name:           name,
			Tier:           domain.TierGuest,
			LinkedInHandle: linkedIn,
			TwitterHandle:  twitter,
			TelegramHandle: telegram,
		}, s.clock, s.newID)
		if err != nil {
			return domain.Identity{}, false, err
		}
		if err := st.Identities.CreateIdentity(ctx, identity); err != nil {
			return domain.Identity{}, false, fmt.Errorf("create identity: %w", err)
		}
		if identity.TelegramHandle != "" {
			state.telegramOwners[identity.TelegramHandle] = identity.ID
		}
		summary.CreatedUsers++
		return identity, true, nil

	default:
		return domain.Identity{}, false, fmt.Errorf("get identity by email: %w", err)
	}
}

// telegramOwned reports whether a telegram handle belongs to an identity
// other than selfID, consulting the batch cache before storage.
func (s *Service) telegramOwned(ctx context.Context, st storage.Stores, state *importState, handle, selfID string) (bool, error) {
	if owner, ok := state.telegramOwners[handle]; ok {
		return owner != selfID, nil
	}
	owner, err := st.Identities.GetIdentityByTelegramHandle(ctx, handle)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get identity by telegram handle: %w", err)
	}
	state.telegramOwners[handle] = owner.ID
	return owner.ID != selfID, nil
}

// mergeImportTeam resolves the row's organization case-insensitively,
// creating the team when missing, upserts the fund's investor profile, and
// grants or updates the identity's membership with an inferred or explicit
// lead flag.
func (s *Service) mergeImportTeam(ctx context.Context, st storage.Stores, state *importState, record InvestorRecord, identity domain.Identity, summary *ImportSummary) (string, error) {
	now := s.clock().UTC()
	folded := domain.FoldTeamName(record.Organization)

	team, cached := state.teamsByFoldedName[folded]
	if !cached {
		var err error
		team, err = st.Teams.GetTeamByFoldedName(ctx, folded)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			team, err = domain.CreateTeam(domain.CreateTeamInput{
				Name:   record.Organization,
				IsFund: record.Fund,
			}, s.clock, s.newID)
			if err != nil {
				return "", err
			}
			if err := st.Teams.CreateTeam(ctx, team); err != nil {
				return "", fmt.Errorf("create team: %w", err)
			}
			summary.CreatedTeams++
		case err != nil:
			return "", fmt.Errorf("get team by name: %w", err)
		}
		state.teamsByFoldedName[folded] = team
	}

	if record.Fund {
		if err := s.upsertFundProfile(ctx, st, team.ID, record, now); err != nil {
			return "", err
		}
	}

	lead, err := s.decideLead(ctx, st, state, team.ID, record)
	if err != nil {
		return "", err
	}

	role, err := st.Roles.GetRole(ctx, identity.ID, team.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		role = domain.TeamRole{
			IdentityID:     identity.ID,
			TeamID:         team.ID,
			TeamLead:       lead,
			MainTeam:       true,
			InvestmentTeam: true,
			RoleText:       strings.TrimSpace(record.RoleText),
			Tags:           strings.TrimSpace(record.Tags),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := st.Roles.CreateRole(ctx, role); err != nil {
			return "", fmt.Errorf("create role: %w", err)
		}
		summary.UpdatedMemberships++
		if lead {
			summary.PromotedToLead++
		}
	case err != nil:
		return "", fmt.Errorf("get role: %w", err)
	default:
		changed := false
		if lead && !role.TeamLead {
			role.TeamLead = true
			summary.PromotedToLead++
			changed = true
		}
		if role.RoleText == "" && strings.TrimSpace(record.RoleText) != "" {
			role.RoleText = strings.TrimSpace(record.RoleText)
			changed = true
		}
		if role.Tags == "" && strings.TrimSpace(record.Tags) != "" {
			role.Tags = strings.TrimSpace(record.Tags)
			changed = true
		}
		if changed {
			role.UpdatedAt = now
			if err := st.Roles.UpdateRole(ctx, role); err != nil {
				return "", fmt.Errorf("update role: %w", err)
			}
			summary.UpdatedMemberships++
		}
	}

	if role.TeamLead {
		state.leadClaimed[team.ID] = true
	}
	return team.ID, nil
}

// decideLead resolves the membership lead flag for an import row. An
// explicit flag always wins; otherwise the first contact of an
// organization in the batch is inferred as lead unless the team already
// has one or the role text marks a supporting role.
func (s *Service) decideLead(ctx context.Context, st storage.Stores, state *importState, teamID string, record InvestorRecord) (bool, error) {
	if record.Lead != nil {
		return *record.Lead, nil
	}
	if state.leadClaimed[teamID] {
		return false, nil
	}
	if roleTextSuggestsSupport(record.RoleText) {
		return false, nil
	}
	hasLead, err := st.Roles.HasTeamLead(ctx, teamID)
	if err != nil {
		return false, fmt.Errorf("check team lead: %w", err)
	}
	return !hasLead, nil
}

// roleTextSuggestsSupport reports whether free-form role text names a
// supporting role that should not be inferred as team lead.
func roleTextSuggestsSupport(roleText string) bool {
	text := strings.ToLower(roleText)
	for _, word := range supportRoleWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// upsertFundProfile merges the row's investment preferences into the
// team's investor profile, filling gaps without clobbering existing values.
func (s *Service) upsertFundProfile(ctx context.Context, st storage.Stores, teamID string, record InvestorRecord, now time.Time) error {
	profile, err := st.InvestorProfiles.GetInvestorProfileByTeam(ctx, teamID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		profileID, err := s.newID()
		if err != nil {
			return fmt.Errorf("generate investor profile id: %w", err)
		}
		profile = domain.InvestorProfile{
			ID:             profileID,
			TeamID:         teamID,
			InvestmentType: strings.TrimSpace(record.InvestmentType),
			Focus:          strings.TrimSpace(record.Focus),
			CheckRange:     strings.TrimSpace(record.CheckRange),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	case err != nil:
		return fmt.Errorf("get investor profile: %w", err)
	default:
		if profile.InvestmentType == "" {
			profile.InvestmentType = strings.TrimSpace(record.InvestmentType)
		}
		if profile.Focus == "" {
			profile.Focus = strings.TrimSpace(record.Focus)
		}
		if profile.CheckRange == "" {
			profile.CheckRange = strings.TrimSpace(record.CheckRange)
		}
		profile.UpdatedAt = now
	}
	if err := st.InvestorProfiles.PutInvestorProfile(ctx, profile); err != nil {
		return fmt.Errorf("put investor profile: %w", err)
	}
	return nil
}

// sendInvites delivers invite notifications to newly created investors in
// the background. Delivery failures never surface to the import caller.
func (s *Service) sendInvites(eventID string, emails []string) {
	if len(emails) == 0 {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		_ = s.notifier.Send(context.Background(), notifications.SendRequest{
			TemplateID: inviteTemplateID,
			Recipients: emails,
			Payload:    map[string]string{"event_id": eventID},
		})
	}()
}
