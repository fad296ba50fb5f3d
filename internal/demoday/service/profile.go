package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/venturehq/demoday/internal/analytics"
	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
)

// PutProfileMaterialsInput describes a pitch-materials update. Nil fields
// are left untouched; a pointer to "" detaches the upload or clears the
// description.
type PutProfileMaterialsInput struct {
	TeamID           string
	EventID          string
	OnePagerUploadID *string
	VideoUploadID    *string
	Description      *string
}

// PutProfileMaterials applies a materials change to a team's fundraising
// profile, creating the profile as a draft on first write. The publication
// status is re-derived from the resulting materials in the same
// transaction, and listing add/remove analytics fire only when the
// listing-eligibility predicate flips across the write.
func (s *Service) PutProfileMaterials(ctx context.Context, input PutProfileMaterialsInput) (domain.FundraisingProfile, error) {
	var profile domain.FundraisingProfile
	var pending []analytics.Event

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		team, err := s.getTeam(ctx, st, input.TeamID)
		if err != nil {
			return err
		}
		event, err := s.getEvent(ctx, st, input.EventID)
		if err != nil {
			return err
		}

		profile, err = s.loadOrCreateProfile(ctx, st, team.ID, event.ID)
		if err != nil {
			return err
		}

		founders, err := st.Participants.CountEnabledFounders(ctx, event.ID, team.ID)
		if err != nil {
			return fmt.Errorf("count enabled founders: %w", err)
		}
		eligibleBefore := domain.ListingEligible(profile.Status, founders)

		if input.OnePagerUploadID != nil {
			uploadID := strings.TrimSpace(*input.OnePagerUploadID)
			if err := s.validateUpload(ctx, uploadID, UploadKindOnePager); err != nil {
				return err
			}
			profile.OnePagerUploadID = uploadID
		}
		if input.VideoUploadID != nil {
			uploadID := strings.TrimSpace(*input.VideoUploadID)
			if err := s.validateUpload(ctx, uploadID, UploadKindVideo); err != nil {
				return err
			}
			profile.VideoUploadID = uploadID
		}
		if input.Description != nil {
			profile.Description = strings.TrimSpace(*input.Description)
		}

		profile.Recompute(team.Name)
		profile.UpdatedAt = s.clock().UTC()
		if err := st.Profiles.UpdateProfile(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}

		eligibleAfter := domain.ListingEligible(profile.Status, founders)
		pending = appendListingEdge(pending, profile, eligibleBefore, eligibleAfter)
		return nil
	})
	if err != nil {
		return domain.FundraisingProfile{}, err
	}

	s.emitter.EmitAsync(pending)
	return profile, nil
}

// RecomputeProfileStatus re-derives a profile's publication status against
// the team's current name. Callers invoke it after a team rename or a
// founder status change that may have moved the profile in or out of the
// listing.
func (s *Service) RecomputeProfileStatus(ctx context.Context, teamID, eventID string) (domain.FundraisingProfile, error) {
	var profile domain.FundraisingProfile
	var pending []analytics.Event

	err := s.tx.InTransaction(ctx, func(st storage.Stores) error {
		team, err := s.getTeam(ctx, st, teamID)
		if err != nil {
			return err
		}

		profile, err = st.Profiles.GetProfileByTeamAndEvent(ctx, team.ID, strings.TrimSpace(eventID))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("get profile: %w", err)
		}

		founders, err := st.Participants.CountEnabledFounders(ctx, profile.EventID, team.ID)
		if err != nil {
			return fmt.Errorf("count enabled founders: %w", err)
		}
		eligibleBefore := domain.ListingEligible(profile.Status, founders)

		if profile.Recompute(team.Name) {
			profile.UpdatedAt = s.clock().UTC()
			if err := st.Profiles.UpdateProfile(ctx, profile); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		eligibleAfter := domain.ListingEligible(profile.Status, founders)
		pending = appendListingEdge(pending, profile, eligibleBefore, eligibleAfter)
		return nil
	})
	if err != nil {
		return domain.FundraisingProfile{}, err
	}

	s.emitter.EmitAsync(pending)
	return profile, nil
}

// loadOrCreateProfile returns the (team, event) profile, creating an empty
// draft when none exists yet.
func (s *Service) loadOrCreateProfile(ctx context.Context, st storage.Stores, teamID, eventID string) (domain.FundraisingProfile, error) {
	profile, err := st.Profiles.GetProfileByTeamAndEvent(ctx, teamID, eventID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domain.FundraisingProfile{}, fmt.Errorf("get profile: %w", err)
	}

	profile, err = domain.CreateFundraisingProfile(domain.CreateFundraisingProfileInput{
		TeamID:  teamID,
		EventID: eventID,
	}, s.clock, s.newID)
	if err != nil {
		return domain.FundraisingProfile{}, err
	}
	if err := st.Profiles.CreateProfile(ctx, profile); err != nil {
		return domain.FundraisingProfile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *Service) getTeam(ctx context.Context, st storage.Stores, teamID string) (domain.Team, error) {
	team, err := st.Teams.GetTeam(ctx, strings.TrimSpace(teamID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// appendListingEdge appends a listing add or remove event when eligibility
// flipped across a write.
func appendListingEdge(pending []analytics.Event, profile domain.FundraisingProfile, before, after bool) []analytics.Event {
	if before == after {
		return pending
	}
	name := eventProfileAddedToListing
	if !after {
		name = eventProfileRemovedFromListing
	}
	return append(pending, analytics.Event{
		Name:       name,
		DistinctID: profile.TeamID,
		Properties: map[string]any{
			"event_id":   profile.EventID,
			"team_id":    profile.TeamID,
			"profile_id": profile.ID,
			"status":     domain.PublicationStatusLabel(profile.Status),
		},
	})
}
