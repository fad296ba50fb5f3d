package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/venturehq/demoday/internal/demoday/domain"
)

// ProfilesForViewer returns the event's listing-eligible fundraising
// profiles in the viewer's personalized order. The order is a stable
// per-viewer shuffle: each profile is ranked by a hash of the viewer seed
// and the team key, so the same viewer always sees the same order while
// different viewers see different ones.
func (s *Service) ProfilesForViewer(ctx context.Context, eventID, viewerID string) ([]domain.FundraisingProfile, error) {
	profiles, err := s.stores.Profiles.ListEligibleProfiles(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return nil, fmt.Errorf("list eligible profiles: %w", err)
	}
	sortProfilesForViewer(strings.TrimSpace(viewerID), profiles)
	return profiles, nil
}

// sortProfilesForViewer orders profiles by ascending viewer hash, breaking
// ties on the team ID so the order stays total.
func sortProfilesForViewer(seed string, profiles []domain.FundraisingProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		hi := viewerHash(seed, profiles[i].TeamID)
		hj := viewerHash(seed, profiles[j].TeamID)
		if hi != hj {
			return hi < hj
		}
		return profiles[i].TeamID < profiles[j].TeamID
	})
}

// viewerHash computes the 32-bit FNV-1a rank of a team for one viewer.
func viewerHash(seed, teamKey string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(seed))
	h.Write([]byte{'|'})
	h.Write([]byte(teamKey))
	return h.Sum32()
}
