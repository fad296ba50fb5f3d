package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/venturehq/demoday/internal/platform/id"
)

// PublicationStatus represents the derived publication state of a
// fundraising profile. It is always recomputed from current materials,
// never set directly.
type PublicationStatus int

const (
	// PublicationStatusDraft indicates incomplete pitch materials.
	PublicationStatusDraft PublicationStatus = iota
	// PublicationStatusPublished indicates complete, publishable materials.
	PublicationStatusPublished
)

// FundraisingProfile is a team's per-event pitch-materials container.
type FundraisingProfile struct {
	ID               string
	TeamID           string
	EventID          string
	OnePagerUploadID string
	VideoUploadID    string
	Description      string
	Status           PublicationStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DerivePublicationStatus computes the publication status from current
// materials: PUBLISHED iff the team name is non-empty and both upload
// references are set.
func DerivePublicationStatus(teamName, onePagerUploadID, videoUploadID string) PublicationStatus {
	if strings.TrimSpace(teamName) == "" {
		return PublicationStatusDraft
	}
	if strings.TrimSpace(onePagerUploadID) == "" || strings.TrimSpace(videoUploadID) == "" {
		return PublicationStatusDraft
	}
	return PublicationStatusPublished
}

// Recompute re-derives the profile's publication status against the team
// name and reports whether the status changed.
func (p *FundraisingProfile) Recompute(teamName string) bool {
	derived := DerivePublicationStatus(teamName, p.OnePagerUploadID, p.VideoUploadID)
	if derived == p.Status {
		return false
	}
	p.Status = derived
	return true
}

// ListingEligible reports the listing-eligibility predicate: a published
// profile backed by at least one enabled, non-deleted founder.
func ListingEligible(status PublicationStatus, enabledFounders int) bool {
	return status == PublicationStatusPublished && enabledFounders > 0
}

// CreateFundraisingProfileInput describes the metadata needed to create a profile.
type CreateFundraisingProfileInput struct {
	TeamID  string
	EventID string
}

// CreateFundraisingProfile creates an empty draft profile for (team, event).
func CreateFundraisingProfile(input CreateFundraisingProfileInput, now func() time.Time, idGenerator func() (string, error)) (FundraisingProfile, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	profileID, err := idGenerator()
	if err != nil {
		return FundraisingProfile{}, fmt.Errorf("generate profile id: %w", err)
	}

	createdAt := now().UTC()
	return FundraisingProfile{
		ID:        profileID,
		TeamID:    strings.TrimSpace(input.TeamID),
		EventID:   strings.TrimSpace(input.EventID),
		Status:    PublicationStatusDraft,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// PublicationStatusLabel returns the string label for a publication status.
func PublicationStatusLabel(status PublicationStatus) string {
	if status == PublicationStatusPublished {
		return "PUBLISHED"
	}
	return "DRAFT"
}

// PublicationStatusFromLabel converts a label to a PublicationStatus value.
func PublicationStatusFromLabel(label string) PublicationStatus {
	if strings.ToUpper(strings.TrimSpace(label)) == "PUBLISHED" {
		return PublicationStatusPublished
	}
	return PublicationStatusDraft
}
