// Package service implements the demo-day business operations: the
// participant registry, the fundraising profile manager, the team-lead
// workflow, the bulk investor importer, and personalized listing order.
package service

import (
	"sync"
	"time"

	"github.com/venturehq/demoday/internal/analytics"
	"github.com/venturehq/demoday/internal/demoday/storage"
	"github.com/venturehq/demoday/internal/notifications"
	apperrors "github.com/venturehq/demoday/internal/platform/errors"
	"github.com/venturehq/demoday/internal/platform/id"
)

// Analytics event names. Emitted after commit, never inside a transaction.
const (
	eventParticipantAdded          = "participant_added"
	eventParticipantStatusChanged  = "participant_status_changed"
	eventProfileAddedToListing     = "fundraising_profile_added_to_listing"
	eventProfileRemovedFromListing = "fundraising_profile_removed_from_listing"
)

var (
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = apperrors.New(apperrors.CodeEventNotFound, "event not found")
	// ErrIdentityNotFound indicates the referenced identity does not exist.
	ErrIdentityNotFound = apperrors.New(apperrors.CodeIdentityNotFound, "identity not found")
	// ErrIdentityTierTooLow indicates an add-by-reference below the required tier.
	ErrIdentityTierTooLow = apperrors.New(apperrors.CodeIdentityTierTooLow, "identity tier is too low to be added by reference")
	// ErrTeamNotFound indicates the referenced team does not exist.
	ErrTeamNotFound = apperrors.New(apperrors.CodeTeamNotFound, "team not found")
	// ErrTeamRoleNotFound indicates the identity holds no membership in the team.
	ErrTeamRoleNotFound = apperrors.New(apperrors.CodeTeamRoleNotFound, "team membership not found")
	// ErrParticipantExists indicates the identity is already registered for the event.
	ErrParticipantExists = apperrors.New(apperrors.CodeParticipantAlreadyExists, "participant already exists for this event")
	// ErrParticipantNotFound indicates the referenced participant does not exist.
	ErrParticipantNotFound = apperrors.New(apperrors.CodeParticipantNotFound, "participant not found")
	// ErrProfileNotFound indicates no fundraising profile exists for (team, event).
	ErrProfileNotFound = apperrors.New(apperrors.CodeProfileNotFound, "fundraising profile not found")
	// ErrLeadReviewDecisionNeeded indicates a review without an explicit decision.
	ErrLeadReviewDecisionNeeded = apperrors.New(apperrors.CodeLeadReviewDecisionNeeded, "a lead request review requires an approve or reject decision")
	// ErrImportEventRequired indicates an import without a target event.
	ErrImportEventRequired = apperrors.New(apperrors.CodeImportEventRequired, "an event is required to import investors")
	// ErrImportEmptyBatch indicates an import with no records.
	ErrImportEmptyBatch = apperrors.New(apperrors.CodeImportEmptyBatch, "import batch contains no records")
)

// Service implements the demo-day operations on top of the storage contracts.
type Service struct {
	tx         storage.TxRunner
	stores     storage.Stores
	emitter    *analytics.Emitter
	notifier   notifications.Sender
	uploads    UploadValidator
	clock      func() time.Time
	newID      func() (string, error)
	background sync.WaitGroup
}

// Deps carries the service collaborators. Tx and Stores are required; nil
// optional collaborators fall back to no-op or standard implementations.
type Deps struct {
	Tx        storage.TxRunner
	Stores    storage.Stores
	Analytics analytics.Sink
	Notifier  notifications.Sender
	Uploads   UploadValidator
	Clock     func() time.Time
	NewID     func() (string, error)
}

// New creates a service from its dependencies.
func New(deps Deps) *Service {
	if deps.Analytics == nil {
		deps.Analytics = analytics.NopSink{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NopSender{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = id.NewID
	}
	return &Service{
		tx:       deps.Tx,
		stores:   deps.Stores,
		emitter:  analytics.NewEmitter(deps.Analytics),
		notifier: deps.Notifier,
		uploads:  deps.Uploads,
		clock:    deps.Clock,
		newID:    deps.NewID,
	}
}

// Drain blocks until background analytics and notification deliveries
// finish. Intended for shutdown and tests.
func (s *Service) Drain() {
	s.emitter.Wait()
	s.background.Wait()
}
