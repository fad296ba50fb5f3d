// Package errors provides structured error handling with machine-readable codes.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event errors
	CodeEventNotFound Code = "EVENT_NOT_FOUND"

	// Identity errors
	CodeIdentityNotFound      Code = "IDENTITY_NOT_FOUND"
	CodeIdentityEmailRequired Code = "IDENTITY_EMAIL_REQUIRED"
	CodeIdentityNameRequired  Code = "IDENTITY_NAME_REQUIRED"
	CodeIdentityTierTooLow    Code = "IDENTITY_TIER_TOO_LOW"

	// Team errors
	CodeTeamNotFound     Code = "TEAM_NOT_FOUND"
	CodeTeamNameRequired Code = "TEAM_NAME_REQUIRED"
	CodeTeamRoleNotFound Code = "TEAM_ROLE_NOT_FOUND"

	// Participant errors
	CodeParticipantAlreadyExists  Code = "PARTICIPANT_ALREADY_EXISTS"
	CodeParticipantNotFound       Code = "PARTICIPANT_NOT_FOUND"
	CodeParticipantTypeInvalid    Code = "PARTICIPANT_TYPE_INVALID"
	CodeParticipantStatusInvalid  Code = "PARTICIPANT_STATUS_INVALID"
	CodeParticipantTeamNotAllowed Code = "PARTICIPANT_TEAM_NOT_ALLOWED"

	// Team-lead request errors
	CodeLeadRequestNotFounder    Code = "LEAD_REQUEST_NOT_FOUNDER"
	CodeLeadRequestNoTeam        Code = "LEAD_REQUEST_NO_TEAM"
	CodeLeadRequestAlreadyLead   Code = "LEAD_REQUEST_ALREADY_LEAD"
	CodeLeadRequestPending       Code = "LEAD_REQUEST_PENDING"
	CodeLeadRequestNotRequested  Code = "LEAD_REQUEST_NOT_REQUESTED"
	CodeLeadReviewDecisionNeeded Code = "LEAD_REVIEW_DECISION_NEEDED"

	// Fundraising profile errors
	CodeProfileAlreadyExists Code = "FUNDRAISING_PROFILE_ALREADY_EXISTS"
	CodeProfileNotFound      Code = "FUNDRAISING_PROFILE_NOT_FOUND"

	// Upload reference errors
	CodeUploadNotFound     Code = "UPLOAD_NOT_FOUND"
	CodeUploadKindMismatch Code = "UPLOAD_KIND_MISMATCH"

	// Import errors
	CodeImportEventRequired Code = "IMPORT_EVENT_REQUIRED"
	CodeImportEmptyBatch    Code = "IMPORT_EMPTY_BATCH"
	CodeImportRowInvalid    Code = "IMPORT_ROW_INVALID"

	// List/query errors
	CodeListFilterInvalid    Code = "LIST_FILTER_INVALID"
	CodeListOrderByInvalid   Code = "LIST_ORDER_BY_INVALID"
	CodeListPageTokenInvalid Code = "LIST_PAGE_TOKEN_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeIdentityEmailRequired,
		CodeIdentityNameRequired,
		CodeIdentityTierTooLow,
		CodeTeamNameRequired,
		CodeParticipantTypeInvalid,
		CodeParticipantStatusInvalid,
		CodeParticipantTeamNotAllowed,
		CodeLeadReviewDecisionNeeded,
		CodeUploadKindMismatch,
		CodeImportEventRequired,
		CodeImportEmptyBatch,
		CodeImportRowInvalid,
		CodeListFilterInvalid,
		CodeListOrderByInvalid,
		CodeListPageTokenInvalid:
		return codes.InvalidArgument

	// AlreadyExists - uniqueness conflicts, duplicate pending requests
	case CodeParticipantAlreadyExists,
		CodeProfileAlreadyExists,
		CodeLeadRequestPending:
		return codes.AlreadyExists

	// FailedPrecondition - prerequisite state not met
	case CodeLeadRequestNotFounder,
		CodeLeadRequestNoTeam,
		CodeLeadRequestAlreadyLead,
		CodeLeadRequestNotRequested:
		return codes.FailedPrecondition

	// NotFound - missing entities
	case CodeEventNotFound,
		CodeIdentityNotFound,
		CodeTeamNotFound,
		CodeTeamRoleNotFound,
		CodeParticipantNotFound,
		CodeProfileNotFound,
		CodeUploadNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
