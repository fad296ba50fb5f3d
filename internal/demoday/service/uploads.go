package service

import (
	"context"
)

// UploadKind identifies what a stored upload is expected to be.
type UploadKind string

const (
	// UploadKindOnePager is a pitch one-pager document.
	UploadKindOnePager UploadKind = "one_pager"
	// UploadKindVideo is a pitch video.
	UploadKindVideo UploadKind = "video"
)

// UploadValidator checks that an upload reference exists and matches the
// expected kind before it is attached to a fundraising profile. Validators
// return an error carrying CodeUploadNotFound or CodeUploadKindMismatch.
type UploadValidator interface {
	ValidateUpload(ctx context.Context, uploadID string, kind UploadKind) error
}

// validateUpload runs the configured validator, if any. An empty upload ID
// is a detach and never validated.
func (s *Service) validateUpload(ctx context.Context, uploadID string, kind UploadKind) error {
	if s.uploads == nil || uploadID == "" {
		return nil
	}
	return s.uploads.ValidateUpload(ctx, uploadID, kind)
}
