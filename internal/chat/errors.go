package chat

import "errors"

// Router error taxonomy. Validation errors go back to the originating
// connection only and never tear it down.
var (
	ErrUnauthenticated  = errors.New("Not authenticated")
	ErrIdentityNotFound = errors.New("User not found")
	ErrEmptyMessage     = errors.New("Message content or media is required")
	ErrAmbiguousTarget  = errors.New("Exactly one of receiver_id or group_id is required")
	ErrForbidden        = errors.New("Not allowed")
	ErrPersistence      = errors.New("Failed to store message")
)
