package entities

import "errors"

// Sentinel errors shared across the service. Callers match them with
// errors.Is; repositories wrap the underlying driver error around them
// where extra context helps.
var (
	// ErrNotFound means the file, user or grant does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the principal lacks the required access level
	// for an existing resource.
	ErrForbidden = errors.New("forbidden")

	// ErrQuotaExceeded means a reservation would push storage_used past
	// storage_limit. Nothing is mutated when it is returned.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrConflict covers duplicate username/email and self-share attempts.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput covers malformed request fields rejected before
	// any state is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on bad email/password pairs and
	// on logins against deactivated accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
