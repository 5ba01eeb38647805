package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures across the whole service. Handlers map them
// to HTTP statuses, and the retry wrapper keys off ErrTagTransient.
var (
	// ErrTagConfig marks missing credentials or account linkage.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagValidation marks bad input: invalid status names, issue keys,
	// missing mandatory fields, and upstream 400/404 responses surfaced to
	// the user.
	ErrTagValidation = goerr.NewTag("validation")

	// ErrTagNotFound marks a missing persisted entity.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagForbidden marks an upstream 403, distinct from not-found.
	ErrTagForbidden = goerr.NewTag("forbidden")

	// ErrTagConflict marks a duplicate insert, e.g. a second scrum update
	// for the same day.
	ErrTagConflict = goerr.NewTag("conflict")

	// ErrTagAuth marks failed authentication (bad credentials or token).
	ErrTagAuth = goerr.NewTag("auth")

	// ErrTagTransient marks failures worth retrying: timeouts, 429 and 5xx
	// upstream responses, transport errors.
	ErrTagTransient = goerr.NewTag("transient")

	// ErrTagIntegration marks an external service failure after retries
	// are exhausted.
	ErrTagIntegration = goerr.NewTag("integration")
)
