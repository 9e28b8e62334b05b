package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrMissingURL is returned when a site root URL is empty.
	ErrMissingURL = errors.New("missing site URL: main documentation and proposal index URLs are required")

	// ErrInvalidOutput is returned for an unknown --output value.
	ErrInvalidOutput = errors.New("invalid output: must be one of pretty, file, markdown, json")

	// ErrInvalidFetchFailurePolicy is returned for an unknown --on-fetch-error value.
	ErrInvalidFetchFailurePolicy = errors.New("invalid fetch failure policy: must be abort or skip")

	// ErrEmptyArchiveSuffix is returned when the archive suffix is empty.
	// An empty suffix would match the first link of the downloads table.
	ErrEmptyArchiveSuffix = errors.New("invalid archive suffix: must not be empty")

	// ErrEmptyStatusSet is returned when a status table override maps a code
	// to no statuses.
	ErrEmptyStatusSet = errors.New("invalid status table: expected status sets must not be empty")

	// ErrMissingBaseDir is returned when no base directory is configured.
	ErrMissingBaseDir = errors.New("missing base directory")
)
