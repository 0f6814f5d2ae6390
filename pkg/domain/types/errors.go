package types

import "errors"

var (
	// ErrRateLimited is returned when the GitHub API has no remaining requests.
	ErrRateLimited = errors.New("github api is rate limited")

	// ErrInvalidConfig is returned when the generation config is malformed.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingIdentifier is returned when a generator needs a repository or
	// organization that the entry does not provide.
	ErrMissingIdentifier = errors.New("missing identifier")
)
