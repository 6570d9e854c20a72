package generation

import "errors"

var (
	// ErrUnknownOutputKind is returned when the requested output kind
	// is not one of the supported values.
	ErrUnknownOutputKind = errors.New("unknown output kind")

	// ErrInvalidInput is returned when the input text is empty or too long.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAPIKey is returned when the gateway is constructed
	// without an API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrGenerationFailed is returned when the upstream model call fails
	// or produces no usable content.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrQueryNotFound is returned when no query matches the given id.
	ErrQueryNotFound = errors.New("query not found")

	// ErrInvalidRating is returned when a rating falls outside the
	// accepted range.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrStoreFailure indicates an underlying storage error.
	ErrStoreFailure = errors.New("query store failure")
)
