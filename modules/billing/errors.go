package billing

import "errors"

var (
	// ErrUnknownPlan is returned when a checkout names a plan code the
	// catalog does not contain.
	ErrUnknownPlan = errors.New("unknown plan code")

	// ErrInvalidCatalog is returned when the plan catalog file fails to
	// load or validate.
	ErrInvalidCatalog = errors.New("invalid plan catalog")

	// ErrMalformedEvent is returned when a webhook body cannot be parsed
	// into an event envelope.
	ErrMalformedEvent = errors.New("malformed webhook event")

	// ErrCheckoutFailed is returned when a checkout session could not be
	// opened after the payment client exhausted its retries.
	ErrCheckoutFailed = errors.New("checkout initialization failed")
)
