package identity

import "errors"

var (
	ErrMissingSigningSecret = errors.New("identity signing secret is required")
	ErrInvalidToken         = errors.New("invalid identity token")
	ErrMissingSubject       = errors.New("identity token has no subject")
)
