package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrTrialExhausted  = errors.New("trial limit reached")
	ErrStoreFailure    = errors.New("profile store failure")
)
