package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sheetwise/sheetwise/pkg/identity"
)

// Service exposes profile lookups to HTTP handlers and other modules.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a profile service.
// Panics on a nil store to fail fast during initialization.
func NewService(store Store, log *slog.Logger) *Service {
	if store == nil {
		panic("profile: store is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, log: log}
}

// Fetch returns the caller's profile, creating it lazily on first contact.
// Identities without an email cannot be provisioned and yield
// ErrProfileNotFound; email is the join key for payment webhooks, so a
// profile without one would be unreachable from billing events.
func (s *Service) Fetch(ctx context.Context, id identity.Identity) (*Profile, error) {
	p, err := s.store.GetByUserID(ctx, id.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	if id.Email == "" {
		return nil, ErrProfileNotFound
	}

	p, err = s.store.Upsert(ctx, &Profile{
		UserID:    id.UserID,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
		Email:     id.Email,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "profile created", "user_id", id.UserID)
	return p, nil
}

// Store exposes the underlying store to sibling modules that apply
// subscription state transitions.
func (s *Service) Store() Store {
	return s.store
}
