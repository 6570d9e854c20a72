package generation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sheetwise/sheetwise/modules/profile"
	"github.com/sheetwise/sheetwise/pkg/identity"
)

// RecentQueriesLimit is how many queries a history listing returns.
const RecentQueriesLimit = 5

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

// Service orchestrates the generation flow: entitlement gate, model call,
// persistence and trial accounting.
type Service struct {
	store    Store
	gateway  Gateway
	profiles *profile.Service
	log      *slog.Logger
}

// NewService creates a generation service.
// Panics on nil dependencies to fail fast during initialization.
func NewService(store Store, gateway Gateway, profiles *profile.Service, log *slog.Logger) *Service {
	if store == nil {
		panic("generation: store is required")
	}
	if gateway == nil {
		panic("generation: gateway is required")
	}
	if profiles == nil {
		panic("generation: profile service is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, gateway: gateway, profiles: profiles, log: log}
}

// Generate runs one generation for the calling identity: validates the
// request, checks the entitlement gate against the freshest profile
// snapshot, calls the model, persists the query and finally counts a trial
// use when the caller is still on trial.
//
// The trial counter is bumped with a compare-and-swap against the snapshot
// read before the model call; a lost race is accepted and the generation is
// still returned.
func (s *Service) Generate(ctx context.Context, id identity.Identity, input string, kind OutputKind) (*Query, error) {
	input = strings.TrimSpace(input)
	if input == "" || len(input) > MaxInputLen {
		return nil, ErrInvalidInput
	}
	if _, err := BuildPrompt(input, kind); err != nil {
		return nil, err
	}

	p, err := s.profiles.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !profile.CanGenerate(p) {
		return nil, profile.ErrTrialExhausted
	}
	onTrial := p.WithinTrial() && !p.IsActive()

	output, err := s.gateway.Generate(ctx, input, kind)
	if err != nil {
		return nil, err
	}

	q, err := s.store.Create(ctx, &Query{
		ProfileID:  p.ID,
		Input:      input,
		Output:     output,
		OutputKind: kind,
	})
	if err != nil {
		return nil, err
	}

	if onTrial {
		swapped, err := s.profiles.Store().IncrementTrialUses(ctx, p.ID, p.TrialUses)
		if err != nil {
			s.log.ErrorContext(ctx, "failed to count trial use",
				"profile_id", p.ID, "error", err)
		} else if !swapped {
			s.log.WarnContext(ctx, "trial counter moved concurrently, increment skipped",
				"profile_id", p.ID, "seen", p.TrialUses)
		}
	}

	return q, nil
}

// RecentQueries returns the caller's newest queries, most recent first.
func (s *Service) RecentQueries(ctx context.Context, id identity.Identity) ([]Query, error) {
	p, err := s.profiles.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.store.ListRecent(ctx, p.ID, RecentQueriesLimit)
}

// Rate records a quality rating on one of the caller's own queries. Queries
// owned by someone else are indistinguishable from missing ones.
func (s *Service) Rate(ctx context.Context, id identity.Identity, queryID uuid.UUID, rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}

	p, err := s.profiles.Fetch(ctx, id)
	if err != nil {
		return err
	}

	q, err := s.store.GetByID(ctx, queryID)
	if err != nil {
		return err
	}
	if q.ProfileID != p.ID {
		return ErrQueryNotFound
	}

	return s.store.SetRating(ctx, queryID, rating)
}
