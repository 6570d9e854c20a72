package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store defines profile persistence. Implementations are injected into
// services so handlers never touch a process-global database handle.
type Store interface {
	// GetByUserID retrieves a profile by the identity provider's user id.
	// Returns ErrProfileNotFound if no profile exists.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// GetByEmail retrieves a profile by email, the webhook correlation key.
	GetByEmail(ctx context.Context, email string) (*Profile, error)

	// Upsert creates the profile on first contact or refreshes the identity
	// fields on subsequent calls, returning the stored row.
	Upsert(ctx context.Context, p *Profile) (*Profile, error)

	// IncrementTrialUses bumps the trial counter by one, but only if the
	// stored value still matches the value the caller read. Returns false
	// when the compare-and-swap lost a race; losing is accepted.
	IncrementTrialUses(ctx context.Context, id uuid.UUID, seen int) (bool, error)

	// ActivateSubscription marks the subscription active and records the
	// start time. A non-empty customerCode replaces the stored one.
	ActivateSubscription(ctx context.Context, id uuid.UUID, customerCode string, startedAt time.Time) error

	// RefreshSubscriptionStart moves the renewal anchor without touching
	// the rest of the subscription state.
	RefreshSubscriptionStart(ctx context.Context, id uuid.UUID, startedAt time.Time) error

	// DeactivateSubscription marks the subscription inactive.
	DeactivateSubscription(ctx context.Context, id uuid.UUID) error
}

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a postgres-backed profile store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("profile: pgx pool is required")
	}
	return &PGStore{pool: pool}
}

const profileColumns = `id, user_id, name, avatar_url, email, paystack_customer_code,
	trial_uses, subscription, subscription_start, created_at, updated_at`

func (s *PGStore) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
	return scanProfile(row)
}

func (s *PGStore) Upsert(ctx context.Context, p *Profile) (*Profile, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, name, avatar_url, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = now()
		RETURNING `+profileColumns,
		p.UserID, p.Name, p.AvatarURL, p.Email)
	return scanProfile(row)
}

func (s *PGStore) IncrementTrialUses(ctx context.Context, id uuid.UUID, seen int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET trial_uses = trial_uses + 1, updated_at = now()
		WHERE id = $1 AND trial_uses = $2`,
		id, seen)
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) ActivateSubscription(ctx context.Context, id uuid.UUID, customerCode string, startedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET subscription = 'active',
			subscription_start = $2,
			paystack_customer_code = COALESCE(NULLIF($3, ''), paystack_customer_code),
			updated_at = now()
		WHERE id = $1`,
		id, startedAt, customerCode)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *PGStore) RefreshSubscriptionStart(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET subscription_start = $2, updated_at = now()
		WHERE id = $1`,
		id, startedAt)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *PGStore) DeactivateSubscription(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE profiles
		SET subscription = 'inactive', updated_at = now()
		WHERE id = $1`,
		id)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var name, avatarURL, customerCode *string
	err := row.Scan(&p.ID, &p.UserID, &name, &avatarURL, &p.Email, &customerCode,
		&p.TrialUses, &p.Subscription, &p.SubscriptionStart, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if name != nil {
		p.Name = *name
	}
	if avatarURL != nil {
		p.AvatarURL = *avatarURL
	}
	if customerCode != nil {
		p.PaystackCustomer = *customerCode
	}
	return &p, nil
}
