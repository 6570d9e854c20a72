// Package profile manages the per-user record that ties an external identity
// to trial usage and subscription state, and decides whether a generation
// request is permitted.
package profile

import (
	"time"

	"github.com/google/uuid"
)

// TrialLimit is the number of free generations permitted before an active
// subscription is required.
const TrialLimit = 2

// SubscriptionStatus represents the subscription state of a profile.
type SubscriptionStatus string

const (
	StatusInactive SubscriptionStatus = "inactive"
	StatusActive   SubscriptionStatus = "active"
)

// Profile is the persisted representation of one end user.
type Profile struct {
	ID                uuid.UUID
	UserID            string // identity provider's opaque user id
	Name              string
	AvatarURL         string
	Email             string // unique; webhook correlation key
	PaystackCustomer  string // provider customer code, empty until first successful charge
	TrialUses         int
	Subscription      SubscriptionStatus
	SubscriptionStart *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive returns true when the profile has an active subscription.
func (p *Profile) IsActive() bool {
	return p.Subscription == StatusActive
}

// WithinTrial returns true when the profile still has free generations left.
func (p *Profile) WithinTrial() bool {
	return p.TrialUses < TrialLimit
}

// CanGenerate is the entitlement gate: a generation is permitted while the
// trial is not exhausted or once the subscription is active. Pure function of
// the profile snapshot; the server-side check is authoritative.
func CanGenerate(p *Profile) bool {
	return p.WithinTrial() || p.IsActive()
}
