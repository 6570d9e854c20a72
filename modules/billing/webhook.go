package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sheetwise/sheetwise/modules/profile"
	"github.com/sheetwise/sheetwise/pkg/paystack"
)

// Charger is the single payment operation the dispatcher needs: a one-shot
// re-charge of a stored authorization.
type Charger interface {
	ChargeAuthorization(ctx context.Context, authorizationCode, email string, amount int64) (*paystack.Charge, error)
}

// Dispatcher validates inbound webhook deliveries and applies the matching
// subscription state transition. Signature failures are the only errors it
// surfaces; everything after a valid signature is acknowledged so the
// provider stops redelivering, with failures logged instead of returned.
type Dispatcher struct {
	secret   string
	profiles profile.Store
	charger  Charger
	plan     Plan
	log      *slog.Logger
	now      func() time.Time
}

// NewDispatcher creates a webhook dispatcher. The secret is the shared key
// the provider signs deliveries with; plan supplies the amount for
// best-effort re-charges.
func NewDispatcher(secret string, profiles profile.Store, charger Charger, plan Plan, log *slog.Logger) *Dispatcher {
	if secret == "" {
		panic("billing: webhook secret is required")
	}
	if profiles == nil {
		panic("billing: profile store is required")
	}
	if charger == nil {
		panic("billing: charger is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		secret:   secret,
		profiles: profiles,
		charger:  charger,
		plan:     plan,
		log:      log,
		now:      time.Now,
	}
}

// Handle processes one raw webhook delivery. The returned error is nil
// whenever the delivery should be acknowledged with 200; signature and
// parse failures surface so the transport layer can answer 400/401 without
// any state having been touched.
func (d *Dispatcher) Handle(ctx context.Context, body []byte, signature string) error {
	if err := paystack.VerifySignature(d.secret, body, signature); err != nil {
		return err
	}

	event, err := ParseEvent(body)
	if err != nil {
		return err
	}

	log := d.log.With("event", event.Kind(), "email", event.CustomerEmail())

	p, err := d.profiles.GetByEmail(ctx, event.CustomerEmail())
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			// Unknown customers are acknowledged without action so the
			// provider does not retry-storm events that will never resolve.
			log.InfoContext(ctx, "webhook for unknown customer, ignored")
			return nil
		}
		log.ErrorContext(ctx, "profile lookup failed, event dropped", "error", err)
		return nil
	}

	if err := d.dispatch(ctx, event, p); err != nil {
		// Accept-and-log: the provider will not usefully retry
		// content-deterministic failures, so the delivery is still
		// acknowledged.
		log.ErrorContext(ctx, "webhook processing failed, event acknowledged anyway",
			"profile_id", p.ID, "error", err)
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, event Event, p *profile.Profile) error {
	log := d.log.With("event", event.Kind(), "profile_id", p.ID)

	switch e := event.(type) {
	case SubscriptionCreated:
		startedAt := e.CreatedAt
		if startedAt.IsZero() {
			startedAt = d.now()
		}
		if err := d.profiles.ActivateSubscription(ctx, p.ID, "", startedAt); err != nil {
			return err
		}
		log.InfoContext(ctx, "subscription activated")
		return nil

	case ChargeSucceeded:
		switch {
		case p.PaystackCustomer == "":
			// First successful charge for this customer: bind the customer
			// code and activate.
			if err := d.profiles.ActivateSubscription(ctx, p.ID, e.CustomerCode, d.now()); err != nil {
				return err
			}
			log.InfoContext(ctx, "first charge processed, subscription activated")
		case p.IsActive() && e.AuthorizationCode != "":
			// Renewal: only the anchor moves.
			if err := d.profiles.RefreshSubscriptionStart(ctx, p.ID, d.now()); err != nil {
				return err
			}
			log.InfoContext(ctx, "renewal charge processed, subscription start refreshed")
		default:
			log.InfoContext(ctx, "charge.success did not match any transition, ignored")
		}
		return nil

	case InvoiceUpdated:
		if !p.IsActive() || e.Status != "success" {
			log.InfoContext(ctx, "invoice.update did not match any transition, ignored")
			return nil
		}
		if err := d.profiles.RefreshSubscriptionStart(ctx, p.ID, d.now()); err != nil {
			return err
		}
		log.InfoContext(ctx, "invoice settled, subscription start refreshed")
		return nil

	case InvoicePaymentFailed:
		if !p.IsActive() || !e.Reusable || e.AuthorizationCode == "" {
			log.InfoContext(ctx, "payment failure without a reusable authorization, ignored")
			return nil
		}
		// Best effort, single attempt. Failure is logged, never propagated,
		// and the subscription state is left untouched either way.
		if _, err := d.charger.ChargeAuthorization(ctx, e.AuthorizationCode, e.Email, d.plan.Amount); err != nil {
			log.WarnContext(ctx, "retry charge failed", "error", err)
		} else {
			log.InfoContext(ctx, "retry charge submitted")
		}
		return nil

	case SubscriptionDisabled:
		if !p.IsActive() {
			log.InfoContext(ctx, "subscription.disable for inactive profile, ignored")
			return nil
		}
		if err := d.profiles.DeactivateSubscription(ctx, p.ID); err != nil {
			return err
		}
		log.InfoContext(ctx, "subscription deactivated")
		return nil

	default:
		log.InfoContext(ctx, "unhandled webhook event kind")
		return nil
	}
}
