package billing

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is one webhook notification, parsed once at the boundary into the
// variant for its kind. Each variant carries only the fields its handler
// reads; handlers never probe optional envelope fields.
type Event interface {
	// Kind returns the provider's event name.
	Kind() string
	// CustomerEmail is the join key used to resolve the local profile.
	CustomerEmail() string
}

// SubscriptionCreated announces a newly created subscription.
type SubscriptionCreated struct {
	Email     string
	CreatedAt time.Time // zero when the envelope carried no timestamp
}

func (SubscriptionCreated) Kind() string            { return "subscription.create" }
func (e SubscriptionCreated) CustomerEmail() string { return e.Email }

// ChargeSucceeded announces a successful charge, either the first one for a
// customer or a renewal.
type ChargeSucceeded struct {
	Email             string
	CustomerCode      string
	AuthorizationCode string
	Reusable          bool
}

func (ChargeSucceeded) Kind() string            { return "charge.success" }
func (e ChargeSucceeded) CustomerEmail() string { return e.Email }

// InvoiceUpdated announces an invoice status change on a subscription.
type InvoiceUpdated struct {
	Email  string
	Status string
}

func (InvoiceUpdated) Kind() string            { return "invoice.update" }
func (e InvoiceUpdated) CustomerEmail() string { return e.Email }

// InvoicePaymentFailed announces a failed renewal charge. When the stored
// authorization is reusable the dispatcher attempts one best-effort
// re-charge.
type InvoicePaymentFailed struct {
	Email             string
	AuthorizationCode string
	Reusable          bool
}

func (InvoicePaymentFailed) Kind() string            { return "invoice.payment_failed" }
func (e InvoicePaymentFailed) CustomerEmail() string { return e.Email }

// SubscriptionDisabled announces a cancelled or expired subscription.
type SubscriptionDisabled struct {
	Email string
}

func (SubscriptionDisabled) Kind() string            { return "subscription.disable" }
func (e SubscriptionDisabled) CustomerEmail() string { return e.Email }

// UnknownEvent is any event kind outside the recognized set. Logged and
// acknowledged without action.
type UnknownEvent struct {
	Name  string
	Email string
}

func (e UnknownEvent) Kind() string          { return e.Name }
func (e UnknownEvent) CustomerEmail() string { return e.Email }

// eventEnvelope is the provider's wire format, wide enough for every kind.
type eventEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Status    string `json:"status"`
		CreatedAt string `json:"created_at"`
		Customer  struct {
			Email        string `json:"email"`
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Authorization struct {
			AuthorizationCode string `json:"authorization_code"`
			Reusable          bool   `json:"reusable"`
		} `json:"authorization"`
	} `json:"data"`
}

// ParseEvent parses a raw webhook body into its event variant. Bodies that
// are not a valid envelope fail with ErrMalformedEvent.
func ParseEvent(body []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event name", ErrMalformedEvent)
	}

	email := env.Data.Customer.Email
	switch env.Event {
	case "subscription.create":
		var createdAt time.Time
		if env.Data.CreatedAt != "" {
			if ts, err := time.Parse(time.RFC3339, env.Data.CreatedAt); err == nil {
				createdAt = ts
			}
		}
		return SubscriptionCreated{Email: email, CreatedAt: createdAt}, nil
	case "charge.success":
		return ChargeSucceeded{
			Email:             email,
			CustomerCode:      env.Data.Customer.CustomerCode,
			AuthorizationCode: env.Data.Authorization.AuthorizationCode,
			Reusable:          env.Data.Authorization.Reusable,
		}, nil
	case "invoice.update":
		return InvoiceUpdated{Email: email, Status: env.Data.Status}, nil
	case "invoice.payment_failed":
		return InvoicePaymentFailed{
			Email:             email,
			AuthorizationCode: env.Data.Authorization.AuthorizationCode,
			Reusable:          env.Data.Authorization.Reusable,
		}, nil
	case "subscription.disable":
		return SubscriptionDisabled{Email: email}, nil
	default:
		return UnknownEvent{Name: env.Event, Email: email}, nil
	}
}
