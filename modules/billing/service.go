package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sheetwise/sheetwise/modules/profile"
	"github.com/sheetwise/sheetwise/pkg/identity"
	"github.com/sheetwise/sheetwise/pkg/paystack"
)

// Config holds billing settings sourced from the environment.
type Config struct {
	PlansPath  string `env:"BILLING_PLANS_PATH" envDefault:"billing.yml"` // PlansPath locates the yaml plan catalog.
	SuccessURL string `env:"BILLING_SUCCESS_URL,required"`                // SuccessURL is where the browser lands after a confirmed payment.
	FailureURL string `env:"BILLING_FAILURE_URL,required"`                // FailureURL is the safe default for every callback failure path.
}

// Payments is the slice of the payment client the service needs.
type Payments interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.Checkout, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// Service drives checkout initiation and the synchronous payment callback.
type Service struct {
	cfg      Config
	catalog  *Catalog
	payments Payments
	profiles *profile.Service
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a billing service.
// Panics on nil dependencies to fail fast during initialization.
func NewService(cfg Config, catalog *Catalog, payments Payments, profiles *profile.Service, log *slog.Logger) *Service {
	if catalog == nil {
		panic("billing: plan catalog is required")
	}
	if payments == nil {
		panic("billing: payment client is required")
	}
	if profiles == nil {
		panic("billing: profile service is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		cfg:      cfg,
		catalog:  catalog,
		payments: payments,
		profiles: profiles,
		log:      log,
		now:      time.Now,
	}
}

// Checkout opens a hosted checkout session for the caller and returns the
// URL to redirect the browser to. An empty plan code selects the default
// plan; the profile is created lazily when this is the user's first contact.
func (s *Service) Checkout(ctx context.Context, id identity.Identity, planCode string) (string, error) {
	plan, err := s.catalog.Get(planCode)
	if err != nil {
		return "", err
	}

	p, err := s.profiles.Fetch(ctx, id)
	if err != nil {
		return "", err
	}

	checkout, err := s.payments.InitializeTransaction(ctx, paystack.InitializeRequest{
		UserID:           p.UserID,
		Email:            p.Email,
		PlanCode:         plan.Code,
		Amount:           plan.Amount,
		Currency:         plan.Currency,
		EquivalentAmount: plan.Equivalent,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout initialization failed",
			"profile_id", p.ID, "plan", plan.Code, "error", err)
		return "", errors.Join(ErrCheckoutFailed, err)
	}

	s.log.InfoContext(ctx, "checkout session opened",
		"profile_id", p.ID, "plan", plan.Code, "reference", checkout.Reference)
	return checkout.AuthorizationURL, nil
}

// HandleCallback confirms a checkout synchronously and returns the URL the
// browser should be redirected to. Every failure path lands on the
// configured safe default; the webhook dispatcher remains the source of
// truth and may arrive before or after this call.
func (s *Service) HandleCallback(ctx context.Context, reference string) string {
	if reference == "" {
		s.log.WarnContext(ctx, "payment callback without a reference")
		return s.cfg.FailureURL
	}

	tx, err := s.payments.VerifyTransaction(ctx, reference)
	if err != nil {
		s.log.WarnContext(ctx, "payment callback verification failed",
			"reference", reference, "error", err)
		return s.cfg.FailureURL
	}

	p, err := s.profiles.Store().GetByEmail(ctx, tx.Customer.Email)
	if err != nil {
		s.log.WarnContext(ctx, "payment callback for unknown customer",
			"reference", reference, "error", err)
		return s.cfg.FailureURL
	}

	if err := s.profiles.Store().ActivateSubscription(ctx, p.ID, tx.Customer.CustomerCode, s.now()); err != nil {
		s.log.ErrorContext(ctx, "payment callback activation failed",
			"reference", reference, "profile_id", p.ID, "error", err)
		return s.cfg.FailureURL
	}

	s.log.InfoContext(ctx, "payment confirmed via callback",
		"reference", reference, "profile_id", p.ID)
	return s.cfg.SuccessURL
}
