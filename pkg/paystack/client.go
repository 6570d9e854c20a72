// Package paystack is a thin HTTP client for the Paystack payments API:
// hosted checkout initialization, transaction verification, stored
// authorization charges and webhook signature verification.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sheetwise/sheetwise/pkg/retry"
)

const defaultTimeout = 30 * time.Second

// Client calls the Paystack API with the account's secret key.
type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
	log         *slog.Logger
	initRetry   retry.Policy
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, e.g. for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithInitializeRetry overrides the retry policy used by
// InitializeTransaction. Tests inject a policy with a no-op sleeper.
func WithInitializeRetry(p retry.Policy) Option {
	return func(client *Client) {
		client.initRetry = p
	}
}

// New creates a Paystack client. The checkout initialization path retries up
// to five times with a fixed one second backoff; every other call is a single
// attempt.
func New(cfg Config, log *slog.Logger, opts ...Option) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	client := &Client{
		baseURL:     cfg.BaseURL,
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         log,
		initRetry: retry.Policy{
			MaxAttempts: 5,
			Backoff:     retry.FixedBackoff{Interval: time.Second},
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// InitializeTransaction opens a hosted checkout session for a subscription
// plan. Any failure (transport, non-2xx, rejected status, missing redirect
// URL) is retried until the policy is exhausted; the last error is wrapped
// with ErrInitializationFailed.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*Checkout, error) {
	payload := initializePayload{
		Email:       req.Email,
		Amount:      req.Amount,
		Plan:        req.PlanCode,
		Currency:    req.Currency,
		CallbackURL: c.callbackURL,
		Metadata:    map[string]string{"userId": req.UserID},
	}
	if req.EquivalentAmount != "" {
		payload.CustomFields = []customField{{
			DisplayName:  "Equivalent Amount",
			VariableName: "equivalent_amount",
			Value:        req.EquivalentAmount,
		}}
	}

	var checkout Checkout
	err := c.initRetry.Do(ctx, func(ctx context.Context, attempt int) error {
		c.log.InfoContext(ctx, "initializing paystack transaction",
			"attempt", attempt, "email", req.Email, "plan", req.PlanCode)

		if err := c.post(ctx, "/transaction/initialize", payload, &checkout); err != nil {
			c.log.WarnContext(ctx, "paystack initialization attempt failed",
				"attempt", attempt, "error", err)
			return err
		}
		if checkout.AuthorizationURL == "" {
			err := errors.New("response is missing authorization_url")
			c.log.WarnContext(ctx, "paystack initialization attempt failed",
				"attempt", attempt, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrInitializationFailed, err)
	}

	return &checkout, nil
}

// VerifyTransaction looks up a transaction by its reference. Single attempt:
// it runs on a user-facing redirect path where a failure just routes the
// browser back to a safe page.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	if reference == "" {
		return nil, errors.Join(ErrVerificationFailed, errors.New("reference is required"))
	}

	var tx Transaction
	if err := c.get(ctx, "/transaction/verify/"+reference, &tx); err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}
	if tx.Status != "success" {
		return nil, fmt.Errorf("%w: transaction status %q", ErrVerificationFailed, tx.Status)
	}

	return &tx, nil
}

// ChargeAuthorization charges a previously stored authorization once.
// Failure propagates to the caller, which logs and moves on.
func (c *Client) ChargeAuthorization(ctx context.Context, authorizationCode, email string, amount int64) (*Charge, error) {
	payload := chargePayload{
		AuthorizationCode: authorizationCode,
		Email:             email,
		Amount:            amount,
	}

	var charge Charge
	if err := c.post(ctx, "/transaction/charge_authorization", payload, &charge); err != nil {
		return nil, errors.Join(ErrChargeFailed, err)
	}

	return &charge, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("malformed response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("api error: status %d: %s", resp.StatusCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("malformed response data: %w", err)
		}
	}
	return nil
}
