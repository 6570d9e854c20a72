package paystack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetwise/sheetwise/pkg/paystack"
	"github.com/sheetwise/sheetwise/pkg/retry"
)

// fastRetry mirrors the production policy without real sleeps.
func fastRetry() retry.Policy {
	return retry.Policy{
		MaxAttempts: 5,
		Backoff:     retry.FixedBackoff{Interval: time.Second},
		Sleep: func(ctx context.Context, d time.Duration) error {
			return nil
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *paystack.Client {
	t.Helper()
	client, err := paystack.New(paystack.Config{
		SecretKey:   "sk_test_secret",
		BaseURL:     baseURL,
		CallbackURL: "https://app.example.com/api/callback",
	}, nil, paystack.WithInitializeRetry(fastRetry()))
	require.NoError(t, err)
	return client
}

func TestInitializeTransaction(t *testing.T) {
	t.Parallel()

	t.Run("returns checkout on success", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/transaction/initialize", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]any{
					"authorization_url": "https://checkout.paystack.com/abc123",
					"access_code":       "abc123",
					"reference":         "ref_1",
				},
			})
		}))
		defer srv.Close()

		checkout, err := newTestClient(t, srv.URL).InitializeTransaction(context.Background(), paystack.InitializeRequest{
			UserID:           "user_1",
			Email:            "jane@example.com",
			PlanCode:         "PLN_monthly",
			Amount:           130000,
			Currency:         "KES",
			EquivalentAmount: "USD 10 (KES 1300 at ~130 KES/USD)",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://checkout.paystack.com/abc123", checkout.AuthorizationURL)
		assert.Equal(t, "ref_1", checkout.Reference)
		assert.Equal(t, "Bearer sk_test_secret", gotAuth)
		assert.Equal(t, "jane@example.com", gotBody["email"])
		assert.Equal(t, "PLN_monthly", gotBody["plan"])
		assert.Equal(t, "https://app.example.com/api/callback", gotBody["callback_url"])
		assert.Equal(t, map[string]any{"userId": "user_1"}, gotBody["metadata"])
	})

	t.Run("retries transient failures up to five attempts", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusBadGateway)
				_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "gateway error"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"authorization_url": "https://checkout.paystack.com/ok", "reference": "ref_2"},
			})
		}))
		defer srv.Close()

		checkout, err := newTestClient(t, srv.URL).InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email: "jane@example.com", Amount: 130000,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, "https://checkout.paystack.com/ok", checkout.AuthorizationURL)
	})

	t.Run("exhausts retries and reports terminal error", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "down"})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email: "jane@example.com", Amount: 130000,
		})

		require.ErrorIs(t, err, paystack.ErrInitializationFailed)
		assert.Equal(t, 5, attempts)
	})

	t.Run("missing authorization_url is a failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "data": map[string]any{"reference": "ref_3"}})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).InitializeTransaction(context.Background(), paystack.InitializeRequest{
			Email: "jane@example.com", Amount: 130000,
		})

		require.ErrorIs(t, err, paystack.ErrInitializationFailed)
	})
}

func TestVerifyTransaction(t *testing.T) {
	t.Parallel()

	t.Run("returns transaction on success", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transaction/verify/ref_1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data": map[string]any{
					"status":    "success",
					"reference": "ref_1",
					"amount":    130000,
					"customer":  map[string]any{"email": "jane@example.com", "customer_code": "CUS_abc"},
				},
			})
		}))
		defer srv.Close()

		tx, err := newTestClient(t, srv.URL).VerifyTransaction(context.Background(), "ref_1")

		require.NoError(t, err)
		assert.Equal(t, "success", tx.Status)
		assert.Equal(t, "CUS_abc", tx.Customer.CustomerCode)
	})

	t.Run("non-success transaction status fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"status": "abandoned", "reference": "ref_1"},
			})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).VerifyTransaction(context.Background(), "ref_1")
		require.ErrorIs(t, err, paystack.ErrVerificationFailed)
	})

	t.Run("single attempt only", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": false})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).VerifyTransaction(context.Background(), "ref_1")
		require.ErrorIs(t, err, paystack.ErrVerificationFailed)
		assert.Equal(t, 1, attempts)
	})

	t.Run("empty reference rejected without network call", func(t *testing.T) {
		t.Parallel()

		_, err := newTestClient(t, "http://127.0.0.1:0").VerifyTransaction(context.Background(), "")
		require.ErrorIs(t, err, paystack.ErrVerificationFailed)
	})
}

func TestChargeAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("returns charge on success", func(t *testing.T) {
		t.Parallel()

		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transaction/charge_authorization", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"status": "success", "reference": "ref_9"},
			})
		}))
		defer srv.Close()

		charge, err := newTestClient(t, srv.URL).ChargeAuthorization(context.Background(), "AUTH_x1", "jane@example.com", 130000)

		require.NoError(t, err)
		assert.Equal(t, "success", charge.Status)
		assert.Equal(t, "AUTH_x1", gotBody["authorization_code"])
		assert.Equal(t, float64(130000), gotBody["amount"])
	})

	t.Run("propagates failure after single attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "invalid authorization"})
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).ChargeAuthorization(context.Background(), "AUTH_x1", "jane@example.com", 130000)
		require.ErrorIs(t, err, paystack.ErrChargeFailed)
		assert.Equal(t, 1, attempts)
	})
}
