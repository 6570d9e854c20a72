package billing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sheetwise/sheetwise/pkg/identity"
	"github.com/sheetwise/sheetwise/pkg/paystack"
	"github.com/sheetwise/sheetwise/pkg/response"
)

// maxWebhookBody bounds how much of a webhook delivery is read.
const maxWebhookBody = 1 << 20

type checkoutRequest struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
}

type webhookAck struct {
	Received bool `json:"received"`
}

// Routes registers the billing endpoints. Checkout requires the caller's
// identity, so authn wraps only that route; the callback and webhook are
// provider-facing and unauthenticated.
func Routes(svc *Service, d *Dispatcher, authn func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.With(authn).Post("/checkout", handleCheckout(svc))
		r.Get("/callback", handleCallback(svc))
		r.Post("/webhook/paystack", handleWebhook(d))
	}
}

func handleCheckout(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			response.Error(w, response.ErrUnauthorized)
			return
		}

		// The body is optional: an absent or empty plan selects the default.
		var req checkoutRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		url, err := svc.Checkout(r.Context(), id, req.Plan)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnknownPlan):
				response.Error(w, response.NewHTTPError(http.StatusUnprocessableEntity,
					"unknown_plan", "The requested plan does not exist."))
			default:
				response.Error(w, response.ErrInternalServerError)
			}
			return
		}

		response.JSON(w, http.StatusOK, checkoutResponse{AuthorizationURL: url})
	}
}

func handleCallback(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := r.URL.Query().Get("reference")
		response.Redirect(w, r, svc.HandleCallback(r.Context(), reference))
	}
}

func handleWebhook(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			response.Error(w, response.ErrBadRequest)
			return
		}

		err = d.Handle(r.Context(), body, r.Header.Get(paystack.SignatureHeader))
		switch {
		case err == nil:
			response.JSON(w, http.StatusOK, webhookAck{Received: true})
		case errors.Is(err, paystack.ErrMissingSignature), errors.Is(err, ErrMalformedEvent):
			response.Error(w, response.ErrBadRequest)
		case errors.Is(err, paystack.ErrInvalidSignature):
			response.Error(w, response.ErrUnauthorized)
		default:
			response.Error(w, response.ErrInternalServerError)
		}
	}
}
