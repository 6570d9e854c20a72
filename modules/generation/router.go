package generation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sheetwise/sheetwise/modules/profile"
	"github.com/sheetwise/sheetwise/pkg/identity"
	"github.com/sheetwise/sheetwise/pkg/response"
	"github.com/sheetwise/sheetwise/pkg/validator"
)

type generateRequest struct {
	Input      string     `json:"input"`
	OutputKind OutputKind `json:"outputType"`
}

type rateRequest struct {
	QueryID string `json:"queryId"`
	Rating  int    `json:"rating"`
}

type rateResponse struct {
	Success bool `json:"success"`
	Rating  int  `json:"rating"`
}

// Routes registers the generation endpoints on a router that already runs
// the identity middleware. The rate-limit middleware, if any, wraps only the
// generate endpoint.
func Routes(svc *Service, mw ...func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.With(mw...).Post("/generate", handleGenerate(svc))
		r.Get("/queries", handleRecentQueries(svc))
		r.Post("/rating", handleRate(svc))
	}
}

func handleGenerate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			response.Error(w, response.ErrUnauthorized)
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, response.ErrBadRequest)
			return
		}

		if err := validator.Apply(
			validator.RequiredString("input", req.Input),
			validator.MaxLenString("input", req.Input, MaxInputLen),
			validator.InList("outputType", req.OutputKind, Kinds()),
		); err != nil {
			response.Error(w, err)
			return
		}

		q, err := svc.Generate(r.Context(), id, req.Input, req.OutputKind)
		if err != nil {
			response.Error(w, mapGenerateError(err))
			return
		}

		response.JSON(w, http.StatusOK, q)
	}
}

func handleRecentQueries(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			response.Error(w, response.ErrUnauthorized)
			return
		}

		queries, err := svc.RecentQueries(r.Context(), id)
		if err != nil {
			response.Error(w, response.ErrInternalServerError)
			return
		}
		if queries == nil {
			queries = []Query{}
		}

		response.JSON(w, http.StatusOK, queries)
	}
}

func handleRate(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			response.Error(w, response.ErrUnauthorized)
			return
		}

		var req rateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, response.ErrBadRequest)
			return
		}

		if err := validator.Apply(
			validator.ValidUUID("queryId", req.QueryID),
			validator.BetweenInt("rating", req.Rating, MinRating, MaxRating),
		); err != nil {
			response.Error(w, err)
			return
		}

		queryID, _ := uuid.Parse(req.QueryID)
		if err := svc.Rate(r.Context(), id, queryID, req.Rating); err != nil {
			switch {
			case errors.Is(err, ErrQueryNotFound):
				response.Error(w, response.ErrNotFound)
			case errors.Is(err, ErrInvalidRating):
				response.Error(w, response.ErrUnprocessableEntity)
			default:
				response.Error(w, response.ErrInternalServerError)
			}
			return
		}

		response.JSON(w, http.StatusOK, rateResponse{Success: true, Rating: req.Rating})
	}
}

func mapGenerateError(err error) error {
	switch {
	case errors.Is(err, profile.ErrTrialExhausted):
		return response.NewHTTPError(http.StatusForbidden, "trial_exhausted",
			"Free trial exhausted. An active subscription is required.")
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownOutputKind):
		return response.ErrUnprocessableEntity
	case errors.Is(err, profile.ErrProfileNotFound):
		return response.ErrNotFound
	default:
		return response.ErrInternalServerError
	}
}
