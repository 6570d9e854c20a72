package profile

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sheetwise/sheetwise/pkg/identity"
	"github.com/sheetwise/sheetwise/pkg/response"
)

// projection is the fixed view of a profile returned to clients.
type projection struct {
	ID                uuid.UUID          `json:"id"`
	UserID            string             `json:"userId"`
	Name              string             `json:"name,omitempty"`
	AvatarURL         string             `json:"imageUrl,omitempty"`
	Email             string             `json:"email"`
	PaystackCustomer  string             `json:"paystackCustomerId,omitempty"`
	TrialUses         int                `json:"trialUses"`
	Subscription      SubscriptionStatus `json:"subscription"`
	SubscriptionStart *time.Time         `json:"subscriptionStart,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Router mounts the profile endpoints. The identity middleware must run
// before this router.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Get("/", handleFetch(svc))
	return r
}

func handleFetch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			response.Error(w, response.ErrUnauthorized)
			return
		}

		p, err := svc.Fetch(r.Context(), id)
		if err != nil {
			response.Error(w, response.ErrNotFound)
			return
		}

		response.JSON(w, http.StatusOK, projection{
			ID:                p.ID,
			UserID:            p.UserID,
			Name:              p.Name,
			AvatarURL:         p.AvatarURL,
			Email:             p.Email,
			PaystackCustomer:  p.PaystackCustomer,
			TrialUses:         p.TrialUses,
			Subscription:      p.Subscription,
			SubscriptionStart: p.SubscriptionStart,
			CreatedAt:         p.CreatedAt,
			UpdatedAt:         p.UpdatedAt,
		})
	}
}
