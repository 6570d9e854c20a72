package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sheetwise/sheetwise/pkg/response"
)

// Config holds identity verification settings sourced from the environment.
type Config struct {
	SigningSecret string `env:"IDENTITY_JWT_SECRET,required"` // SigningSecret is the shared HS256 secret of the identity provider.
}

// Verifier validates identity tokens and extracts the caller's identity.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a token verifier from the shared signing secret.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.SigningSecret == "" {
		return nil, ErrMissingSigningSecret
	}
	return &Verifier{secret: []byte(cfg.SigningSecret)}, nil
}

// claims is the subset of the provider's token payload this service reads.
type claims struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses and validates a raw token string and returns the identity.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Identity{}, ErrMissingSubject
	}

	return Identity{
		UserID:    c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		AvatarURL: c.AvatarURL,
	}, nil
}

// Middleware authenticates requests with "Authorization: Bearer <token>" and
// injects the identity into the request context. Requests without a valid
// token are rejected with 401.
func Middleware(verifier *Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				response.Error(w, response.ErrUnauthorized)
				return
			}

			id, err := verifier.Verify(tokenString)
			if err != nil {
				response.Error(w, response.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
