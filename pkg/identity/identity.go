// Package identity authenticates requests with bearer tokens issued by the
// external identity provider and exposes the verified identity through the
// request context.
package identity

import "context"

// Identity is the verified caller extracted from an identity token.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	AvatarURL string
}

type contextKey struct{}

// SetIdentity stores the identity in the context.
func SetIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext retrieves the identity previously stored by the middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
