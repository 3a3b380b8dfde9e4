package controllers

import (
	"context"
	"net/http"
)

// Identity is the already-authenticated caller attached by the auth
// gateway. Token verification itself happens upstream; this layer only
// trusts the forwarded headers.
type Identity struct {
	UserID string
	Name   string
}

type contextKey string

const identityKey contextKey = "identity"

// RequireIdentity rejects requests that arrive without a caller
// identity and stores it on the request context for handlers.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
			return
		}

		id := Identity{UserID: userID, Name: r.Header.Get("X-User-Name")}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// IdentityFrom returns the caller identity stored by RequireIdentity.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
