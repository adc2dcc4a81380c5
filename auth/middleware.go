package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"justus/domain/chat"
)

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id chat.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns Anonymous when nothing was attached.
func IdentityFrom(ctx context.Context) chat.Identity {
	id, ok := ctx.Value(identityKey).(chat.Identity)
	if !ok {
		return chat.Anonymous
	}
	return id
}

// Middleware attaches the resolved identity to every request.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), g.Resolve(r))))
	})
}

// RequireIdentity rejects anonymous callers with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).IsAnonymous() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
