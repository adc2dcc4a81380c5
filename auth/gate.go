package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"justus/domain/chat"
)

const (
	bearerPrefix = "Bearer "
	// TokenQueryParam is only honoured during a socket handshake.
	TokenQueryParam = "token"
)

// Gate resolves the caller of a request from its bearer credential.
// It never fails a request: an absent or broken credential is Anonymous.
type Gate struct {
	verifier         TokenVerifier
	cookieName       string
	handshakeTimeout time.Duration
	log              *slog.Logger
}

func NewGate(log *slog.Logger, verifier TokenVerifier, cookieName string, handshakeTimeout time.Duration) *Gate {
	return &Gate{
		verifier:         verifier,
		cookieName:       cookieName,
		handshakeTimeout: handshakeTimeout,
		log:              log,
	}
}

// Resolve checks the Authorization header then the session cookie.
func (g *Gate) Resolve(r *http.Request) chat.Identity {
	return g.firstValid(bearerFromHeader(r), g.fromCookie(r))
}

// ResolveHandshake also accepts the token query parameter, which browsers
// need because they cannot set headers on a socket upgrade. Validation is
// abandoned once the handshake timeout elapses.
func (g *Gate) ResolveHandshake(ctx context.Context, r *http.Request) chat.Identity {
	ctx, cancel := context.WithTimeout(ctx, g.handshakeTimeout)
	defer cancel()

	done := make(chan chat.Identity, 1)
	go func() {
		done <- g.firstValid(bearerFromHeader(r), g.fromCookie(r), r.URL.Query().Get(TokenQueryParam))
	}()
	select {
	case id := <-done:
		return id
	case <-ctx.Done():
		g.log.Warn("Handshake authentication timed out", "remote", r.RemoteAddr)
		return chat.Anonymous
	}
}

func (g *Gate) firstValid(tokens ...string) chat.Identity {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		claims, err := g.verifier.ValidateToken(token)
		if err != nil {
			g.log.Debug("Discarding invalid credential", "error", err)
			continue
		}
		return chat.Identity{UserID: claims.UserID, Username: claims.Username}
	}
	return chat.Anonymous
}

func (g *Gate) fromCookie(r *http.Request) string {
	if g.cookieName == "" {
		return ""
	}
	c, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func bearerFromHeader(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
}
