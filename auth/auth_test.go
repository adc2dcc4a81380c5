package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"justus/errors"

	"github.com/stretchr/testify/require"
)

var cheapParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	hasher := NewPasswordHasher(cheapParams)

	hash, err := hasher.Hash("s3cret-passphrase")
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := hasher.Compare("s3cret-passphrase", hash)
	req.NoError(err)
	req.True(match)

	match, err = hasher.Compare("wrong", hash)
	req.NoError(err)
	req.False(match)

	_, err = hasher.Compare("whatever", "plaintext")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{"valid", RegisterRequest{Username: "alice", Password: "pw"}, ""},
		{"blank username", RegisterRequest{Username: "   ", Password: "pw"}, "Username is required"},
		{"blank password", RegisterRequest{Username: "alice", Password: "  "}, "Password is required"},
		{"password too long", RegisterRequest{Username: "alice", Password: strings.Repeat("a", 73)}, "Password must be at most 72 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req.Normalize())
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errors.ErrValidation)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterRequest_NormalizeDefaultsDisplayName(t *testing.T) {
	req := require.New(t)
	r := RegisterRequest{Username: "  alice ", Password: "pw"}.Normalize()
	req.Equal("alice", r.Username)
	req.Equal("alice", r.DisplayName)

	r = RegisterRequest{Username: "bob", Password: "pw", DisplayName: " Bobby "}.Normalize()
	req.Equal("Bobby", r.DisplayName)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateToken("u1", "alice")
	req.NoError(err)

	claims, err := issuer.ValidateToken(token)
	req.NoError(err)
	req.Equal("u1", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("u1", claims.Subject)

	// Another secret must not validate it
	_, err = NewTokenIssuer("other", time.Hour).ValidateToken(token)
	req.Error(err)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.GenerateToken("u1", "alice")
	req.NoError(err)

	issuer.now = time.Now
	_, err = issuer.ValidateToken(token)
	req.Error(err)
}

func TestGate_Resolve(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	gate := NewGate(discardLogger(), issuer, "auth-token", time.Second)
	alice, err := issuer.GenerateToken("u1", "alice")
	require.NoError(t, err)
	bob, err := issuer.GenerateToken("u2", "bob")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"no credential", "", "", ""},
		{"header", "Bearer " + alice, "", "u1"},
		{"cookie", "", bob, "u2"},
		{"header wins over cookie", "Bearer " + alice, bob, "u1"},
		{"broken header falls back to cookie", "Bearer garbage", bob, "u2"},
		{"not a bearer scheme", "Basic " + alice, "", ""},
		{"garbage everywhere", "Bearer x", "y", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/chat/messages", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "auth-token", Value: tt.cookie})
			}
			require.Equal(t, tt.want, gate.Resolve(r).UserID)
		})
	}
}

func TestGate_ResolveHandshakeAcceptsQueryToken(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("secret", time.Hour)
	gate := NewGate(discardLogger(), issuer, "auth-token", time.Second)
	token, err := issuer.GenerateToken("u1", "alice")
	req.NoError(err)

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	req.Equal("u1", gate.ResolveHandshake(context.Background(), r).UserID)

	// The query parameter is ignored outside a handshake
	req.True(gate.Resolve(r).IsAnonymous())
}

func TestRequireIdentity(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("secret", time.Hour)
	gate := NewGate(discardLogger(), issuer, "auth-token", time.Second)
	handler := gate.Middleware(RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, IdentityFrom(r.Context()).Username)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	req.Equal(http.StatusUnauthorized, rec.Code)

	token, err := issuer.GenerateToken("u1", "alice")
	req.NoError(err)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("alice", rec.Body.String())
}
