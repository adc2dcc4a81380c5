package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: content is required", ErrValidation), http.StatusBadRequest},
		{"capacity", ErrRegistrationClosed, http.StatusBadRequest},
		{"self conversation", ErrInvalidParticipant, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("message 42: %w", ErrNotFound), http.StatusNotFound},
		{"duplicate username", ErrUserAlreadyExists, http.StatusConflict},
		{"too large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MapToHTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation detail", fmt.Errorf("%w: Username is required", ErrValidation), "Username is required"},
		{"bare validation", ErrValidation, "Validation failed"},
		{"capacity", fmt.Errorf("%w: only two users allowed", ErrRegistrationClosed), "Registration closed: only two users allowed"},
		{"duplicate", fmt.Errorf("alice: %w", ErrUserAlreadyExists), "Username already exists"},
		{"credentials", ErrInvalidCredentials, "Invalid username or password"},
		{"not found hides detail", fmt.Errorf("message 42: %w", ErrNotFound), "Not found"},
		{"internal", fmt.Errorf("disk on fire"), "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PublicMessage(tt.err))
		})
	}
}
