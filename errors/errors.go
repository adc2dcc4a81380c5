package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrValidation         = fmt.Errorf("validation failed")
	ErrInvalidPassword    = fmt.Errorf("password is required")
	ErrInvalidParticipant = fmt.Errorf("invalid participant")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrNotFound           = fmt.Errorf("not found")
	ErrUserAlreadyExists  = fmt.Errorf("username already exists")
	ErrRegistrationClosed = fmt.Errorf("registration closed")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrPayloadTooLarge    = fmt.Errorf("payload too large")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")
)

// MapToHTTPStatus translates the error taxonomy into a response status.
// Anything outside the taxonomy is an internal failure.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrValidation),
		stderrors.Is(err, ErrInvalidPassword),
		stderrors.Is(err, ErrInvalidParticipant),
		stderrors.Is(err, ErrRegistrationClosed):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrUnauthorized),
		stderrors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case stderrors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage renders err for a client. Validation failures expose their
// detail only, resource errors expose nothing beyond their kind and unknown
// errors are reported as internal.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrValidation):
		return capitalize(detail(err, ErrValidation))
	case stderrors.Is(err, ErrInvalidParticipant):
		return capitalize(detail(err, ErrInvalidParticipant))
	case stderrors.Is(err, ErrInvalidPassword):
		return capitalize(ErrInvalidPassword.Error())
	case stderrors.Is(err, ErrRegistrationClosed),
		stderrors.Is(err, ErrPayloadTooLarge):
		return capitalize(err.Error())
	}
	for _, sentinel := range []error{
		ErrUnauthorized, ErrInvalidCredentials, ErrForbidden, ErrNotFound,
		ErrUserAlreadyExists, ErrRateLimited,
	} {
		if stderrors.Is(err, sentinel) {
			return capitalize(sentinel.Error())
		}
	}
	return "Internal server error"
}

// detail returns what was wrapped after sentinel, or the sentinel text.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
