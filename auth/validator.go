package auth

import (
	stderrors "errors"
	"fmt"
	"strings"

	"justus/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,max=64"`
	Password    string `json:"password" validate:"required,max=72"`
	DisplayName string `json:"displayName" validate:"max=64"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the username and defaults the display name to it.
func (r RegisterRequest) Normalize() RegisterRequest {
	r.Username = strings.TrimSpace(r.Username)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if r.DisplayName == "" {
		r.DisplayName = r.Username
	}
	if strings.TrimSpace(r.Password) == "" {
		r.Password = ""
	}
	return r
}

func (r LoginRequest) Normalize() LoginRequest {
	r.Username = strings.TrimSpace(r.Username)
	if strings.TrimSpace(r.Password) == "" {
		r.Password = ""
	}
	return r
}

func ValidateRegister(req RegisterRequest) error {
	return toValidationError(validate.Struct(req))
}

func ValidateLogin(req LoginRequest) error {
	return toValidationError(validate.Struct(req))
}

// toValidationError reports the first failing field in a client friendly way.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", errors.ErrValidation, fe.Field())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", errors.ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", errors.ErrValidation, fe.Field())
	}
}
