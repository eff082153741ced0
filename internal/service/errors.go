package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"
)

var (
	ErrForbidden          = errors.New("forbidden: insufficient permissions")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrSessionNotFound    = errors.New("session not found")
	ErrHistoryDisabled    = errors.New("calculation history is disabled")
	ErrInvalidCredentials = errors.New("invalid passphrase")
	ErrAuthDisabled       = errors.New("authentication is disabled")
)

// ValidationError lists request fields that are missing or malformed.
// It matches scoring.ErrInvalidInput so callers can treat both alike.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == scoring.ErrInvalidInput
}

func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields = append(fields, fe.Field()+" is required")
		default:
			fields = append(fields, fe.Field()+" is invalid")
		}
	}
	return &ValidationError{Fields: fields}
}
