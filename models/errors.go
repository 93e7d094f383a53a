package models

import (
	"errors"
)

// Kind is the stable, machine-checkable classification returned to API callers.
type Kind string

const (
	KindValidation         Kind = "VALIDATION_ERROR"
	KindDuplicate          Kind = "DUPLICATE_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindForbidden          Kind = "FORBIDDEN"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindInvalidOperation   Kind = "INVALID_OPERATION"
	KindRegistrationClosed Kind = "REGISTRATION_CLOSED"
	KindServer             Kind = "SERVER_ERROR"
)

var (
	// Catalog errors
	ErrGameNotFound      = errors.New("game not found")
	ErrDuplicateGameName = errors.New("game with this name already exists")

	// Ledger errors
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrDisplayOnlyGame      = errors.New("cannot register for display-only games")
	ErrRegistrationClosed   = errors.New("registration for this game is closed")
	ErrAlreadyRegistered    = errors.New("you are already registered for this game")

	// Identity errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user with this email or roll number already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized to perform this action")
)

// ValidationError reports malformed or missing input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// KindOf classifies err. Anything not recognised is a server error.
func KindOf(err error) Kind {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrDuplicateGameName),
		errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrDuplicateUser):
		return KindDuplicate
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrRegistrationNotFound),
		errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidCredentials):
		return KindUnauthenticated
	case errors.Is(err, ErrDisplayOnlyGame):
		return KindInvalidOperation
	case errors.Is(err, ErrRegistrationClosed):
		return KindRegistrationClosed
	default:
		return KindServer
	}
}
