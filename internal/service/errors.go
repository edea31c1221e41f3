package service

import (
	"errors"
	"sort"
	"strings"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when an inactive user tries to sign in
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrDuplicateJobOrder is returned when the job order number is taken
	ErrDuplicateJobOrder = errors.New("that job order number already exists")

	// ErrStaleJobOrder is returned when the caller's version is behind the stored one
	ErrStaleJobOrder = errors.New("job order was changed by someone else, reload and try again")

	// ErrInvalidInput is returned for malformed request parameters
	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateJobOrderMessage is shown next to the job order number field
const DuplicateJobOrderMessage = "That job order number already exists"

// ValidationError carries per-field messages for a rejected payload
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// IsValidationError reports whether err is a *ValidationError and returns it
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
