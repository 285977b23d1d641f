package trip

import (
	"errors"
	"fmt"
)

var (
	ErrNoMembers           = errors.New("at least one member is required")
	ErrEmptyName           = errors.New("name is required")
	ErrInvalidAmount       = errors.New("amount must contain digits only")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrMissingCurrency     = errors.New("currency is required")
	ErrMissingExchangeRate = errors.New("exchange rate must be positive")
	ErrNoAttendees         = errors.New("at least one attending member is required")
	ErrUnknownPaymentType  = errors.New("unknown payment type")
	ErrUnknownMember       = errors.New("unknown member")
	ErrUnknownMode         = errors.New("unknown split mode")
)

// ValidationError is raised before any network call when input is incomplete.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
