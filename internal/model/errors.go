package model

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrEmptySymbol = errors.New("empty symbol")
	ErrInvalidDate = errors.New("invalid date format")
	ErrNoData      = errors.New("no data available")
)

// ValidationError reports malformed user input. No fetch is attempted after one.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%q): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError creates a new ValidationError.
func NewValidationError(field, value, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message, Err: err}
}

// ProviderError wraps any failure raised by a market data source.
type ProviderError struct {
	Provider   string
	Op         string
	Symbol     Symbol
	Expiration ExpirationDate
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Expiration != "" {
		return fmt.Sprintf("provider %s %s %s@%s: %v", e.Provider, e.Op, e.Symbol, e.Expiration, e.Err)
	}
	return fmt.Sprintf("provider %s %s %s: %v", e.Provider, e.Op, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err carries a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
