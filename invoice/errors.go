/*
errors.go - Centralized error types for the invoice domain

PURPOSE:
  All domain error values in one place. Validation failures are
  user-correctable and always returned as values; nothing in this
  package panics across the model boundary.

USAGE:
  Callers can branch on sentinels:

    if errors.Is(err, invoice.ErrInvalidAmount) { ... }

  or unwrap the structured form for the offending field:

    var verr *invoice.ValidationError
    if errors.As(err, &verr) { show(verr.Field, verr.Message) }
*/
package invoice

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAddress is returned when an address fails the heuristic
	// syntax check.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidAmount is returned for malformed, non-positive, or
	// over-precise amount strings.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountExceedsSupply is returned when an amount is above the
	// 21,000,000 supply cap.
	ErrAmountExceedsSupply = errors.New("amount exceeds total supply")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending field
// =============================================================================

// ValidationError is a user-correctable draft failure. Message is safe
// to surface inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error {
	switch e.Field {
	case "recipientAddress":
		return ErrInvalidAddress
	default:
		return ErrInvalidAmount
	}
}
