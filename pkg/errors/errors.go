// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrInvalidAddress      = errors.New("invalid ledger address")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal number")
	ErrInvalidTrustValue   = errors.New("invalid value: must be a positive decimal number as a string")
	ErrInvalidAction       = errors.New("invalid action: use 'buy' or 'sell'")
	ErrMissingField        = errors.New("required field missing")
	ErrInsufficientBalance = errors.New("insufficient balance for transaction")
)

// Ledger errors
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountMalformed  = errors.New("account malformed")
	ErrLedgerTimeout     = errors.New("request to XRPL node timed out")
	ErrLedgerUnavailable = errors.New("XRPL node unavailable")
	ErrSubmitFailed      = errors.New("transaction submission failed")
)

// External signing service errors
var (
	ErrSigningUnavailable = errors.New("signing service unavailable")
	ErrNoSigningPayload   = errors.New("failed to create transaction payload")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
