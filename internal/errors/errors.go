// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrLedgerNotFound     = errors.New("ledger database not found")
	ErrNoInvestors        = errors.New("no investors configured")
	ErrNoLeadInvestor     = errors.New("no lead investor configured")
	ErrBalanceUnavailable = errors.New("account balance unavailable")
	ErrConfigInvalid      = errors.New("invalid configuration")
)

// LedgerError represents a failure talking to the trade ledger.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger error [%s]: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError.
func NewLedgerError(op string, err error) *LedgerError {
	return &LedgerError{Op: op, Err: err}
}

// BalanceError represents a failure of the external balance service. The run
// must abort on it rather than snapshot a fabricated balance.
type BalanceError struct {
	Endpoint string
	Err      error
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("balance error [%s]: %v", e.Endpoint, e.Err)
}

func (e *BalanceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel so callers can test for balance failures without
// knowing the endpoint that produced them.
func (e *BalanceError) Is(target error) bool {
	return target == ErrBalanceUnavailable
}

// NewBalanceError creates a new BalanceError.
func NewBalanceError(endpoint string, err error) *BalanceError {
	return &BalanceError{Endpoint: endpoint, Err: err}
}

// OutputError represents a per-investor output failure. One investor's
// failure never blocks the remaining investors.
type OutputError struct {
	Investor string
	Channel  string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output error [%s] %s: %v", e.Channel, e.Investor, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// NewOutputError creates a new OutputError.
func NewOutputError(investor, channel string, err error) *OutputError {
	return &OutputError{Investor: investor, Channel: channel, Err: err}
}

// RowSkip records a recoverable per-row data-quality problem during backfill.
// It is logged and counted, never propagated.
type RowSkip struct {
	TradeID int64
	Reason  string
	Err     error
}

func (e *RowSkip) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d skipped: %s: %v", e.TradeID, e.Reason, e.Err)
	}
	return fmt.Sprintf("row %d skipped: %s", e.TradeID, e.Reason)
}

func (e *RowSkip) Unwrap() error {
	return e.Err
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
