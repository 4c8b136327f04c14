/*
errors.go - Centralized error kinds for the cashier engine

PURPOSE:
  All engine error kinds in one place. Callers (HTTP layer, batch jobs)
  match with errors.Is/errors.As and own all user-facing wording; the
  engine only surfaces a stable, distinguishable kind.

ERROR CATEGORIES:
  1. State errors   - Operation not valid in the shift/voucher's current status
  2. Input errors   - Malformed values (negative, zero, too short)
  3. Catalog errors - Value outside a fixed catalog
  4. Limit errors   - Per-shift voucher creation limit
  5. Lookup errors  - Referenced shift/voucher does not exist

PROPAGATION:
  Every kind is a synchronous validation failure. A rejected mutation leaves
  the shift and all its ledgers untouched; nothing is retried internally.
*/
package cashier

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrShiftNotOpen is returned when mutating a ledger or income on a
	// shift that is not open.
	ErrShiftNotOpen = errors.New("shift is not open")

	// ErrShiftNotClosed is returned when reopening a shift that is already open.
	ErrShiftNotClosed = errors.New("shift is not closed")

	// ErrInvalidAmount is returned for a negative amount, or a non-positive
	// amount where the operation requires one (voucher creation).
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity is returned for a negative denomination quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidInitialFund is returned for a negative initial fund at creation.
	ErrInvalidInitialFund = errors.New("invalid initial fund")

	// ErrInvalidReason is returned when a voucher reason is shorter than
	// 5 characters after trimming, or a reopen reason is empty.
	ErrInvalidReason = errors.New("invalid reason")

	// ErrUnknownDenomination is returned for a value outside the fixed
	// denomination catalog.
	ErrUnknownDenomination = errors.New("unknown denomination")

	// ErrUnknownPaymentMethod is returned for a method outside the fixed
	// payment-method catalog.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrVoucherLimitReached is returned on the sixth non-cancelled voucher
	// creation attempt on a shift.
	ErrVoucherLimitReached = errors.New("voucher limit reached")

	// ErrVoucherNotPending is returned when justify/cancel is attempted on a
	// voucher that already left the pending state.
	ErrVoucherNotPending = errors.New("voucher is not pending")

	// ErrCashCountMissing is returned when closing a shift with no counted
	// denominations. This is the only hard close blocker.
	ErrCashCountMissing = errors.New("cash count missing")

	// ErrNotClosingShift is returned when voucher settlement is attempted
	// from a shift that is not of the closing type.
	ErrNotClosingShift = errors.New("acting shift is not a closing shift")

	// ErrVoucherDayMismatch is returned when a closing shift tries to settle
	// a voucher originated on a different calendar day. The pending-vouchers
	// day feed never surfaces such vouchers; this kind covers direct calls.
	ErrVoucherDayMismatch = errors.New("voucher belongs to a different day")

	// ErrShiftNotFound / ErrVoucherNotFound are lookup failures.
	ErrShiftNotFound   = errors.New("shift not found")
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrInvalidShiftType is returned at creation for a type outside
	// {morning, afternoon, night, closing}.
	ErrInvalidShiftType = errors.New("invalid shift type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownDenominationError reports which value fell outside the catalog.
type UnknownDenominationError struct {
	Value decimal.Decimal
}

func (e *UnknownDenominationError) Error() string {
	return fmt.Sprintf("unknown denomination %s", e.Value)
}

func (e *UnknownDenominationError) Unwrap() error { return ErrUnknownDenomination }

// UnknownPaymentMethodError reports which method fell outside the catalog.
type UnknownPaymentMethodError struct {
	Method PaymentMethod
}

func (e *UnknownPaymentMethodError) Error() string {
	return fmt.Sprintf("unknown payment method %q", e.Method)
}

func (e *UnknownPaymentMethodError) Unwrap() error { return ErrUnknownPaymentMethod }

// VoucherLimitError reports the shift that is out of voucher slots.
type VoucherLimitError struct {
	ShiftID ShiftID
	Held    int
}

func (e *VoucherLimitError) Error() string {
	return fmt.Sprintf("shift %d already holds %d non-cancelled vouchers (limit %d)",
		e.ShiftID, e.Held, MaxVouchersPerShift)
}

func (e *VoucherLimitError) Unwrap() error { return ErrVoucherLimitReached }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidInitialFund) ||
		errors.Is(err, ErrInvalidReason) ||
		errors.Is(err, ErrInvalidShiftType) ||
		errors.Is(err, ErrUnknownDenomination) ||
		errors.Is(err, ErrUnknownPaymentMethod)
}

// IsConflict reports whether the error is a state conflict: the request was
// well-formed but the shift/voucher is not in a status that permits it.
func IsConflict(err error) bool {
	return errors.Is(err, ErrShiftNotOpen) ||
		errors.Is(err, ErrShiftNotClosed) ||
		errors.Is(err, ErrVoucherNotPending) ||
		errors.Is(err, ErrVoucherLimitReached) ||
		errors.Is(err, ErrCashCountMissing) ||
		errors.Is(err, ErrNotClosingShift) ||
		errors.Is(err, ErrVoucherDayMismatch)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) || errors.Is(err, ErrVoucherNotFound)
}
