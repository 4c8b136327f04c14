/*
Package cashier implements the cash-register shift reconciliation and
closing engine for the hotel back office.

PURPOSE:
  A shift is a bounded work period (morning/afternoon/night/closing) during
  which a register accumulates a cash count (denomination x quantity rows),
  electronic payments, and petty-cash vouchers. This package owns the rules
  for mutating those ledgers, computing shift totals, closing and reopening
  shifts, and settling a day's pending vouchers from the day's closing shift.

KEY CONCEPTS IN THIS FILE (types.go):
  - Shift: The aggregate root (identity, type, date, status, initial fund, income)
  - DenominationCount: One counted row of the cash ledger
  - PaymentEntry: One electronic-payment row
  - Voucher: A petty-cash disbursement with a pending -> justified|cancelled lifecycle
  - AuditEvent: One entry of the append-only close/reopen trail
  - Date: A calendar day (the grain shifts and voucher settlement operate on)

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money, never float
  2. Derived totals: expected/counted/difference are always recomputed, never stored
  3. Status-gated mutability: every mutation starts with an open-shift guard
  4. Auditability: every close and reopen is an append-only audit event

SEE ALSO:
  - catalog.go: The fixed denomination and payment-method catalogs
  - engine.go: Operations and per-shift locking
  - totals.go: Derived totals arithmetic
*/
package cashier

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ShiftID int64

type VoucherID string

// =============================================================================
// DATE - Calendar day, the grain of shifts and voucher settlement
// =============================================================================

// Date is a calendar day in UTC. Shifts belong to exactly one Date and the
// closing shift settles vouchers across all shifts of the same Date.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) String() string         { return d.t.Format("2006-01-02") }

// =============================================================================
// SHIFT - Aggregate root
// =============================================================================

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
	// ShiftClosing is the designated end-of-day shift. It is the only shift
	// type allowed to settle the day's pending vouchers.
	ShiftClosing ShiftType = "closing"
)

// ValidShiftType reports whether t is one of the four shift types.
func ValidShiftType(t ShiftType) bool {
	switch t {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftClosing:
		return true
	}
	return false
}

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"
)

// ShiftUser links an operator to a shift. The primary flag is informational;
// the engine records it but enforces nothing on it.
type ShiftUser struct {
	UserID  string
	Primary bool
}

// Shift is the aggregate root. Ledger rows (denominations, payments, vouchers)
// are stored and loaded separately; see Store.
//
// INVARIANTS:
//   - InitialFund is set at creation and never changes.
//   - Income and all ledgers are mutable only while Status == ShiftOpen.
//   - Status cycles open <-> closed without limit; every transition is audited.
type Shift struct {
	ID          ShiftID
	Type        ShiftType
	Date        Date
	Status      ShiftStatus
	InitialFund decimal.Decimal
	Income      decimal.Decimal
	Users       []ShiftUser
	CreatedAt   time.Time
}

func (s *Shift) IsOpen() bool    { return s.Status == ShiftOpen }
func (s *Shift) IsClosing() bool { return s.Type == ShiftClosing }

// =============================================================================
// LEDGER ROWS
// =============================================================================

// DenominationCount is one row of a shift's cash count: a catalog denomination
// and how many units of it were counted.
type DenominationCount struct {
	Denomination decimal.Decimal
	Quantity     int64
}

// Total returns denomination x quantity.
func (d DenominationCount) Total() decimal.Decimal {
	return d.Denomination.Mul(decimal.NewFromInt(d.Quantity))
}

// PaymentEntry is one row of a shift's electronic-payment ledger. Entries with
// a zero amount are never persisted; a zero entry is equivalent to absence.
type PaymentEntry struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// =============================================================================
// VOUCHER - Petty-cash disbursement
// =============================================================================

type VoucherStatus string

const (
	VoucherPending   VoucherStatus = "pending"
	VoucherJustified VoucherStatus = "justified" // terminal
	VoucherCancelled VoucherStatus = "cancelled" // terminal
)

// Voucher records a petty-cash out against its originating shift. It reduces
// that shift's expected cash until cancelled; justification (performed from
// the day's closing shift) marks it accounted for without changing the math.
type Voucher struct {
	ID        VoucherID
	ShiftID   ShiftID
	Amount    decimal.Decimal
	Reason    string
	Status    VoucherStatus
	CreatedBy string
	CreatedAt time.Time

	// Settlement fields, populated when status leaves pending.
	SettledBy string
	SettledAt *time.Time
}

// CountsTowardLimit reports whether the voucher occupies one of the shift's
// creation slots. Cancelled vouchers free their slot.
func (v *Voucher) CountsTowardLimit() bool { return v.Status != VoucherCancelled }

// MaxVouchersPerShift is the creation limit checked at voucher creation time.
const MaxVouchersPerShift = 5

// =============================================================================
// AUDIT EVENT - Append-only close/reopen trail
// =============================================================================

type AuditAction string

const (
	AuditShiftClosed   AuditAction = "shift_closed"
	AuditShiftReopened AuditAction = "shift_reopened"
)

// AuditEvent is one entry of a shift's close/reopen history. The trail is
// append-only: reopen/close cycles accumulate events, nothing is overwritten.
type AuditEvent struct {
	ID      string
	ShiftID ShiftID
	Action  AuditAction
	Reason  string // required for reopen, empty for close
	ActorID string
	At      time.Time
}

// =============================================================================
// SHIFT TOTALS - Derived, never stored
// =============================================================================

// ShiftTotals are the six derived values of a shift. They are recomputed on
// every read so they can never go stale, and remain readable after close.
type ShiftTotals struct {
	TotalVouchers      decimal.Decimal // sum of non-cancelled voucher amounts
	TotalDenominations decimal.Decimal // sum of denomination x quantity
	TotalPayments      decimal.Decimal // sum of payment amounts
	CashExpected       decimal.Decimal // initial_fund + income - total_vouchers
	CashCounted        decimal.Decimal // == TotalDenominations
	Difference         decimal.Decimal // counted - expected; zero means balanced
	GrandTotal         decimal.Decimal // counted + payments
}

// Balanced reports whether counted cash matches expected cash exactly.
func (t ShiftTotals) Balanced() bool { return t.Difference.IsZero() }
