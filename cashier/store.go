/*
store.go - Persistence interface for shifts, ledgers, vouchers, and audit

PURPOSE:
  Defines the interface between the engine and the database. Implementations
  persist shift rows, whole-ledger snapshots, voucher rows, and the append-only
  close/reopen audit trail.

REPLACE-NOT-MERGE:
  The two ledger writes (ReplaceDenominations, ReplacePayments) swap the whole
  ledger atomically. There is no per-row upsert: saving a shorter list than
  before removes the omitted rows, which is exactly the save semantics the
  engine promises.

APPEND-ONLY AUDIT:
  AppendAudit has no update or delete counterpart. Close/reopen cycles
  accumulate events; history is never rewritten.

VALIDATION SPLIT:
  The engine validates (catalogs, statuses, limits) before calling the store;
  implementations only need to keep each write atomic so a failure leaves
  state untouched.

IMPLEMENTATIONS:
  - cashier/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go:  Production SQLite

SEE ALSO:
  - engine.go: The only caller of the mutating methods
*/
package cashier

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store handles persistence for the cashier engine. All mutating methods must
// be atomic: they either fully apply or leave state unchanged.
type Store interface {
	// CreateShift persists a new shift and returns it with its assigned ID.
	CreateShift(ctx context.Context, shift Shift) (Shift, error)

	// GetShift returns the shift or ErrShiftNotFound.
	GetShift(ctx context.Context, id ShiftID) (*Shift, error)

	// ShiftsByDate returns all shifts of a calendar day, oldest first.
	ShiftsByDate(ctx context.Context, date Date) ([]Shift, error)

	// SetIncome updates the shift's declared income.
	SetIncome(ctx context.Context, id ShiftID, amount decimal.Decimal) error

	// SetStatus updates the shift's status.
	SetStatus(ctx context.Context, id ShiftID, status ShiftStatus) error

	// ReplaceDenominations atomically swaps the shift's entire cash count.
	ReplaceDenominations(ctx context.Context, id ShiftID, rows []DenominationCount) error

	// Denominations returns the shift's cash count, catalog order.
	Denominations(ctx context.Context, id ShiftID) ([]DenominationCount, error)

	// ReplacePayments atomically swaps the shift's entire payment ledger.
	ReplacePayments(ctx context.Context, id ShiftID, rows []PaymentEntry) error

	// Payments returns the shift's payment ledger, catalog order.
	Payments(ctx context.Context, id ShiftID) ([]PaymentEntry, error)

	// InsertVoucher persists a new voucher.
	InsertVoucher(ctx context.Context, v Voucher) error

	// GetVoucher returns the voucher or ErrVoucherNotFound.
	GetVoucher(ctx context.Context, id VoucherID) (*Voucher, error)

	// VouchersByShift returns all vouchers originated by a shift, oldest first.
	VouchersByShift(ctx context.Context, id ShiftID) ([]Voucher, error)

	// PendingVouchersByDate returns every pending voucher whose originating
	// shift belongs to the given day, across all shifts of that day.
	PendingVouchersByDate(ctx context.Context, date Date) ([]Voucher, error)

	// SettleVoucher moves a voucher out of pending, recording actor and time.
	SettleVoucher(ctx context.Context, id VoucherID, status VoucherStatus, settledBy string, settledAt time.Time) error

	// AppendAudit appends one close/reopen event. Append-only.
	AppendAudit(ctx context.Context, e AuditEvent) error

	// AuditTrail returns a shift's close/reopen events, oldest first.
	AuditTrail(ctx context.Context, id ShiftID) ([]AuditEvent, error)
}
