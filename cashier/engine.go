/*
engine.go - Engine operations and per-shift locking

PURPOSE:
  The Engine is the single entry point for all shift operations. Every
  mutation follows the same shape:

    1. Acquire the shift's lock
    2. Load the shift, guard its status
    3. Validate input against catalogs/limits
    4. Apply through the Store (atomic)

  Reads (ComputeTotals, ledger reads, audit trail) skip the status guard:
  closed shifts must keep reporting their historical totals.

CONCURRENCY:
  Mutations on the same shift are serialized by a mutex keyed by shift id,
  lazily created under a registry lock. Operations on different shifts run in
  parallel. Voucher settlement locks the voucher's ORIGINATING shift partition
  (see vouchers.go), not the acting closing shift as a whole.

SEE ALSO:
  - denominations.go, payments.go: Ledger replacement operations
  - vouchers.go: Voucher lifecycle and day-level settlement
  - closing.go: The close/reopen state machine
*/
package cashier

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine coordinates all shift operations over a Store.
type Engine struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[ShiftID]*sync.Mutex
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		now:   time.Now,
		locks: make(map[ShiftID]*sync.Mutex),
	}
}

// WithClock overrides the engine's clock. Tests use this to pin timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// lockShift acquires the per-shift mutex and returns its release func.
// Locks are never removed from the registry; the shift population of a
// single register installation is small.
func (e *Engine) lockShift(id ShiftID) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// loadOpenShift loads a shift and guards that it is open.
func (e *Engine) loadOpenShift(ctx context.Context, id ShiftID) (*Shift, error) {
	shift, err := e.store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, ErrShiftNotOpen
	}
	return shift, nil
}

// =============================================================================
// SHIFT LIFECYCLE
// =============================================================================

// CreateShift creates a new open shift for the given day.
func (e *Engine) CreateShift(ctx context.Context, shiftType ShiftType, date Date, initialFund decimal.Decimal, users []ShiftUser) (Shift, error) {
	if !ValidShiftType(shiftType) {
		return Shift{}, ErrInvalidShiftType
	}
	if initialFund.IsNegative() {
		return Shift{}, ErrInvalidInitialFund
	}

	shift := Shift{
		Type:        shiftType,
		Date:        date,
		Status:      ShiftOpen,
		InitialFund: initialFund,
		Income:      decimal.Zero,
		Users:       users,
		CreatedAt:   e.now(),
	}
	return e.store.CreateShift(ctx, shift)
}

// GetShift returns a shift regardless of status.
func (e *Engine) GetShift(ctx context.Context, id ShiftID) (*Shift, error) {
	return e.store.GetShift(ctx, id)
}

// ShiftsForDay returns all shifts of a calendar day.
func (e *Engine) ShiftsForDay(ctx context.Context, date Date) ([]Shift, error) {
	return e.store.ShiftsByDate(ctx, date)
}

// SetIncome sets the shift's declared gross takings. Open shifts only.
func (e *Engine) SetIncome(ctx context.Context, id ShiftID, amount decimal.Decimal) error {
	unlock := e.lockShift(id)
	defer unlock()

	if _, err := e.loadOpenShift(ctx, id); err != nil {
		return err
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	return e.store.SetIncome(ctx, id, amount)
}

// Close transitions an open shift to closed after the closing validator
// passes. Payments and pending vouchers never block; a missing cash count
// does. The transition is recorded in the audit trail.
func (e *Engine) Close(ctx context.Context, id ShiftID, actorID string) error {
	unlock := e.lockShift(id)
	defer unlock()

	shift, err := e.loadOpenShift(ctx, id)
	if err != nil {
		return err
	}

	counts, err := e.store.Denominations(ctx, id)
	if err != nil {
		return err
	}
	if err := validateClose(counts); err != nil {
		return err
	}

	if err := e.store.SetStatus(ctx, shift.ID, ShiftClosed); err != nil {
		return err
	}
	return e.store.AppendAudit(ctx, AuditEvent{
		ID:      uuid.NewString(),
		ShiftID: shift.ID,
		Action:  AuditShiftClosed,
		ActorID: actorID,
		At:      e.now(),
	})
}

// Reopen reverts a closed shift to open. It is unconditional given a
// non-empty reason: its purpose is to correct a prior close, so it is not
// gated by the closing validator. Every reopen is audited.
func (e *Engine) Reopen(ctx context.Context, id ShiftID, reason, actorID string) error {
	unlock := e.lockShift(id)
	defer unlock()

	shift, err := e.store.GetShift(ctx, id)
	if err != nil {
		return err
	}
	if shift.Status != ShiftClosed {
		return ErrShiftNotClosed
	}
	if strings.TrimSpace(reason) == "" {
		return ErrInvalidReason
	}

	if err := e.store.SetStatus(ctx, shift.ID, ShiftOpen); err != nil {
		return err
	}
	return e.store.AppendAudit(ctx, AuditEvent{
		ID:      uuid.NewString(),
		ShiftID: shift.ID,
		Action:  AuditShiftReopened,
		Reason:  strings.TrimSpace(reason),
		ActorID: actorID,
		At:      e.now(),
	})
}

// AuditTrail returns the shift's close/reopen history, oldest first.
func (e *Engine) AuditTrail(ctx context.Context, id ShiftID) ([]AuditEvent, error) {
	if _, err := e.store.GetShift(ctx, id); err != nil {
		return nil, err
	}
	return e.store.AuditTrail(ctx, id)
}
