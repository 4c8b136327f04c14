/*
vouchers.go - Voucher lifecycle and day-level settlement

PURPOSE:
  Vouchers are petty-cash outs recorded against their originating shift. They
  start pending and end justified or cancelled; both end states are terminal.
  Justification is the one operation where ownership crosses shift boundaries:
  the day's closing shift settles pending vouchers belonging to ANY shift of
  the same calendar day.

LOCKING:
  Creation and cancellation lock the originating shift. Justification locks
  the voucher's originating shift partition too - NOT the acting closing
  shift - because the mutation lands on the voucher row, and the acting shift
  is only consulted for its type, date, and open status.

LIMIT:
  A shift holds at most 5 non-cancelled vouchers, checked at creation time.
  Cancelling a voucher frees its slot; the check is never retroactive.
*/
package cashier

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minVoucherReasonLen applies after trimming surrounding whitespace.
const minVoucherReasonLen = 5

// =============================================================================
// CREATION
// =============================================================================

// CreateVoucher records a petty-cash out on an open shift. The voucher starts
// pending and counts toward expected cash until cancelled.
func (e *Engine) CreateVoucher(ctx context.Context, shiftID ShiftID, amount decimal.Decimal, reason, createdBy string) (Voucher, error) {
	unlock := e.lockShift(shiftID)
	defer unlock()

	if _, err := e.loadOpenShift(ctx, shiftID); err != nil {
		return Voucher{}, err
	}
	if !amount.IsPositive() {
		return Voucher{}, ErrInvalidAmount
	}
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < minVoucherReasonLen {
		return Voucher{}, ErrInvalidReason
	}

	existing, err := e.store.VouchersByShift(ctx, shiftID)
	if err != nil {
		return Voucher{}, err
	}
	held := 0
	for i := range existing {
		if existing[i].CountsTowardLimit() {
			held++
		}
	}
	if held >= MaxVouchersPerShift {
		return Voucher{}, &VoucherLimitError{ShiftID: shiftID, Held: held}
	}

	v := Voucher{
		ID:        VoucherID(uuid.NewString()),
		ShiftID:   shiftID,
		Amount:    amount,
		Reason:    reason,
		Status:    VoucherPending,
		CreatedBy: createdBy,
		CreatedAt: e.now(),
	}
	if err := e.store.InsertVoucher(ctx, v); err != nil {
		return Voucher{}, err
	}
	return v, nil
}

// Vouchers returns all vouchers originated by a shift, regardless of status.
func (e *Engine) Vouchers(ctx context.Context, shiftID ShiftID) ([]Voucher, error) {
	if _, err := e.store.GetShift(ctx, shiftID); err != nil {
		return nil, err
	}
	return e.store.VouchersByShift(ctx, shiftID)
}

// =============================================================================
// DAY-LEVEL SETTLEMENT
// =============================================================================

// PendingVouchersForDay returns every pending voucher of the given calendar
// day, across all of its shifts. This is the settlement feed the closing
// shift works through.
func (e *Engine) PendingVouchersForDay(ctx context.Context, date Date) ([]Voucher, error) {
	return e.store.PendingVouchersByDate(ctx, date)
}

// JustifyVoucher settles a pending voucher from the day's closing shift.
// The acting shift must be of the closing type, open, and dated the same day
// as the voucher's originating shift. The originating shift's own status is
// irrelevant: vouchers stay settleable after their shift closes.
func (e *Engine) JustifyVoucher(ctx context.Context, voucherID VoucherID, actingShiftID ShiftID, actorID string) error {
	acting, err := e.store.GetShift(ctx, actingShiftID)
	if err != nil {
		return err
	}
	if !acting.IsClosing() {
		return ErrNotClosingShift
	}
	if !acting.IsOpen() {
		return ErrShiftNotOpen
	}

	v, err := e.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}

	// Serialize against the voucher's own shift partition. The status check
	// happens again under the lock so concurrent settlements cannot race.
	unlock := e.lockShift(v.ShiftID)
	defer unlock()

	v, err = e.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}
	origin, err := e.store.GetShift(ctx, v.ShiftID)
	if err != nil {
		return err
	}
	if !origin.Date.Equal(acting.Date) {
		return ErrVoucherDayMismatch
	}
	if v.Status != VoucherPending {
		return ErrVoucherNotPending
	}

	return e.store.SettleVoucher(ctx, voucherID, VoucherJustified, actorID, e.now())
}

// CancelVoucher voids a pending voucher, freeing its creation slot. Cancelled
// vouchers stop counting toward expected cash.
func (e *Engine) CancelVoucher(ctx context.Context, voucherID VoucherID, actorID string) error {
	v, err := e.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}

	unlock := e.lockShift(v.ShiftID)
	defer unlock()

	v, err = e.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return err
	}
	if v.Status != VoucherPending {
		return ErrVoucherNotPending
	}

	return e.store.SettleVoucher(ctx, voucherID, VoucherCancelled, actorID, e.now())
}
