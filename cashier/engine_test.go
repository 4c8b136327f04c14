package cashier_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/cashier/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine() *cashier.Engine {
	return cashier.NewEngine(store.NewMemory()).WithClock(func() time.Time {
		return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	})
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustCreateShift(t *testing.T, e *cashier.Engine, shiftType cashier.ShiftType, date cashier.Date, fund string) cashier.Shift {
	t.Helper()
	shift, err := e.CreateShift(context.Background(), shiftType, date, dec(fund), []cashier.ShiftUser{{UserID: "u-1", Primary: true}})
	require.NoError(t, err)
	return shift
}

func countOf(denomination string, qty int64) cashier.DenominationCount {
	return cashier.DenominationCount{Denomination: dec(denomination), Quantity: qty}
}

var may1 = cashier.NewDate(2024, time.May, 1)

// =============================================================================
// SHIFT CREATION
// =============================================================================

func TestCreateShift_StartsOpenWithZeroIncome(t *testing.T) {
	e := newTestEngine()

	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	assert.Equal(t, cashier.ShiftOpen, shift.Status)
	assert.True(t, shift.Income.IsZero())
	assert.True(t, shift.InitialFund.Equal(dec("100.00")))
	assert.Equal(t, may1, shift.Date)
}

func TestCreateShift_NegativeInitialFund_Rejected(t *testing.T) {
	e := newTestEngine()

	_, err := e.CreateShift(context.Background(), cashier.ShiftMorning, may1, dec("-1"), nil)

	assert.ErrorIs(t, err, cashier.ErrInvalidInitialFund)
}

func TestCreateShift_UnknownType_Rejected(t *testing.T) {
	e := newTestEngine()

	_, err := e.CreateShift(context.Background(), cashier.ShiftType("graveyard"), may1, dec("0"), nil)

	assert.ErrorIs(t, err, cashier.ErrInvalidShiftType)
}

// =============================================================================
// INCOME
// =============================================================================

func TestSetIncome_OpenShift_Succeeds(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	require.NoError(t, e.SetIncome(ctx, shift.ID, dec("250.00")))

	got, err := e.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.True(t, got.Income.Equal(dec("250.00")))
}

func TestSetIncome_Negative_Rejected(t *testing.T) {
	e := newTestEngine()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	err := e.SetIncome(context.Background(), shift.ID, dec("-0.01"))

	assert.ErrorIs(t, err, cashier.ErrInvalidAmount)
}

func TestSetIncome_UnknownShift_NotFound(t *testing.T) {
	e := newTestEngine()

	err := e.SetIncome(context.Background(), 999, dec("1"))

	assert.ErrorIs(t, err, cashier.ErrShiftNotFound)
}

// =============================================================================
// CLOSE / REOPEN STATE MACHINE
// =============================================================================

func TestClose_WithCountedCash_Succeeds(t *testing.T) {
	// GIVEN: An open shift with at least one counted denomination
	// WHEN: Closing it
	// THEN: Status becomes closed and the close is audited

	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	_, err := e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("50", 2)})
	require.NoError(t, err)

	require.NoError(t, e.Close(ctx, shift.ID, "manager-1"))

	got, err := e.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, cashier.ShiftClosed, got.Status)

	trail, err := e.AuditTrail(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, cashier.AuditShiftClosed, trail[0].Action)
	assert.Equal(t, "manager-1", trail[0].ActorID)
}

func TestClose_NoCashCount_Rejected_EvenWithPayments(t *testing.T) {
	// GIVEN: A shift with 500.00 in electronic payments but no counted cash
	// WHEN: Closing it
	// THEN: CashCountMissing - payments never substitute for a cash count

	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "0")

	_, err := e.SetPayments(ctx, shift.ID, []cashier.PaymentEntry{{Method: cashier.PayCard, Amount: dec("500.00")}})
	require.NoError(t, err)

	err = e.Close(ctx, shift.ID, "manager-1")

	assert.ErrorIs(t, err, cashier.ErrCashCountMissing)

	got, gerr := e.GetShift(ctx, shift.ID)
	require.NoError(t, gerr)
	assert.Equal(t, cashier.ShiftOpen, got.Status, "failed close must not change status")
}

func TestClose_PendingVouchersDoNotBlock(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	_, err := e.CreateVoucher(ctx, shift.ID, dec("40.00"), "taxi for guest pickup", "u-1")
	require.NoError(t, err)
	_, err = e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("20", 1)})
	require.NoError(t, err)

	assert.NoError(t, e.Close(ctx, shift.ID, "manager-1"))
}

func TestClose_AlreadyClosed_Rejected(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")
	_, err := e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("50", 1)})
	require.NoError(t, err)
	require.NoError(t, e.Close(ctx, shift.ID, "manager-1"))

	err = e.Close(ctx, shift.ID, "manager-1")

	assert.ErrorIs(t, err, cashier.ErrShiftNotOpen)
}

func TestReopen_RequiresClosedShiftAndReason(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")

	// Reopening an open shift fails
	err := e.Reopen(ctx, shift.ID, "typo in the count", "manager-1")
	assert.ErrorIs(t, err, cashier.ErrShiftNotClosed)

	_, err = e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("50", 1)})
	require.NoError(t, err)
	require.NoError(t, e.Close(ctx, shift.ID, "manager-1"))

	// Blank reason fails
	err = e.Reopen(ctx, shift.ID, "   ", "manager-1")
	assert.ErrorIs(t, err, cashier.ErrInvalidReason)

	// Non-empty reason succeeds
	require.NoError(t, e.Reopen(ctx, shift.ID, "typo in the count", "manager-1"))

	got, err := e.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, cashier.ShiftOpen, got.Status)
}

func TestReopen_UnfreezesAllMutations(t *testing.T) {
	// GIVEN: A closed shift where every mutation fails with ShiftNotOpen
	// WHEN: Reopening with a reason
	// THEN: The same mutations succeed again

	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")
	_, err := e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("50", 1)})
	require.NoError(t, err)
	require.NoError(t, e.Close(ctx, shift.ID, "manager-1"))

	assert.ErrorIs(t, e.SetIncome(ctx, shift.ID, dec("10")), cashier.ErrShiftNotOpen)
	_, err = e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("10", 1)})
	assert.ErrorIs(t, err, cashier.ErrShiftNotOpen)
	_, err = e.SetPayments(ctx, shift.ID, []cashier.PaymentEntry{{Method: cashier.PayCard, Amount: dec("5")}})
	assert.ErrorIs(t, err, cashier.ErrShiftNotOpen)
	_, err = e.CreateVoucher(ctx, shift.ID, dec("5"), "florist petty cash", "u-1")
	assert.ErrorIs(t, err, cashier.ErrShiftNotOpen)

	require.NoError(t, e.Reopen(ctx, shift.ID, "missed the card batch", "manager-1"))

	assert.NoError(t, e.SetIncome(ctx, shift.ID, dec("10")))
	_, err = e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("10", 1)})
	assert.NoError(t, err)
	_, err = e.SetPayments(ctx, shift.ID, []cashier.PaymentEntry{{Method: cashier.PayCard, Amount: dec("5")}})
	assert.NoError(t, err)
	_, err = e.CreateVoucher(ctx, shift.ID, dec("5"), "florist petty cash", "u-1")
	assert.NoError(t, err)
}

func TestCloseReopenCycles_AuditTrailAccumulates(t *testing.T) {
	// Every cycle appends events; history is never overwritten.

	e := newTestEngine()
	ctx := context.Background()
	shift := mustCreateShift(t, e, cashier.ShiftMorning, may1, "100.00")
	_, err := e.SetCounts(ctx, shift.ID, []cashier.DenominationCount{countOf("50", 1)})
	require.NoError(t, err)

	require.NoError(t, e.Close(ctx, shift.ID, "manager-1"))
	require.NoError(t, e.Reopen(ctx, shift.ID, "first correction", "manager-1"))
	require.NoError(t, e.Close(ctx, shift.ID, "manager-2"))
	require.NoError(t, e.Reopen(ctx, shift.ID, "second correction", "manager-2"))

	trail, err := e.AuditTrail(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, trail, 4)
	assert.Equal(t, cashier.AuditShiftClosed, trail[0].Action)
	assert.Equal(t, "first correction", trail[1].Reason)
	assert.Equal(t, cashier.AuditShiftClosed, trail[2].Action)
	assert.Equal(t, "second correction", trail[3].Reason)
}
