package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func createShift(t *testing.T, s *sqlite.Store, shiftType cashier.ShiftType, date cashier.Date) cashier.Shift {
	t.Helper()
	shift, err := s.CreateShift(context.Background(), cashier.Shift{
		Type:        shiftType,
		Date:        date,
		Status:      cashier.ShiftOpen,
		InitialFund: dec("100.00"),
		Income:      decimal.Zero,
		Users:       []cashier.ShiftUser{{UserID: "u-1", Primary: true}},
		CreatedAt:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return shift
}

var may1 = cashier.NewDate(2024, time.May, 1)

// =============================================================================
// SHIFT ROUNDTRIPS
// =============================================================================

func TestShift_CreateAndGet_Roundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := createShift(t, s, cashier.ShiftMorning, may1)
	require.NotZero(t, created.ID)

	got, err := s.GetShift(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, cashier.ShiftMorning, got.Type)
	assert.Equal(t, may1, got.Date)
	assert.Equal(t, cashier.ShiftOpen, got.Status)
	assert.True(t, got.InitialFund.Equal(dec("100.00")))
	require.Len(t, got.Users, 1)
	assert.True(t, got.Users[0].Primary)
}

func TestShift_GetMissing_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetShift(context.Background(), 42)

	assert.ErrorIs(t, err, cashier.ErrShiftNotFound)
}

func TestShift_SetIncomeAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	require.NoError(t, s.SetIncome(ctx, shift.ID, dec("250.00")))
	require.NoError(t, s.SetStatus(ctx, shift.ID, cashier.ShiftClosed))

	got, err := s.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.True(t, got.Income.Equal(dec("250.00")))
	assert.Equal(t, cashier.ShiftClosed, got.Status)

	assert.ErrorIs(t, s.SetIncome(ctx, 999, dec("1")), cashier.ErrShiftNotFound)
}

func TestShiftsByDate_FiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	may2 := cashier.NewDate(2024, time.May, 2)

	first := createShift(t, s, cashier.ShiftMorning, may1)
	second := createShift(t, s, cashier.ShiftClosing, may1)
	createShift(t, s, cashier.ShiftMorning, may2)

	shifts, err := s.ShiftsByDate(ctx, may1)
	require.NoError(t, err)

	require.Len(t, shifts, 2)
	assert.Equal(t, first.ID, shifts[0].ID)
	assert.Equal(t, second.ID, shifts[1].ID)
}

// =============================================================================
// LEDGER SNAPSHOT SWAPS
// =============================================================================

func TestReplaceDenominations_SwapsWholeSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	require.NoError(t, s.ReplaceDenominations(ctx, shift.ID, []cashier.DenominationCount{
		{Denomination: dec("100"), Quantity: 2},
		{Denomination: dec("0.05"), Quantity: 10},
	}))
	require.NoError(t, s.ReplaceDenominations(ctx, shift.ID, []cashier.DenominationCount{
		{Denomination: dec("20"), Quantity: 1},
	}))

	rows, err := s.Denominations(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Denomination.Equal(dec("20")))
	assert.Equal(t, int64(1), rows[0].Quantity)
}

func TestDenominations_OrderedLargestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	require.NoError(t, s.ReplaceDenominations(ctx, shift.ID, []cashier.DenominationCount{
		{Denomination: dec("0.5"), Quantity: 3},
		{Denomination: dec("200"), Quantity: 1},
		{Denomination: dec("5"), Quantity: 2},
	}))

	rows, err := s.Denominations(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Denomination.Equal(dec("200")))
	assert.True(t, rows[1].Denomination.Equal(dec("5")))
	assert.True(t, rows[2].Denomination.Equal(dec("0.5")))
}

func TestReplacePayments_SwapsWholeSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	require.NoError(t, s.ReplacePayments(ctx, shift.ID, []cashier.PaymentEntry{
		{Method: cashier.PayCard, Amount: dec("100.00")},
		{Method: cashier.PayTransfer, Amount: dec("40.00")},
	}))
	require.NoError(t, s.ReplacePayments(ctx, shift.ID, []cashier.PaymentEntry{
		{Method: cashier.PayCard, Amount: dec("75.00")},
	}))

	rows, err := s.Payments(ctx, shift.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, cashier.PayCard, rows[0].Method)
	assert.True(t, rows[0].Amount.Equal(dec("75.00")))
}

// =============================================================================
// VOUCHERS
// =============================================================================

func TestVoucher_InsertSettleRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.InsertVoucher(ctx, cashier.Voucher{
		ID:        "v-1",
		ShiftID:   shift.ID,
		Amount:    dec("40.00"),
		Reason:    "courier cash payment",
		Status:    cashier.VoucherPending,
		CreatedBy: "u-1",
		CreatedAt: created,
	}))

	settledAt := created.Add(10 * time.Hour)
	require.NoError(t, s.SettleVoucher(ctx, "v-1", cashier.VoucherJustified, "closer-1", settledAt))

	got, err := s.GetVoucher(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, cashier.VoucherJustified, got.Status)
	assert.Equal(t, "closer-1", got.SettledBy)
	require.NotNil(t, got.SettledAt)
	assert.True(t, got.SettledAt.Equal(settledAt))
	assert.True(t, got.Amount.Equal(dec("40.00")))
}

func TestVoucher_MissingLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetVoucher(ctx, "missing")
	assert.ErrorIs(t, err, cashier.ErrVoucherNotFound)

	err = s.SettleVoucher(ctx, "missing", cashier.VoucherCancelled, "u-1", time.Now())
	assert.ErrorIs(t, err, cashier.ErrVoucherNotFound)
}

func TestPendingVouchersByDate_JoinsOriginShift(t *testing.T) {
	// The day feed filters by the ORIGINATING shift's date and pending status.

	s := newTestStore(t)
	ctx := context.Background()
	may2 := cashier.NewDate(2024, time.May, 2)

	dayShift := createShift(t, s, cashier.ShiftMorning, may1)
	otherDayShift := createShift(t, s, cashier.ShiftMorning, may2)

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	insert := func(id string, shiftID cashier.ShiftID, status cashier.VoucherStatus, offset time.Duration) {
		require.NoError(t, s.InsertVoucher(ctx, cashier.Voucher{
			ID: cashier.VoucherID(id), ShiftID: shiftID, Amount: dec("10"),
			Reason: "petty cash reason", Status: status, CreatedBy: "u-1",
			CreatedAt: base.Add(offset),
		}))
	}

	insert("v-pending-2", dayShift.ID, cashier.VoucherPending, 2*time.Hour)
	insert("v-pending-1", dayShift.ID, cashier.VoucherPending, time.Hour)
	insert("v-justified", dayShift.ID, cashier.VoucherJustified, 0)
	insert("v-other-day", otherDayShift.ID, cashier.VoucherPending, 0)

	pending, err := s.PendingVouchersByDate(ctx, may1)
	require.NoError(t, err)

	require.Len(t, pending, 2)
	assert.Equal(t, cashier.VoucherID("v-pending-1"), pending[0].ID, "oldest first")
	assert.Equal(t, cashier.VoucherID("v-pending-2"), pending[1].ID)
}

// =============================================================================
// AUDIT TRAIL
// =============================================================================

func TestAuditTrail_AppendsInOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shift := createShift(t, s, cashier.ShiftMorning, may1)

	base := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendAudit(ctx, cashier.AuditEvent{
		ID: "a-1", ShiftID: shift.ID, Action: cashier.AuditShiftClosed,
		ActorID: "manager-1", At: base,
	}))
	require.NoError(t, s.AppendAudit(ctx, cashier.AuditEvent{
		ID: "a-2", ShiftID: shift.ID, Action: cashier.AuditShiftReopened,
		Reason: "miscount correction", ActorID: "manager-1", At: base.Add(time.Minute),
	}))

	trail, err := s.AuditTrail(ctx, shift.ID)
	require.NoError(t, err)

	require.Len(t, trail, 2)
	assert.Equal(t, cashier.AuditShiftClosed, trail[0].Action)
	assert.Equal(t, cashier.AuditShiftReopened, trail[1].Action)
	assert.Equal(t, "miscount correction", trail[1].Reason)
}
