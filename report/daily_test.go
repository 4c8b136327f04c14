package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/cashier/store"
	"github.com/fourpoints/cashier-engine/report"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDaySummary_SumsAcrossShifts(t *testing.T) {
	// GIVEN: Two shifts on the same day, one balanced, one short by 5.00,
	//        plus one pending voucher
	// THEN:  The summary sums counted cash, payments, differences, and grand
	//        totals, and reports one pending voucher

	engine := cashier.NewEngine(store.NewMemory())
	ctx := context.Background()
	day := cashier.NewDate(2024, time.May, 1)

	morning, err := engine.CreateShift(ctx, cashier.ShiftMorning, day, dec("100.00"), nil)
	require.NoError(t, err)
	night, err := engine.CreateShift(ctx, cashier.ShiftNight, day, dec("50.00"), nil)
	require.NoError(t, err)

	// Morning: expected 100, counted 100, card 30 -> balanced, grand 130.
	_, err = engine.SetCounts(ctx, morning.ID, []cashier.DenominationCount{
		{Denomination: dec("100"), Quantity: 1},
	})
	require.NoError(t, err)
	_, err = engine.SetPayments(ctx, morning.ID, []cashier.PaymentEntry{
		{Method: cashier.PayCard, Amount: dec("30.00")},
	})
	require.NoError(t, err)

	// Night: expected 50 + 20 - 10 = 60, counted 55 -> short 5, grand 55.
	require.NoError(t, engine.SetIncome(ctx, night.ID, dec("20.00")))
	_, err = engine.CreateVoucher(ctx, night.ID, dec("10.00"), "late delivery cash", "u-2")
	require.NoError(t, err)
	_, err = engine.SetCounts(ctx, night.ID, []cashier.DenominationCount{
		{Denomination: dec("50"), Quantity: 1},
		{Denomination: dec("5"), Quantity: 1},
	})
	require.NoError(t, err)

	summary, err := report.NewBuilder(engine).DaySummary(ctx, day)
	require.NoError(t, err)

	require.Len(t, summary.Shifts, 2)
	assert.True(t, summary.CashCounted.Equal(dec("155")), "counted %s", summary.CashCounted)
	assert.True(t, summary.TotalPayments.Equal(dec("30.00")))
	assert.True(t, summary.TotalVouchers.Equal(dec("10.00")))
	assert.True(t, summary.Difference.Equal(dec("-5.00")), "difference %s", summary.Difference)
	assert.True(t, summary.GrandTotal.Equal(dec("185")), "grand %s", summary.GrandTotal)
	assert.Equal(t, 1, summary.PendingVouchers)
}

func TestDaySummary_EmptyDay(t *testing.T) {
	engine := cashier.NewEngine(store.NewMemory())

	summary, err := report.NewBuilder(engine).DaySummary(context.Background(), cashier.NewDate(2024, time.May, 3))
	require.NoError(t, err)

	assert.Empty(t, summary.Shifts)
	assert.True(t, summary.GrandTotal.IsZero())
	assert.Zero(t, summary.PendingVouchers)
}
