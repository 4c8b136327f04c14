/*
Package report builds day-level aggregations for export and dashboard tooling.

A day report is a pure aggregation over the engine's per-shift totals: no
state of its own, rebuildable at any time. Formatting (currency rendering,
PDF/Excel) belongs to the consumers, not here.
*/
package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fourpoints/cashier-engine/cashier"
)

// ShiftLine pairs a shift with its derived totals.
type ShiftLine struct {
	Shift  cashier.Shift
	Totals cashier.ShiftTotals
}

// DaySummary aggregates every shift of one calendar day.
type DaySummary struct {
	Date   cashier.Date
	Shifts []ShiftLine

	// Day-wide sums over the per-shift totals.
	CashCounted   decimal.Decimal
	TotalPayments decimal.Decimal
	TotalVouchers decimal.Decimal
	Difference    decimal.Decimal
	GrandTotal    decimal.Decimal

	// PendingVouchers counts the day's vouchers still awaiting settlement
	// by the closing shift.
	PendingVouchers int
}

// Builder computes day summaries from the engine.
type Builder struct {
	engine *cashier.Engine
}

func NewBuilder(engine *cashier.Engine) *Builder {
	return &Builder{engine: engine}
}

// DaySummary recomputes per-shift totals for every shift of the day and sums
// them. Closed shifts report their frozen ledgers the same as open ones.
func (b *Builder) DaySummary(ctx context.Context, date cashier.Date) (DaySummary, error) {
	shifts, err := b.engine.ShiftsForDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}

	summary := DaySummary{Date: date}
	for _, shift := range shifts {
		totals, err := b.engine.ComputeTotals(ctx, shift.ID)
		if err != nil {
			return DaySummary{}, err
		}
		summary.Shifts = append(summary.Shifts, ShiftLine{Shift: shift, Totals: totals})

		summary.CashCounted = summary.CashCounted.Add(totals.CashCounted)
		summary.TotalPayments = summary.TotalPayments.Add(totals.TotalPayments)
		summary.TotalVouchers = summary.TotalVouchers.Add(totals.TotalVouchers)
		summary.Difference = summary.Difference.Add(totals.Difference)
		summary.GrandTotal = summary.GrandTotal.Add(totals.GrandTotal)
	}

	pending, err := b.engine.PendingVouchersForDay(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	summary.PendingVouchers = len(pending)

	return summary, nil
}
