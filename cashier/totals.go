/*
totals.go - Derived shift totals

The six derived values are recomputed from the ledgers on every read and are
never stored, so they cannot go stale. Reads work on closed shifts too; audit
and reporting depend on that.

ARITHMETIC (always):
  total_vouchers      = sum of amounts over vouchers with status != cancelled
  total_denominations = sum of denomination x quantity
  total_payments      = sum of payment amounts
  cash_expected       = initial_fund + income - total_vouchers
  cash_counted        = total_denominations
  difference          = cash_counted - cash_expected
  grand_total         = cash_counted + total_payments

Justified vouchers keep counting toward total_vouchers: settlement changes a
voucher's status, not the shift's arithmetic. Only cancellation removes a
voucher from expected cash.
*/
package cashier

import "context"

// ComputeTotals recomputes the shift's derived totals. Pure read, available
// regardless of shift status.
func (e *Engine) ComputeTotals(ctx context.Context, id ShiftID) (ShiftTotals, error) {
	shift, err := e.store.GetShift(ctx, id)
	if err != nil {
		return ShiftTotals{}, err
	}

	counts, err := e.store.Denominations(ctx, id)
	if err != nil {
		return ShiftTotals{}, err
	}
	payments, err := e.store.Payments(ctx, id)
	if err != nil {
		return ShiftTotals{}, err
	}
	vouchers, err := e.store.VouchersByShift(ctx, id)
	if err != nil {
		return ShiftTotals{}, err
	}

	return computeTotals(shift, counts, payments, vouchers), nil
}

func computeTotals(shift *Shift, counts []DenominationCount, payments []PaymentEntry, vouchers []Voucher) ShiftTotals {
	t := ShiftTotals{
		TotalDenominations: sumDenominations(counts),
		TotalPayments:      sumPayments(payments),
	}
	for i := range vouchers {
		if vouchers[i].Status != VoucherCancelled {
			t.TotalVouchers = t.TotalVouchers.Add(vouchers[i].Amount)
		}
	}

	t.CashCounted = t.TotalDenominations
	t.CashExpected = shift.InitialFund.Add(shift.Income).Sub(t.TotalVouchers)
	t.Difference = t.CashCounted.Sub(t.CashExpected)
	t.GrandTotal = t.CashCounted.Add(t.TotalPayments)
	return t
}
