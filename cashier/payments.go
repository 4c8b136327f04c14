/*
payments.go - Electronic-payment ledger operations

Same replace-not-merge semantics as the cash count. Zero amounts are filtered
before storage: a zero entry is indistinguishable from no entry for that
method, so it is never persisted as a row.
*/
package cashier

import (
	"context"

	"github.com/shopspring/decimal"
)

// SetPayments replaces the shift's entire payment ledger in one atomic
// operation. Rejects unknown methods, negative amounts, and non-open shifts.
// Returns the recomputed payments total.
func (e *Engine) SetPayments(ctx context.Context, id ShiftID, rows []PaymentEntry) (decimal.Decimal, error) {
	unlock := e.lockShift(id)
	defer unlock()

	if _, err := e.loadOpenShift(ctx, id); err != nil {
		return decimal.Zero, err
	}

	normalized, err := normalizePayments(rows)
	if err != nil {
		return decimal.Zero, err
	}

	if err := e.store.ReplacePayments(ctx, id, normalized); err != nil {
		return decimal.Zero, err
	}
	return sumPayments(normalized), nil
}

// Payments returns the shift's payment ledger. Always available.
func (e *Engine) Payments(ctx context.Context, id ShiftID) ([]PaymentEntry, error) {
	if _, err := e.store.GetShift(ctx, id); err != nil {
		return nil, err
	}
	return e.store.Payments(ctx, id)
}

// normalizePayments validates rows against the catalog, drops zero amounts,
// and collapses to at most one row per method, in catalog order.
func normalizePayments(rows []PaymentEntry) ([]PaymentEntry, error) {
	byMethod := make(map[PaymentMethod]decimal.Decimal, len(rows))
	for _, r := range rows {
		if !KnownPaymentMethod(r.Method) {
			return nil, &UnknownPaymentMethodError{Method: r.Method}
		}
		if r.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
		byMethod[r.Method] = r.Amount
	}

	var out []PaymentEntry
	for _, m := range PaymentMethods {
		amount, ok := byMethod[m]
		if !ok || amount.IsZero() {
			continue
		}
		out = append(out, PaymentEntry{Method: m, Amount: amount})
	}
	return out, nil
}

func sumPayments(rows []PaymentEntry) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
