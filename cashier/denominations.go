/*
denominations.go - Cash-count ledger operations

The cash count is a whole-ledger replacement: every save swaps the full set of
rows, so omitting a denomination removes it (quantity 0). Rows are validated
against the fixed catalog before anything is written.
*/
package cashier

import (
	"context"

	"github.com/shopspring/decimal"
)

// SetCounts replaces the shift's entire cash count in one atomic operation.
// Rejects unknown denominations, negative quantities, and non-open shifts.
// Duplicate rows for the same denomination collapse to the last one, matching
// one-row-per-denomination storage. Returns the recomputed counted total.
func (e *Engine) SetCounts(ctx context.Context, id ShiftID, rows []DenominationCount) (decimal.Decimal, error) {
	unlock := e.lockShift(id)
	defer unlock()

	if _, err := e.loadOpenShift(ctx, id); err != nil {
		return decimal.Zero, err
	}

	normalized, err := normalizeCounts(rows)
	if err != nil {
		return decimal.Zero, err
	}

	if err := e.store.ReplaceDenominations(ctx, id, normalized); err != nil {
		return decimal.Zero, err
	}
	return sumDenominations(normalized), nil
}

// Counts returns the shift's cash count. Always available; closed shifts must
// still report their historical count.
func (e *Engine) Counts(ctx context.Context, id ShiftID) ([]DenominationCount, error) {
	if _, err := e.store.GetShift(ctx, id); err != nil {
		return nil, err
	}
	return e.store.Denominations(ctx, id)
}

// normalizeCounts validates rows against the catalog and collapses them to at
// most one row per denomination, in catalog order. Zero-quantity rows are
// dropped; an unset denomination and a zero-quantity one are the same thing.
func normalizeCounts(rows []DenominationCount) ([]DenominationCount, error) {
	// Key by catalog index, not by string form: 0.50 and 0.5 are the same
	// denomination.
	byIndex := make(map[int]int64, len(rows))
	for _, r := range rows {
		idx := denominationIndex(r.Denomination)
		if idx < 0 {
			return nil, &UnknownDenominationError{Value: r.Denomination}
		}
		if r.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		byIndex[idx] = r.Quantity
	}

	var out []DenominationCount
	for i, d := range Denominations {
		q, ok := byIndex[i]
		if !ok || q == 0 {
			continue
		}
		out = append(out, DenominationCount{Denomination: d, Quantity: q})
	}
	return out, nil
}

func sumDenominations(rows []DenominationCount) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total())
	}
	return total
}
