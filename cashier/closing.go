/*
closing.go - The close gate

States are open and closed; the single forward transition open -> closed is
guarded here. The guard is deliberately minimal:

  1. At least one counted denomination row with quantity > 0. This is the
     ONLY hard blocker (ErrCashCountMissing).
  2. Electronic payments are informational and never block, even when empty.
  3. Pending vouchers are informational and never block. For a closing shift,
     the day's outstanding vouchers are surfaced to the operator but remain
     settleable after close: justification acts on the voucher row, not on
     the originating shift's status.

The reverse transition (reopen) is not guarded here at all - its purpose is
to correct a prior close, so it only requires a reason. See Engine.Reopen.
*/
package cashier

// validateClose decides whether a shift may transition open -> closed given
// its current cash count.
func validateClose(counts []DenominationCount) error {
	for _, r := range counts {
		if r.Quantity > 0 {
			return nil
		}
	}
	return ErrCashCountMissing
}
