/*
catalog.go - Fixed denomination and payment-method catalogs

PURPOSE:
  Both catalogs are small and closed. Validation happens once, at the ledger
  boundary, so an unknown denomination or payment method can never reach
  storage or the totals arithmetic.

CATALOGS:
  Denominations: 500 down to 0.01 in major currency units. Values >= 5 are
  bills and the rest are coins; the split is presentational (reports group by
  it) and has no effect on totals since both live in the same unit.

  Payment methods: card, bank-direct-debit, web-payment, transfer, other.

SEE ALSO:
  - denominations.go: Cash-count ledger using the denomination catalog
  - payments.go: Electronic-payment ledger using the method catalog
*/
package cashier

import "github.com/shopspring/decimal"

// =============================================================================
// DENOMINATION CATALOG
// =============================================================================

// Denominations is the fixed catalog, ordered largest to smallest. Callers
// must treat it as read-only.
var Denominations = []decimal.Decimal{
	decimal.New(500, 0),
	decimal.New(200, 0),
	decimal.New(100, 0),
	decimal.New(50, 0),
	decimal.New(20, 0),
	decimal.New(10, 0),
	decimal.New(5, 0),
	decimal.New(2, 0),
	decimal.New(1, 0),
	decimal.New(5, -1),  // 0.50
	decimal.New(2, -1),  // 0.20
	decimal.New(1, -1),  // 0.10
	decimal.New(5, -2),  // 0.05
	decimal.New(2, -2),  // 0.02
	decimal.New(1, -2),  // 0.01
}

// billThreshold splits bills from coins for presentation.
var billThreshold = decimal.New(5, 0)

// KnownDenomination reports whether v is in the fixed catalog.
func KnownDenomination(v decimal.Decimal) bool {
	return denominationIndex(v) >= 0
}

// denominationIndex returns v's position in the catalog, or -1. Comparison is
// by value, so 0.50 and 0.5 resolve to the same entry.
func denominationIndex(v decimal.Decimal) int {
	for i, d := range Denominations {
		if d.Equal(v) {
			return i
		}
	}
	return -1
}

// IsBill reports whether a catalog denomination is a bill (>= 5).
func IsBill(v decimal.Decimal) bool { return v.GreaterThanOrEqual(billThreshold) }

// =============================================================================
// PAYMENT METHOD CATALOG
// =============================================================================

type PaymentMethod string

const (
	PayCard            PaymentMethod = "card"
	PayBankDirectDebit PaymentMethod = "bank-direct-debit"
	PayWebPayment      PaymentMethod = "web-payment"
	PayTransfer        PaymentMethod = "transfer"
	PayOther           PaymentMethod = "other"
)

// PaymentMethods is the fixed catalog of electronic payment methods.
var PaymentMethods = []PaymentMethod{
	PayCard,
	PayBankDirectDebit,
	PayWebPayment,
	PayTransfer,
	PayOther,
}

// KnownPaymentMethod reports whether m is in the fixed catalog.
func KnownPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCard, PayBankDirectDebit, PayWebPayment, PayTransfer, PayOther:
		return true
	}
	return false
}
