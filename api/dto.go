/*
dto.go - Data Transfer Objects for API requests and responses

DTOs decouple the engine's domain model from the JSON surface. Monetary
values cross the wire as strings to keep decimal precision; the handlers
parse them with shopspring/decimal.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"time"

	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/report"
)

// =============================================================================
// SHIFTS
// =============================================================================

type ShiftUserDTO struct {
	UserID  string `json:"user_id"`
	Primary bool   `json:"primary"`
}

type ShiftDTO struct {
	ID          int64          `json:"id"`
	Type        string         `json:"type"`
	Date        string         `json:"date"`
	Status      string         `json:"status"`
	InitialFund string         `json:"initial_fund"`
	Income      string         `json:"income"`
	Users       []ShiftUserDTO `json:"users,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

type CreateShiftRequest struct {
	Type        string         `json:"type"`
	Date        string         `json:"date"`
	InitialFund string         `json:"initial_fund"`
	Users       []ShiftUserDTO `json:"users"`
}

type SetIncomeRequest struct {
	Amount string `json:"amount"`
}

type ReopenRequest struct {
	Reason string `json:"reason"`
}

// =============================================================================
// LEDGERS
// =============================================================================

type DenominationRowDTO struct {
	Denomination string `json:"denomination"`
	Quantity     int64  `json:"quantity"`
}

type SetCountsRequest struct {
	Rows []DenominationRowDTO `json:"rows"`
}

type PaymentRowDTO struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

type SetPaymentsRequest struct {
	Rows []PaymentRowDTO `json:"rows"`
}

// LedgerTotalDTO is returned by both ledger replacement endpoints.
type LedgerTotalDTO struct {
	Total string `json:"total"`
}

// =============================================================================
// VOUCHERS
// =============================================================================

type VoucherDTO struct {
	ID        string `json:"id"`
	ShiftID   int64  `json:"shift_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	SettledBy string `json:"settled_by,omitempty"`
	SettledAt string `json:"settled_at,omitempty"`
}

type CreateVoucherRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

// =============================================================================
// TOTALS / REPORTS / AUDIT
// =============================================================================

type TotalsDTO struct {
	TotalVouchers      string `json:"total_vouchers"`
	TotalDenominations string `json:"total_denominations"`
	TotalPayments      string `json:"total_payments"`
	CashExpected       string `json:"cash_expected"`
	CashCounted        string `json:"cash_counted"`
	Difference         string `json:"difference"`
	GrandTotal         string `json:"grand_total"`
	Balanced           bool   `json:"balanced"`
}

type AuditEventDTO struct {
	ID      string `json:"id"`
	ShiftID int64  `json:"shift_id"`
	Action  string `json:"action"`
	Reason  string `json:"reason,omitempty"`
	ActorID string `json:"actor_id"`
	At      string `json:"at"`
}

type ShiftLineDTO struct {
	Shift  ShiftDTO  `json:"shift"`
	Totals TotalsDTO `json:"totals"`
}

type DaySummaryDTO struct {
	Date            string         `json:"date"`
	Shifts          []ShiftLineDTO `json:"shifts"`
	CashCounted     string         `json:"cash_counted"`
	TotalPayments   string         `json:"total_payments"`
	TotalVouchers   string         `json:"total_vouchers"`
	Difference      string         `json:"difference"`
	GrandTotal      string         `json:"grand_total"`
	PendingVouchers int            `json:"pending_vouchers"`
}

type CatalogsDTO struct {
	Denominations  []string `json:"denominations"`
	PaymentMethods []string `json:"payment_methods"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func shiftDTO(s *cashier.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:          int64(s.ID),
		Type:        string(s.Type),
		Date:        s.Date.String(),
		Status:      string(s.Status),
		InitialFund: s.InitialFund.String(),
		Income:      s.Income.String(),
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
	for _, u := range s.Users {
		dto.Users = append(dto.Users, ShiftUserDTO{UserID: u.UserID, Primary: u.Primary})
	}
	return dto
}

func totalsDTO(t cashier.ShiftTotals) TotalsDTO {
	return TotalsDTO{
		TotalVouchers:      t.TotalVouchers.String(),
		TotalDenominations: t.TotalDenominations.String(),
		TotalPayments:      t.TotalPayments.String(),
		CashExpected:       t.CashExpected.String(),
		CashCounted:        t.CashCounted.String(),
		Difference:         t.Difference.String(),
		GrandTotal:         t.GrandTotal.String(),
		Balanced:           t.Balanced(),
	}
}

func voucherDTO(v *cashier.Voucher) VoucherDTO {
	dto := VoucherDTO{
		ID:        string(v.ID),
		ShiftID:   int64(v.ShiftID),
		Amount:    v.Amount.String(),
		Reason:    v.Reason,
		Status:    string(v.Status),
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		SettledBy: v.SettledBy,
	}
	if v.SettledAt != nil {
		dto.SettledAt = v.SettledAt.Format(time.RFC3339)
	}
	return dto
}

func daySummaryDTO(s report.DaySummary) DaySummaryDTO {
	dto := DaySummaryDTO{
		Date:            s.Date.String(),
		CashCounted:     s.CashCounted.String(),
		TotalPayments:   s.TotalPayments.String(),
		TotalVouchers:   s.TotalVouchers.String(),
		Difference:      s.Difference.String(),
		GrandTotal:      s.GrandTotal.String(),
		PendingVouchers: s.PendingVouchers,
	}
	for _, line := range s.Shifts {
		shift := line.Shift
		dto.Shifts = append(dto.Shifts, ShiftLineDTO{
			Shift:  shiftDTO(&shift),
			Totals: totalsDTO(line.Totals),
		})
	}
	return dto
}
