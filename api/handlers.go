/*
handlers.go - HTTP handlers for the cashier engine

PURPOSE:
  Exposes the shift engine over REST. Handlers parse and validate transport
  concerns (JSON, URL params, decimal strings), then delegate every business
  decision to the engine.

ACTOR IDENTITY:
  Authentication is out of scope; callers arrive pre-authenticated and carry
  their identity in the X-Actor-ID header. The engine only records it.

ERROR MAPPING:
  Engine error kinds map onto HTTP statuses:
  - 400: invalid input, unknown catalog values
  - 404: shift/voucher not found
  - 409: state conflicts (shift not open/closed, voucher not pending,
         voucher limit, missing cash count, day mismatch)
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/report"
)

// Handler holds the API's dependencies.
type Handler struct {
	Engine  *cashier.Engine
	Reports *report.Builder
}

func NewHandler(engine *cashier.Engine) *Handler {
	return &Handler{
		Engine:  engine,
		Reports: report.NewBuilder(engine),
	}
}

// actorID extracts the pre-authenticated actor identity.
func actorID(r *http.Request) string {
	return r.Header.Get("X-Actor-ID")
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := cashier.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}
	fund, err := parseAmount(req.InitialFund)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid initial_fund", err)
		return
	}

	var users []cashier.ShiftUser
	for _, u := range req.Users {
		users = append(users, cashier.ShiftUser{UserID: u.UserID, Primary: u.Primary})
	}

	shift, err := h.Engine.CreateShift(r.Context(), cashier.ShiftType(req.Type), date, fund, users)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shiftDTO(&shift))
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	shift, err := h.Engine.GetShift(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	totals, err := h.Engine.ComputeTotals(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"shift":  shiftDTO(shift),
		"totals": totalsDTO(totals),
	})
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	totals, err := h.Engine.ComputeTotals(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalsDTO(totals))
}

func (h *Handler) SetIncome(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	var req SetIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	if err := h.Engine.SetIncome(r.Context(), id, amount); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"income": amount.String()})
}

func (h *Handler) CloseShift(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	if err := h.Engine.Close(r.Context(), id, actorID(r)); err != nil {
		writeEngineError(w, err)
		return
	}

	totals, err := h.Engine.ComputeTotals(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": string(cashier.ShiftClosed),
		"totals": totalsDTO(totals),
	})
}

func (h *Handler) ReopenShift(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	var req ReopenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Engine.Reopen(r.Context(), id, req.Reason, actorID(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(cashier.ShiftOpen)})
}

func (h *Handler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	events, err := h.Engine.AuditTrail(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]AuditEventDTO, len(events))
	for i, e := range events {
		dtos[i] = AuditEventDTO{
			ID:      e.ID,
			ShiftID: int64(e.ShiftID),
			Action:  string(e.Action),
			Reason:  e.Reason,
			ActorID: e.ActorID,
			At:      e.At.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

func (h *Handler) SetCounts(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	var req SetCountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := make([]cashier.DenominationCount, 0, len(req.Rows))
	for _, row := range req.Rows {
		value, err := decimal.NewFromString(row.Denomination)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid denomination value", err)
			return
		}
		rows = append(rows, cashier.DenominationCount{Denomination: value, Quantity: row.Quantity})
	}

	total, err := h.Engine.SetCounts(r.Context(), id, rows)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LedgerTotalDTO{Total: total.String()})
}

func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	counts, err := h.Engine.Counts(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]DenominationRowDTO, len(counts))
	for i, c := range counts {
		dtos[i] = DenominationRowDTO{Denomination: c.Denomination.String(), Quantity: c.Quantity}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SetPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	var req SetPaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := make([]cashier.PaymentEntry, 0, len(req.Rows))
	for _, row := range req.Rows {
		amount, err := parseAmount(row.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment amount", err)
			return
		}
		rows = append(rows, cashier.PaymentEntry{Method: cashier.PaymentMethod(row.Method), Amount: amount})
	}

	total, err := h.Engine.SetPayments(r.Context(), id, rows)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LedgerTotalDTO{Total: total.String()})
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	payments, err := h.Engine.Payments(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]PaymentRowDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentRowDTO{Method: string(p.Method), Amount: p.Amount.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// VOUCHER HANDLERS
// =============================================================================

func (h *Handler) CreateVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	actor := actorID(r)
	if actor == "" {
		writeError(w, http.StatusBadRequest, "X-Actor-ID header is required", nil)
		return
	}

	var req CreateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	voucher, err := h.Engine.CreateVoucher(r.Context(), id, amount, req.Reason, actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, voucherDTO(&voucher))
}

func (h *Handler) ListShiftVouchers(w http.ResponseWriter, r *http.Request) {
	id, ok := shiftIDParam(w, r)
	if !ok {
		return
	}

	vouchers, err := h.Engine.Vouchers(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voucherDTOs(vouchers))
}

func (h *Handler) JustifyVoucher(w http.ResponseWriter, r *http.Request) {
	voucherID := cashier.VoucherID(chi.URLParam(r, "id"))

	var req struct {
		ActingShiftID int64 `json:"acting_shift_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Engine.JustifyVoucher(r.Context(), voucherID, cashier.ShiftID(req.ActingShiftID), actorID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(cashier.VoucherJustified)})
}

func (h *Handler) CancelVoucher(w http.ResponseWriter, r *http.Request) {
	voucherID := cashier.VoucherID(chi.URLParam(r, "id"))

	if err := h.Engine.CancelVoucher(r.Context(), voucherID, actorID(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": string(cashier.VoucherCancelled)})
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

func (h *Handler) ListDayShifts(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	shifts, err := h.Engine.ShiftsForDay(r.Context(), date)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i := range shifts {
		dtos[i] = shiftDTO(&shifts[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListDayPendingVouchers(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	vouchers, err := h.Engine.PendingVouchersForDay(r.Context(), date)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voucherDTOs(vouchers))
}

func (h *Handler) GetDayReport(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	summary, err := h.Reports.DaySummary(r.Context(), date)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, daySummaryDTO(summary))
}

// GetCatalogs returns the fixed denomination and payment-method catalogs so
// clients can render count forms without hardcoding them.
func (h *Handler) GetCatalogs(w http.ResponseWriter, r *http.Request) {
	dto := CatalogsDTO{}
	for _, d := range cashier.Denominations {
		dto.Denominations = append(dto.Denominations, d.String())
	}
	for _, m := range cashier.PaymentMethods {
		dto.PaymentMethods = append(dto.PaymentMethods, string(m))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func shiftIDParam(w http.ResponseWriter, r *http.Request) (cashier.ShiftID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift id", err)
		return 0, false
	}
	return cashier.ShiftID(id), true
}

func dateParam(w http.ResponseWriter, r *http.Request) (cashier.Date, bool) {
	date, err := cashier.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return cashier.Date{}, false
	}
	return date, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func voucherDTOs(vouchers []cashier.Voucher) []VoucherDTO {
	dtos := make([]VoucherDTO, len(vouchers))
	for i := range vouchers {
		dtos[i] = voucherDTO(&vouchers[i])
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error kinds onto HTTP statuses, preserving the
// kind so clients can branch without parsing message text.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case cashier.IsNotFound(err):
		status = http.StatusNotFound
	case cashier.IsClientError(err):
		status = http.StatusBadRequest
	case cashier.IsConflict(err):
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: errorKind(err)})
}

func errorKind(err error) string {
	for kind, sentinel := range map[string]error{
		"shift_not_open":         cashier.ErrShiftNotOpen,
		"shift_not_closed":       cashier.ErrShiftNotClosed,
		"invalid_amount":         cashier.ErrInvalidAmount,
		"invalid_quantity":       cashier.ErrInvalidQuantity,
		"invalid_initial_fund":   cashier.ErrInvalidInitialFund,
		"invalid_reason":         cashier.ErrInvalidReason,
		"invalid_shift_type":     cashier.ErrInvalidShiftType,
		"unknown_denomination":   cashier.ErrUnknownDenomination,
		"unknown_payment_method": cashier.ErrUnknownPaymentMethod,
		"voucher_limit_reached":  cashier.ErrVoucherLimitReached,
		"voucher_not_pending":    cashier.ErrVoucherNotPending,
		"voucher_day_mismatch":   cashier.ErrVoucherDayMismatch,
		"cash_count_missing":     cashier.ErrCashCountMissing,
		"not_closing_shift":      cashier.ErrNotClosingShift,
		"shift_not_found":        cashier.ErrShiftNotFound,
		"voucher_not_found":      cashier.ErrVoucherNotFound,
	} {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return "internal"
}
