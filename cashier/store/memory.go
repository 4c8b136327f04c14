// Package store provides an in-memory cashier.Store implementation for
// testing and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fourpoints/cashier-engine/cashier"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	nextShiftID   cashier.ShiftID
	shifts        map[cashier.ShiftID]cashier.Shift
	denominations map[cashier.ShiftID][]cashier.DenominationCount
	payments      map[cashier.ShiftID][]cashier.PaymentEntry
	vouchers      map[cashier.VoucherID]cashier.Voucher
	audit         map[cashier.ShiftID][]cashier.AuditEvent
}

func NewMemory() *Memory {
	return &Memory{
		nextShiftID:   1,
		shifts:        make(map[cashier.ShiftID]cashier.Shift),
		denominations: make(map[cashier.ShiftID][]cashier.DenominationCount),
		payments:      make(map[cashier.ShiftID][]cashier.PaymentEntry),
		vouchers:      make(map[cashier.VoucherID]cashier.Voucher),
		audit:         make(map[cashier.ShiftID][]cashier.AuditEvent),
	}
}

// Compile-time check that Memory implements cashier.Store.
var _ cashier.Store = (*Memory)(nil)

// =============================================================================
// SHIFTS
// =============================================================================

func (m *Memory) CreateShift(_ context.Context, shift cashier.Shift) (cashier.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shift.ID = m.nextShiftID
	m.nextShiftID++
	m.shifts[shift.ID] = shift
	return shift, nil
}

func (m *Memory) GetShift(_ context.Context, id cashier.ShiftID) (*cashier.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shift, ok := m.shifts[id]
	if !ok {
		return nil, cashier.ErrShiftNotFound
	}
	copy := shift
	return &copy, nil
}

func (m *Memory) ShiftsByDate(_ context.Context, date cashier.Date) ([]cashier.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []cashier.Shift
	for _, s := range m.shifts {
		if s.Date.Equal(date) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) SetIncome(_ context.Context, id cashier.ShiftID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shift, ok := m.shifts[id]
	if !ok {
		return cashier.ErrShiftNotFound
	}
	shift.Income = amount
	m.shifts[id] = shift
	return nil
}

func (m *Memory) SetStatus(_ context.Context, id cashier.ShiftID, status cashier.ShiftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shift, ok := m.shifts[id]
	if !ok {
		return cashier.ErrShiftNotFound
	}
	shift.Status = status
	m.shifts[id] = shift
	return nil
}

// =============================================================================
// LEDGERS - Whole-snapshot swaps
// =============================================================================

func (m *Memory) ReplaceDenominations(_ context.Context, id cashier.ShiftID, rows []cashier.DenominationCount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shifts[id]; !ok {
		return cashier.ErrShiftNotFound
	}
	m.denominations[id] = append([]cashier.DenominationCount(nil), rows...)
	return nil
}

func (m *Memory) Denominations(_ context.Context, id cashier.ShiftID) ([]cashier.DenominationCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]cashier.DenominationCount(nil), m.denominations[id]...), nil
}

func (m *Memory) ReplacePayments(_ context.Context, id cashier.ShiftID, rows []cashier.PaymentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shifts[id]; !ok {
		return cashier.ErrShiftNotFound
	}
	m.payments[id] = append([]cashier.PaymentEntry(nil), rows...)
	return nil
}

func (m *Memory) Payments(_ context.Context, id cashier.ShiftID) ([]cashier.PaymentEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]cashier.PaymentEntry(nil), m.payments[id]...), nil
}

// =============================================================================
// VOUCHERS
// =============================================================================

func (m *Memory) InsertVoucher(_ context.Context, v cashier.Voucher) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shifts[v.ShiftID]; !ok {
		return cashier.ErrShiftNotFound
	}
	m.vouchers[v.ID] = v
	return nil
}

func (m *Memory) GetVoucher(_ context.Context, id cashier.VoucherID) (*cashier.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vouchers[id]
	if !ok {
		return nil, cashier.ErrVoucherNotFound
	}
	copy := v
	return &copy, nil
}

func (m *Memory) VouchersByShift(_ context.Context, id cashier.ShiftID) ([]cashier.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []cashier.Voucher
	for _, v := range m.vouchers {
		if v.ShiftID == id {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Memory) PendingVouchersByDate(_ context.Context, date cashier.Date) ([]cashier.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []cashier.Voucher
	for _, v := range m.vouchers {
		if v.Status != cashier.VoucherPending {
			continue
		}
		shift, ok := m.shifts[v.ShiftID]
		if ok && shift.Date.Equal(date) {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *Memory) SettleVoucher(_ context.Context, id cashier.VoucherID, status cashier.VoucherStatus, settledBy string, settledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vouchers[id]
	if !ok {
		return cashier.ErrVoucherNotFound
	}
	v.Status = status
	v.SettledBy = settledBy
	v.SettledAt = &settledAt
	m.vouchers[id] = v
	return nil
}

// =============================================================================
// AUDIT TRAIL - Append-only
// =============================================================================

func (m *Memory) AppendAudit(_ context.Context, e cashier.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit[e.ShiftID] = append(m.audit[e.ShiftID], e)
	return nil
}

func (m *Memory) AuditTrail(_ context.Context, id cashier.ShiftID) ([]cashier.AuditEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]cashier.AuditEvent(nil), m.audit[id]...), nil
}
