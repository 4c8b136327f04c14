/*
Package sqlite provides the SQLite-backed implementation of cashier.Store.

PURPOSE:
  Production persistence for shifts, ledger snapshots, vouchers, and the
  close/reopen audit trail. The same patterns apply to PostgreSQL with minor
  dialect changes.

KEY TABLES:
  shifts:        One row per shift (type, date, status, initial fund, income)
  shift_users:   Operators assigned to a shift (primary flag informational)
  denominations: Cash-count rows, one per (shift, denomination)
  payments:      Electronic-payment rows, one per (shift, method)
  vouchers:      Petty-cash vouchers with lifecycle fields
  shift_audit:   Append-only close/reopen events

REPLACE-NOT-MERGE:
  ReplaceDenominations and ReplacePayments run DELETE + INSERT inside one
  database transaction, so a ledger save is a whole-snapshot swap and a
  failed save leaves the previous snapshot intact.

MONEY:
  Decimal amounts are stored as TEXT and parsed with shopspring/decimal.
  Never store money as REAL.

WAL MODE:
  Opened with WAL for better read concurrency; foreign keys are enforced.

SEE ALSO:
  - cashier/store.go: Interface definition
  - cashier/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fourpoints/cashier-engine/cashier"
)

// Store implements cashier.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time check.
var _ cashier.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS shifts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shift_type TEXT NOT NULL,
		shift_date TEXT NOT NULL,
		status TEXT NOT NULL,
		initial_fund TEXT NOT NULL,
		income TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_date ON shifts(shift_date);

	CREATE TABLE IF NOT EXISTS shift_users (
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		user_id TEXT NOT NULL,
		is_primary INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (shift_id, user_id)
	);

	-- One row per (shift, denomination); saves are whole-snapshot swaps
	CREATE TABLE IF NOT EXISTS denominations (
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		denomination TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (shift_id, denomination)
	);

	CREATE TABLE IF NOT EXISTS payments (
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		method TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (shift_id, method)
	);

	CREATE TABLE IF NOT EXISTS vouchers (
		id TEXT PRIMARY KEY,
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		amount TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		settled_by TEXT,
		settled_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_vouchers_shift ON vouchers(shift_id);
	CREATE INDEX IF NOT EXISTS idx_vouchers_status ON vouchers(status);

	-- Append-only: no UPDATE or DELETE is ever issued against this table
	CREATE TABLE IF NOT EXISTS shift_audit (
		id TEXT PRIMARY KEY,
		shift_id INTEGER NOT NULL REFERENCES shifts(id),
		action TEXT NOT NULL,
		reason TEXT,
		actor_id TEXT NOT NULL,
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_shift ON shift_audit(shift_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) CreateShift(ctx context.Context, shift cashier.Shift) (cashier.Shift, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return cashier.Shift{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO shifts (shift_type, shift_date, status, initial_fund, income, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(shift.Type), shift.Date.String(), string(shift.Status),
		shift.InitialFund.String(), shift.Income.String(),
		shift.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return cashier.Shift{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return cashier.Shift{}, err
	}
	shift.ID = cashier.ShiftID(id)

	for _, u := range shift.Users {
		primary := 0
		if u.Primary {
			primary = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shift_users (shift_id, user_id, is_primary) VALUES (?, ?, ?)`,
			id, u.UserID, primary); err != nil {
			return cashier.Shift{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return cashier.Shift{}, err
	}
	return shift, nil
}

func (s *Store) GetShift(ctx context.Context, id cashier.ShiftID) (*cashier.Shift, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, shift_type, shift_date, status, initial_fund, income, created_at
		 FROM shifts WHERE id = ?`, int64(id))

	shift, err := scanShift(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, is_primary FROM shift_users WHERE shift_id = ? ORDER BY user_id`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var primary int
		if err := rows.Scan(&userID, &primary); err != nil {
			return nil, err
		}
		shift.Users = append(shift.Users, cashier.ShiftUser{UserID: userID, Primary: primary != 0})
	}
	return shift, rows.Err()
}

func (s *Store) ShiftsByDate(ctx context.Context, date cashier.Date) ([]cashier.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shift_type, shift_date, status, initial_fund, income, created_at
		 FROM shifts WHERE shift_date = ? ORDER BY id`, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []cashier.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *shift)
	}
	return result, rows.Err()
}

func (s *Store) SetIncome(ctx context.Context, id cashier.ShiftID, amount decimal.Decimal) error {
	return s.updateShift(ctx, id, `UPDATE shifts SET income = ? WHERE id = ?`, amount.String())
}

func (s *Store) SetStatus(ctx context.Context, id cashier.ShiftID, status cashier.ShiftStatus) error {
	return s.updateShift(ctx, id, `UPDATE shifts SET status = ? WHERE id = ?`, string(status))
}

func (s *Store) updateShift(ctx context.Context, id cashier.ShiftID, query string, value string) error {
	res, err := s.db.ExecContext(ctx, query, value, int64(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return cashier.ErrShiftNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*cashier.Shift, error) {
	var (
		id                          int64
		shiftType, dateStr, status  string
		initialFund, income, create string
	)
	if err := row.Scan(&id, &shiftType, &dateStr, &status, &initialFund, &income, &create); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cashier.ErrShiftNotFound
		}
		return nil, err
	}

	date, err := cashier.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt shift_date %q: %w", dateStr, err)
	}
	fund, err := decimal.NewFromString(initialFund)
	if err != nil {
		return nil, fmt.Errorf("corrupt initial_fund %q: %w", initialFund, err)
	}
	inc, err := decimal.NewFromString(income)
	if err != nil {
		return nil, fmt.Errorf("corrupt income %q: %w", income, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, create)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", create, err)
	}

	return &cashier.Shift{
		ID:          cashier.ShiftID(id),
		Type:        cashier.ShiftType(shiftType),
		Date:        date,
		Status:      cashier.ShiftStatus(status),
		InitialFund: fund,
		Income:      inc,
		CreatedAt:   createdAt,
	}, nil
}

// =============================================================================
// LEDGERS - DELETE + INSERT inside one transaction per save
// =============================================================================

func (s *Store) ReplaceDenominations(ctx context.Context, id cashier.ShiftID, rows []cashier.DenominationCount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM denominations WHERE shift_id = ?`, int64(id)); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO denominations (shift_id, denomination, quantity) VALUES (?, ?, ?)`,
			int64(id), r.Denomination.String(), r.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Denominations(ctx context.Context, id cashier.ShiftID) ([]cashier.DenominationCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT denomination, quantity FROM denominations
		 WHERE shift_id = ? ORDER BY CAST(denomination AS REAL) DESC`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []cashier.DenominationCount
	for rows.Next() {
		var value string
		var qty int64
		if err := rows.Scan(&value, &qty); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt denomination %q: %w", value, err)
		}
		result = append(result, cashier.DenominationCount{Denomination: d, Quantity: qty})
	}
	return result, rows.Err()
}

func (s *Store) ReplacePayments(ctx context.Context, id cashier.ShiftID, rows []cashier.PaymentEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE shift_id = ?`, int64(id)); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payments (shift_id, method, amount) VALUES (?, ?, ?)`,
			int64(id), string(r.Method), r.Amount.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Payments(ctx context.Context, id cashier.ShiftID) ([]cashier.PaymentEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT method, amount FROM payments WHERE shift_id = ? ORDER BY method`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []cashier.PaymentEntry
	for rows.Next() {
		var method, amount string
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, err
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt payment amount %q: %w", amount, err)
		}
		result = append(result, cashier.PaymentEntry{Method: cashier.PaymentMethod(method), Amount: a})
	}
	return result, rows.Err()
}

// =============================================================================
// VOUCHERS
// =============================================================================

func (s *Store) InsertVoucher(ctx context.Context, v cashier.Voucher) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO vouchers (id, shift_id, amount, reason, status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(v.ID), int64(v.ShiftID), v.Amount.String(), v.Reason, string(v.Status),
		v.CreatedBy, v.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) GetVoucher(ctx context.Context, id cashier.VoucherID) (*cashier.Voucher, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, shift_id, amount, reason, status, created_by, created_at, settled_by, settled_at
		 FROM vouchers WHERE id = ?`, string(id))
	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cashier.ErrVoucherNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *Store) VouchersByShift(ctx context.Context, id cashier.ShiftID) ([]cashier.Voucher, error) {
	return s.queryVouchers(ctx,
		`SELECT id, shift_id, amount, reason, status, created_by, created_at, settled_by, settled_at
		 FROM vouchers WHERE shift_id = ? ORDER BY created_at`, int64(id))
}

func (s *Store) PendingVouchersByDate(ctx context.Context, date cashier.Date) ([]cashier.Voucher, error) {
	return s.queryVouchers(ctx,
		`SELECT v.id, v.shift_id, v.amount, v.reason, v.status, v.created_by, v.created_at, v.settled_by, v.settled_at
		 FROM vouchers v
		 JOIN shifts s ON s.id = v.shift_id
		 WHERE v.status = 'pending' AND s.shift_date = ?
		 ORDER BY v.created_at`, date.String())
}

func (s *Store) queryVouchers(ctx context.Context, query string, arg any) ([]cashier.Voucher, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []cashier.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	return result, rows.Err()
}

func (s *Store) SettleVoucher(ctx context.Context, id cashier.VoucherID, status cashier.VoucherStatus, settledBy string, settledAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vouchers SET status = ?, settled_by = ?, settled_at = ? WHERE id = ?`,
		string(status), settledBy, settledAt.UTC().Format(time.RFC3339Nano), string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return cashier.ErrVoucherNotFound
	}
	return nil
}

func scanVoucher(row rowScanner) (*cashier.Voucher, error) {
	var (
		id, amount, reason, status, createdBy, createdAt string
		shiftID                                          int64
		settledBy, settledAt                             sql.NullString
	)
	if err := row.Scan(&id, &shiftID, &amount, &reason, &status, &createdBy, &createdAt, &settledBy, &settledAt); err != nil {
		return nil, err
	}

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt voucher amount %q: %w", amount, err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}

	v := &cashier.Voucher{
		ID:        cashier.VoucherID(id),
		ShiftID:   cashier.ShiftID(shiftID),
		Amount:    a,
		Reason:    reason,
		Status:    cashier.VoucherStatus(status),
		CreatedBy: createdBy,
		CreatedAt: created,
	}
	if settledBy.Valid {
		v.SettledBy = settledBy.String
	}
	if settledAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, settledAt.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt settled_at %q: %w", settledAt.String, err)
		}
		v.SettledAt = &t
	}
	return v, nil
}

// =============================================================================
// AUDIT TRAIL - Append-only
// =============================================================================

func (s *Store) AppendAudit(ctx context.Context, e cashier.AuditEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shift_audit (id, shift_id, action, reason, actor_id, at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, int64(e.ShiftID), string(e.Action), e.Reason, e.ActorID,
		e.At.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) AuditTrail(ctx context.Context, id cashier.ShiftID) ([]cashier.AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, shift_id, action, reason, actor_id, at
		 FROM shift_audit WHERE shift_id = ? ORDER BY at`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []cashier.AuditEvent
	for rows.Next() {
		var (
			eid, action, actorID, at string
			reason                   sql.NullString
			shiftID                  int64
		)
		if err := rows.Scan(&eid, &shiftID, &action, &reason, &actorID, &at); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("corrupt audit timestamp %q: %w", at, err)
		}
		result = append(result, cashier.AuditEvent{
			ID:      eid,
			ShiftID: cashier.ShiftID(shiftID),
			Action:  cashier.AuditAction(action),
			Reason:  reason.String,
			ActorID: actorID,
			At:      ts,
		})
	}
	return result, rows.Err()
}
