// Package sqlite implements the store contract on an embedded SQLite
// database. It is the durable single-file backend for on-premise installs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/settings"
	rentrollstore "github.com/xraph/rentroll/store"
	"github.com/xraph/rentroll/types"
)

// compile-time interface check
var _ rentrollstore.Store = (*Store)(nil)

// Store implements store.Store on database/sql with the modernc SQLite
// driver.
type Store struct {
	db *sql.DB
}

// New wraps an already-opened database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite database at path.
// Foreign keys and WAL journaling are enabled; a single writer connection
// avoids SQLITE_BUSY under concurrent job runs.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("rentroll/sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return New(db), nil
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate creates the required tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := runMigrations(ctx, s.db); err != nil {
		return fmt.Errorf("%w: %v", rentroll.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Customer Store ====================

func (s *Store) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	_, err := s.db.ExecContext(ctx,
		insertStmt("rentroll_customers", customerCols), customerArgs(c)...)
	return wrapConflict(err)
}

func (s *Store) GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM rentroll_customers WHERE id = ?`, customerID)
	c, err := scanCustomer(row)
	if isNoRows(err) {
		return nil, rentroll.ErrCustomerNotFound
	}
	return c, err
}

func (s *Store) ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	q := `SELECT ` + customerCols + ` FROM rentroll_customers`
	var args []any
	if opts.Kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, string(opts.Kind))
	}
	q += ` ORDER BY id` + limitClause(opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*customer.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE rentroll_customers SET
    kind = ?, name = ?, email = ?, rent_discount_bps = ?, meeting_discount_bps = ?,
    metadata = ?, updated_at = ?
WHERE id = ?`,
		string(c.Kind), c.Name, c.Email,
		c.RentDiscountRate.BasisPoints(), c.MeetingDiscountRate.BasisPoints(),
		marshalMap(c.Metadata), now(), c.ID)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrCustomerNotFound)
}

func (s *Store) DeleteCustomer(ctx context.Context, customerID id.CustomerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rentroll_customers WHERE id = ?`, customerID)
	return err
}

// ==================== Lease Store ====================

func (s *Store) CreateLease(ctx context.Context, l *lease.Lease) error {
	args, err := leaseArgs(l)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, insertStmt("rentroll_leases", leaseCols), args...)
	return wrapConflict(err)
}

func (s *Store) GetLease(ctx context.Context, leaseID id.LeaseID) (*lease.Lease, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaseCols+` FROM rentroll_leases WHERE id = ?`, leaseID)
	l, err := scanLease(row)
	if isNoRows(err) {
		return nil, rentroll.ErrLeaseNotFound
	}
	return l, err
}

func (s *Store) ListLeases(ctx context.Context, opts lease.ListOpts) ([]*lease.Lease, error) {
	q := `SELECT ` + leaseCols + ` FROM rentroll_leases`
	var (
		where []string
		args  []any
	)
	if opts.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(opts.Status))
	}
	if opts.Type != "" {
		where = append(where, `type = ?`)
		args = append(args, string(opts.Type))
	}
	if !opts.CustomerID.IsNil() {
		where = append(where, `customer_id = ?`)
		args = append(args, opts.CustomerID)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY id` + limitClause(opts.Limit, opts.Offset)

	return s.queryLeases(ctx, q, args...)
}

func (s *Store) UpdateLease(ctx context.Context, l *lease.Lease) error {
	args, err := leaseArgs(l)
	if err != nil {
		return err
	}
	// leaseArgs order: id first; shift it to the WHERE position.
	set := args[1:]
	res, err := s.db.ExecContext(ctx, `
UPDATE rentroll_leases SET
    customer_id = ?, status = ?, type = ?, vat_rate_bps = ?, vat_inclusive = ?,
    deposit_cents = ?, currency = ?, start_date = ?, end_date = ?,
    last_indexed_year = ?, expiry_notified_at = ?, spaces = ?, flex = ?,
    metadata = ?, created_at = ?, updated_at = ?
WHERE id = ?`, append(set, l.ID)...)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrLeaseNotFound)
}

func (s *Store) DeleteLease(ctx context.Context, leaseID id.LeaseID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rentroll_leases WHERE id = ?`, leaseID)
	return err
}

func (s *Store) ListExpiringLeases(ctx context.Context, by time.Time) ([]*lease.Lease, error) {
	return s.queryLeases(ctx, `
SELECT `+leaseCols+` FROM rentroll_leases
WHERE status = ? AND end_date IS NOT NULL AND end_date <= ?
ORDER BY end_date ASC`, string(lease.StatusActive), by)
}

func (s *Store) queryLeases(ctx context.Context, q string, args ...any) ([]*lease.Lease, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*lease.Lease, 0)
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// ==================== Booking Store ====================

func (s *Store) CreateBooking(ctx context.Context, b *booking.Booking) error {
	_, err := s.db.ExecContext(ctx,
		insertStmt("rentroll_bookings", bookingCols), bookingArgs(b)...)
	return wrapConflict(err)
}

func (s *Store) GetBooking(ctx context.Context, bookingID id.BookingID) (*booking.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingCols+` FROM rentroll_bookings WHERE id = ?`, bookingID)
	b, err := scanBooking(row)
	if isNoRows(err) {
		return nil, rentroll.ErrBookingNotFound
	}
	return b, err
}

func (s *Store) ListBookings(ctx context.Context, opts booking.ListOpts) ([]*booking.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM rentroll_bookings`
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, `kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(opts.Status))
	}
	if !opts.CustomerID.IsNil() {
		where = append(where, `customer_id = ?`)
		args = append(args, opts.CustomerID)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY booking_date ASC` + limitClause(opts.Limit, opts.Offset)

	return s.queryBookings(ctx, q, args...)
}

func (s *Store) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE rentroll_bookings SET
    kind = ?, customer_id = ?, booking_date = ?, start_time = ?, end_time = ?,
    half_day = ?, total_cents = ?, discount_cents = ?, currency = ?, status = ?,
    invoice_id = ?, description = ?, updated_at = ?
WHERE id = ?`,
		string(b.Kind), b.CustomerID, b.Date, b.StartTime, b.EndTime,
		b.HalfDay, b.TotalAmount.Amount, b.DiscountAmount.Amount, b.TotalAmount.Currency,
		string(b.Status), b.InvoiceID, b.Description, now(), b.ID)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrBookingNotFound)
}

func (s *Store) ListBillableBookings(ctx context.Context, customerID id.CustomerID, month types.Month) ([]*booking.Booking, error) {
	return s.queryBookings(ctx, `
SELECT `+bookingCols+` FROM rentroll_bookings
WHERE customer_id = ? AND status = ? AND invoice_id IS NULL
  AND booking_date >= ? AND booking_date < ?
ORDER BY booking_date ASC`,
		customerID, string(booking.StatusCompleted), month.Start(), month.End())
}

func (s *Store) ListConfirmedBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	return s.queryBookings(ctx, `
SELECT `+bookingCols+` FROM rentroll_bookings
WHERE status = ? AND booking_date < ?
ORDER BY booking_date ASC`, string(booking.StatusConfirmed), cutoff)
}

func (s *Store) SetBookingInvoice(ctx context.Context, bookingID id.BookingID, invoiceID id.InvoiceID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rentroll_bookings SET invoice_id = ?, updated_at = ? WHERE id = ?`,
		invoiceID, now(), bookingID)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrBookingNotFound)
}

func (s *Store) queryBookings(ctx context.Context, q string, args ...any) ([]*booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*booking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	_, err := s.db.ExecContext(ctx,
		insertStmt("rentroll_invoices", invoiceCols), invoiceArgs(inv)...)
	return wrapConflict(err)
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invoiceCols+` FROM rentroll_invoices WHERE id = ?`, invoiceID)
	inv, err := scanInvoice(row)
	if isNoRows(err) {
		return nil, rentroll.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	q := `SELECT ` + invoiceCols + ` FROM rentroll_invoices`
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, `kind = ?`)
		args = append(args, string(opts.Kind))
	}
	if opts.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(opts.Status))
	}
	if !opts.CustomerID.IsNil() {
		where = append(where, `customer_id = ?`)
		args = append(args, opts.CustomerID)
	}
	if !opts.Month.IsZero() {
		where = append(where, `invoice_month = ?`)
		args = append(args, opts.Month.String())
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY number ASC` + limitClause(opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range result {
		if err := s.loadLineItems(ctx, inv); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	month := ""
	if !inv.Month.IsZero() {
		month = inv.Month.String()
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE rentroll_invoices SET
    number = ?, kind = ?, customer_id = ?, lease_id = ?, invoice_month = ?,
    subtotal_cents = ?, vat_cents = ?, total_cents = ?, currency = ?,
    vat_rate_bps = ?, vat_inclusive = ?, status = ?, applied_credit_cents = ?,
    notes = ?, due_date = ?, sent_at = ?, paid_at = ?, updated_at = ?
WHERE id = ?`,
		inv.Number, string(inv.Kind), inv.CustomerID, inv.LeaseID, month,
		inv.Subtotal.Amount, inv.VATAmount.Amount, inv.Amount.Amount, inv.Amount.Currency,
		inv.VATRate.BasisPoints(), inv.VATInclusive, string(inv.Status), inv.AppliedCredit.Amount,
		inv.Notes, nullTime(inv.DueDate), nullTime(inv.SentAt), nullTime(inv.PaidAt), now(), inv.ID)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrInvoiceNotFound)
}

// DeleteInvoice removes the invoice and its line items. It is the
// compensation step for a failed generation, so it must leave nothing
// behind.
func (s *Store) DeleteInvoice(ctx context.Context, invoiceID id.InvoiceID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rentroll_line_items WHERE invoice_id = ?`, invoiceID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rentroll_invoices WHERE id = ?`, invoiceID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) AddLineItems(ctx context.Context, invoiceID id.InvoiceID, items []*invoice.LineItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt := insertStmt("rentroll_line_items", lineItemCols)
	for _, it := range items {
		it.InvoiceID = invoiceID
		if _, err := tx.ExecContext(ctx, stmt, lineItemArgs(it)...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) FindRentInvoice(ctx context.Context, leaseID id.LeaseID, month types.Month) (*invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+invoiceCols+` FROM rentroll_invoices
WHERE kind = ? AND lease_id = ? AND invoice_month = ?`,
		string(invoice.KindRent), leaseID, month.String())
	inv, err := scanInvoice(row)
	if isNoRows(err) {
		return nil, rentroll.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) FindUsageInvoice(ctx context.Context, customerID id.CustomerID, month types.Month) (*invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+invoiceCols+` FROM rentroll_invoices
WHERE kind = ? AND customer_id = ? AND invoice_month = ?`,
		string(invoice.KindUsage), customerID, month.String())
	inv, err := scanInvoice(row)
	if isNoRows(err) {
		return nil, rentroll.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Store) loadLineItems(ctx context.Context, inv *invoice.Invoice) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lineItemCols+` FROM rentroll_line_items WHERE invoice_id = ? ORDER BY id`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	inv.LineItems = inv.LineItems[:0]
	for rows.Next() {
		it, err := scanLineItem(rows)
		if err != nil {
			return err
		}
		inv.LineItems = append(inv.LineItems, *it)
	}
	return rows.Err()
}

// ==================== Credit Store ====================

func (s *Store) CreateCreditNote(ctx context.Context, n *credit.CreditNote) error {
	_, err := s.db.ExecContext(ctx,
		insertStmt("rentroll_credit_notes", creditNoteCols), creditNoteArgs(n)...)
	return wrapConflict(err)
}

func (s *Store) GetCreditNote(ctx context.Context, noteID id.CreditNoteID) (*credit.CreditNote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+creditNoteCols+` FROM rentroll_credit_notes WHERE id = ?`, noteID)
	n, err := scanCreditNote(row)
	if isNoRows(err) {
		return nil, rentroll.ErrCreditNoteNotFound
	}
	return n, err
}

func (s *Store) ListCreditNotes(ctx context.Context, opts credit.ListOpts) ([]*credit.CreditNote, error) {
	q := `SELECT ` + creditNoteCols + ` FROM rentroll_credit_notes`
	var (
		where []string
		args  []any
	)
	if opts.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(opts.Status))
	}
	if !opts.CustomerID.IsNil() {
		where = append(where, `customer_id = ?`)
		args = append(args, opts.CustomerID)
	}
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY number ASC` + limitClause(opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*credit.CreditNote, 0)
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (s *Store) UpdateCreditNote(ctx context.Context, n *credit.CreditNote) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE rentroll_credit_notes SET
    number = ?, customer_id = ?, original_invoice_id = ?, total_cents = ?,
    currency = ?, status = ?, reason = ?, issued_at = ?, updated_at = ?
WHERE id = ?`,
		n.Number, n.CustomerID, n.OriginalInvoiceID, n.TotalAmount.Amount,
		n.TotalAmount.Currency, string(n.Status), n.Reason, nullTime(n.IssuedAt), now(), n.ID)
	if err != nil {
		return err
	}
	return requireRows(res, rentroll.ErrCreditNoteNotFound)
}

func (s *Store) CreateCreditApplication(ctx context.Context, a *credit.CreditApplication) error {
	_, err := s.db.ExecContext(ctx,
		insertStmt("rentroll_credit_applications", creditAppCols), creditAppArgs(a)...)
	return wrapConflict(err)
}

func (s *Store) ListCreditApplications(ctx context.Context, noteID id.CreditNoteID) ([]*credit.CreditApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+creditAppCols+` FROM rentroll_credit_applications
WHERE credit_note_id = ? ORDER BY applied_at ASC`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*credit.CreditApplication, 0)
	for rows.Next() {
		a, err := scanCreditApp(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// ==================== Job Store ====================

func (s *Store) GetJob(ctx context.Context, jobType schedule.JobType) (*schedule.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobCols+` FROM rentroll_jobs WHERE job_type = ?`, string(jobType))
	j, err := scanJob(row)
	if isNoRows(err) {
		return nil, rentroll.ErrJobNotFound
	}
	return j, err
}

func (s *Store) ListJobs(ctx context.Context) ([]*schedule.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobCols+` FROM rentroll_jobs ORDER BY job_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*schedule.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

func (s *Store) PutJob(ctx context.Context, j *schedule.Job) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rentroll_jobs (job_type, enabled, last_run_at, next_run_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (job_type) DO UPDATE SET
    enabled = excluded.enabled,
    last_run_at = excluded.last_run_at,
    next_run_at = excluded.next_run_at`,
		string(j.Type), j.Enabled, nullTime(j.LastRunAt), j.NextRunAt)
	return err
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT test_mode, test_date, indexation_bps, expiry_notice_days, created_at, updated_at
FROM rentroll_settings WHERE id = 1`)
	cfg, err := scanSettings(row)
	if isNoRows(err) {
		return settings.Default(), nil
	}
	return cfg, err
}

func (s *Store) PutSettings(ctx context.Context, cfg *settings.Settings) error {
	var testDate sql.NullTime
	if !cfg.TestDate.IsZero() {
		testDate = sql.NullTime{Time: cfg.TestDate, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rentroll_settings (id, test_mode, test_date, indexation_bps, expiry_notice_days, created_at, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    test_mode = excluded.test_mode,
    test_date = excluded.test_date,
    indexation_bps = excluded.indexation_bps,
    expiry_notice_days = excluded.expiry_notice_days,
    updated_at = excluded.updated_at`,
		cfg.TestMode, testDate, cfg.IndexationRate.BasisPoints(), cfg.ExpiryNoticeDays,
		now(), now())
	return err
}

// ==================== Counters ====================

func (s *Store) NextInvoiceNumber(ctx context.Context) (int64, error) {
	return s.nextSequence(ctx, "invoice")
}

func (s *Store) NextCreditNoteNumber(ctx context.Context) (int64, error) {
	return s.nextSequence(ctx, "credit_note")
}

// nextSequence atomically increments and returns the named counter.
// The upsert-with-RETURNING form makes concurrent callers serialize on the
// row, so numbers are unique and never reused.
func (s *Store) nextSequence(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO rentroll_sequences (name, value) VALUES (?, 1)
ON CONFLICT (name) DO UPDATE SET value = value + 1
RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("rentroll/sqlite: next %s number: %w", name, err)
	}
	return value, nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// insertStmt builds an INSERT with one placeholder per column.
func insertStmt(table, cols string) string {
	n := strings.Count(cols, ",") + 1
	marks := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, marks)
}

// limitClause renders LIMIT/OFFSET; SQLite requires LIMIT when OFFSET is used.
func limitClause(limit, offset int) string {
	if limit <= 0 && offset <= 0 {
		return ""
	}
	if limit <= 0 {
		limit = -1
	}
	clause := fmt.Sprintf(" LIMIT %d", limit)
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", offset)
	}
	return clause
}

// requireRows maps a zero-row UPDATE/DELETE to the given sentinel.
func requireRows(res sql.Result, sentinel error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sentinel
	}
	return nil
}

// wrapConflict maps unique-constraint violations onto ErrAlreadyExists so
// callers can rely on one sentinel across backends.
func wrapConflict(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %v", rentroll.ErrAlreadyExists, err)
	}
	return err
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
