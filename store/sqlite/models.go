package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/settings"
	"github.com/xraph/rentroll/types"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ==================== Customers ====================

const customerCols = `id, kind, name, email, rent_discount_bps, meeting_discount_bps, metadata, created_at, updated_at`

func customerArgs(c *customer.Customer) []any {
	return []any{
		c.ID, string(c.Kind), c.Name, c.Email,
		c.RentDiscountRate.BasisPoints(), c.MeetingDiscountRate.BasisPoints(),
		marshalMap(c.Metadata), c.CreatedAt, c.UpdatedAt,
	}
}

func scanCustomer(sc scanner) (*customer.Customer, error) {
	var (
		c          customer.Customer
		kind       string
		rentBps    int64
		meetingBps int64
		meta       string
	)
	if err := sc.Scan(&c.ID, &kind, &c.Name, &c.Email, &rentBps, &meetingBps, &meta,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Kind = customer.Kind(kind)
	c.RentDiscountRate = types.RateFromBasisPoints(rentBps)
	c.MeetingDiscountRate = types.RateFromBasisPoints(meetingBps)
	if err := unmarshalMap(meta, &c.Metadata); err != nil {
		return nil, err
	}
	return &c, nil
}

// ==================== Leases ====================

const leaseCols = `id, customer_id, status, type, vat_rate_bps, vat_inclusive, deposit_cents, currency,
start_date, end_date, last_indexed_year, expiry_notified_at, spaces, flex, metadata, created_at, updated_at`

func leaseArgs(l *lease.Lease) ([]any, error) {
	spaces, err := json.Marshal(l.Spaces)
	if err != nil {
		return nil, fmt.Errorf("rentroll/sqlite: marshal lease spaces: %w", err)
	}
	var flex sql.NullString
	if l.Flex != nil {
		raw, err := json.Marshal(l.Flex)
		if err != nil {
			return nil, fmt.Errorf("rentroll/sqlite: marshal flex pricing: %w", err)
		}
		flex = sql.NullString{String: string(raw), Valid: true}
	}
	return []any{
		l.ID, l.CustomerID, string(l.Status), string(l.Type),
		l.VATRate.BasisPoints(), l.VATInclusive,
		l.SecurityDeposit.Amount, l.SecurityDeposit.Currency,
		l.StartDate, nullTime(l.EndDate), l.LastIndexedYear, nullTime(l.ExpiryNotifiedAt),
		string(spaces), flex, marshalMap(l.Metadata), l.CreatedAt, l.UpdatedAt,
	}, nil
}

func scanLease(sc scanner) (*lease.Lease, error) {
	var (
		l            lease.Lease
		status, typ  string
		vatBps       int64
		depositCents int64
		currency     string
		endDate      sql.NullTime
		notifiedAt   sql.NullTime
		spaces       string
		flex         sql.NullString
		meta         string
	)
	if err := sc.Scan(&l.ID, &l.CustomerID, &status, &typ, &vatBps, &l.VATInclusive,
		&depositCents, &currency, &l.StartDate, &endDate, &l.LastIndexedYear, &notifiedAt,
		&spaces, &flex, &meta, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = lease.Status(status)
	l.Type = lease.Type(typ)
	l.VATRate = types.RateFromBasisPoints(vatBps)
	l.SecurityDeposit = types.Cents(depositCents, currency)
	l.EndDate = timePtr(endDate)
	l.ExpiryNotifiedAt = timePtr(notifiedAt)
	if err := json.Unmarshal([]byte(spaces), &l.Spaces); err != nil {
		return nil, fmt.Errorf("rentroll/sqlite: unmarshal lease spaces: %w", err)
	}
	if flex.Valid {
		var fp lease.FlexPricing
		if err := json.Unmarshal([]byte(flex.String), &fp); err != nil {
			return nil, fmt.Errorf("rentroll/sqlite: unmarshal flex pricing: %w", err)
		}
		l.Flex = &fp
	}
	if err := unmarshalMap(meta, &l.Metadata); err != nil {
		return nil, err
	}
	return &l, nil
}

// ==================== Bookings ====================

const bookingCols = `id, kind, customer_id, booking_date, start_time, end_time, half_day,
total_cents, discount_cents, currency, status, invoice_id, description, created_at, updated_at`

func bookingArgs(b *booking.Booking) []any {
	return []any{
		b.ID, string(b.Kind), b.CustomerID, b.Date, b.StartTime, b.EndTime, b.HalfDay,
		b.TotalAmount.Amount, b.DiscountAmount.Amount, b.TotalAmount.Currency,
		string(b.Status), b.InvoiceID, b.Description, b.CreatedAt, b.UpdatedAt,
	}
}

func scanBooking(sc scanner) (*booking.Booking, error) {
	var (
		b             booking.Booking
		kind, status  string
		totalCents    int64
		discountCents int64
		currency      string
	)
	if err := sc.Scan(&b.ID, &kind, &b.CustomerID, &b.Date, &b.StartTime, &b.EndTime,
		&b.HalfDay, &totalCents, &discountCents, &currency, &status, &b.InvoiceID,
		&b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Kind = booking.Kind(kind)
	b.Status = booking.Status(status)
	b.TotalAmount = types.Cents(totalCents, currency)
	b.DiscountAmount = types.Cents(discountCents, currency)
	return &b, nil
}

// ==================== Invoices ====================

const invoiceCols = `id, number, kind, customer_id, lease_id, invoice_month,
subtotal_cents, vat_cents, total_cents, currency, vat_rate_bps, vat_inclusive,
status, applied_credit_cents, notes, due_date, sent_at, paid_at, created_at, updated_at`

func invoiceArgs(inv *invoice.Invoice) []any {
	month := ""
	if !inv.Month.IsZero() {
		month = inv.Month.String()
	}
	return []any{
		inv.ID, inv.Number, string(inv.Kind), inv.CustomerID, inv.LeaseID, month,
		inv.Subtotal.Amount, inv.VATAmount.Amount, inv.Amount.Amount, inv.Amount.Currency,
		inv.VATRate.BasisPoints(), inv.VATInclusive,
		string(inv.Status), inv.AppliedCredit.Amount, inv.Notes,
		nullTime(inv.DueDate), nullTime(inv.SentAt), nullTime(inv.PaidAt),
		inv.CreatedAt, inv.UpdatedAt,
	}
}

func scanInvoice(sc scanner) (*invoice.Invoice, error) {
	var (
		inv            invoice.Invoice
		kind, status   string
		month          string
		subtotalCents  int64
		vatCents       int64
		totalCents     int64
		currency       string
		vatBps         int64
		creditCents    int64
		due, sent, pay sql.NullTime
	)
	if err := sc.Scan(&inv.ID, &inv.Number, &kind, &inv.CustomerID, &inv.LeaseID, &month,
		&subtotalCents, &vatCents, &totalCents, &currency, &vatBps, &inv.VATInclusive,
		&status, &creditCents, &inv.Notes, &due, &sent, &pay,
		&inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Kind = invoice.Kind(kind)
	inv.Status = invoice.Status(status)
	if month != "" {
		m, err := types.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("rentroll/sqlite: invoice month %q: %w", month, err)
		}
		inv.Month = m
	}
	inv.Subtotal = types.Cents(subtotalCents, currency)
	inv.VATAmount = types.Cents(vatCents, currency)
	inv.Amount = types.Cents(totalCents, currency)
	inv.VATRate = types.RateFromBasisPoints(vatBps)
	inv.AppliedCredit = types.Cents(creditCents, currency)
	inv.DueDate = timePtr(due)
	inv.SentAt = timePtr(sent)
	inv.PaidAt = timePtr(pay)
	return &inv, nil
}

const lineItemCols = `id, invoice_id, description, quantity, unit_cents, amount_cents, currency, booking_id`

func lineItemArgs(it *invoice.LineItem) []any {
	return []any{
		it.ID, it.InvoiceID, it.Description, it.Quantity,
		it.UnitPrice.Amount, it.Amount.Amount, it.Amount.Currency, it.BookingID,
	}
}

func scanLineItem(sc scanner) (*invoice.LineItem, error) {
	var (
		it          invoice.LineItem
		unitCents   int64
		amountCents int64
		currency    string
	)
	if err := sc.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity,
		&unitCents, &amountCents, &currency, &it.BookingID); err != nil {
		return nil, err
	}
	it.UnitPrice = types.Cents(unitCents, currency)
	it.Amount = types.Cents(amountCents, currency)
	return &it, nil
}

// ==================== Credit notes ====================

const creditNoteCols = `id, number, customer_id, original_invoice_id, total_cents, currency,
status, reason, issued_at, created_at, updated_at`

func creditNoteArgs(n *credit.CreditNote) []any {
	return []any{
		n.ID, n.Number, n.CustomerID, n.OriginalInvoiceID,
		n.TotalAmount.Amount, n.TotalAmount.Currency,
		string(n.Status), n.Reason, nullTime(n.IssuedAt), n.CreatedAt, n.UpdatedAt,
	}
}

func scanCreditNote(sc scanner) (*credit.CreditNote, error) {
	var (
		n          credit.CreditNote
		totalCents int64
		currency   string
		status     string
		issuedAt   sql.NullTime
	)
	if err := sc.Scan(&n.ID, &n.Number, &n.CustomerID, &n.OriginalInvoiceID,
		&totalCents, &currency, &status, &n.Reason, &issuedAt,
		&n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.TotalAmount = types.Cents(totalCents, currency)
	n.Status = credit.Status(status)
	n.IssuedAt = timePtr(issuedAt)
	return &n, nil
}

const creditAppCols = `id, credit_note_id, invoice_id, amount_cents, currency, applied_at`

func creditAppArgs(a *credit.CreditApplication) []any {
	return []any{a.ID, a.CreditNoteID, a.InvoiceID, a.Amount.Amount, a.Amount.Currency, a.AppliedAt}
}

func scanCreditApp(sc scanner) (*credit.CreditApplication, error) {
	var (
		a           credit.CreditApplication
		amountCents int64
		currency    string
	)
	if err := sc.Scan(&a.ID, &a.CreditNoteID, &a.InvoiceID, &amountCents, &currency,
		&a.AppliedAt); err != nil {
		return nil, err
	}
	a.Amount = types.Cents(amountCents, currency)
	return &a, nil
}

// ==================== Jobs and settings ====================

const jobCols = `job_type, enabled, last_run_at, next_run_at`

func scanJob(sc scanner) (*schedule.Job, error) {
	var (
		j         schedule.Job
		jobType   string
		lastRunAt sql.NullTime
	)
	if err := sc.Scan(&jobType, &j.Enabled, &lastRunAt, &j.NextRunAt); err != nil {
		return nil, err
	}
	j.Type = schedule.JobType(jobType)
	j.LastRunAt = timePtr(lastRunAt)
	return &j, nil
}

func scanSettings(sc scanner) (*settings.Settings, error) {
	var (
		cfg      settings.Settings
		testDate sql.NullTime
		bps      int64
	)
	if err := sc.Scan(&cfg.TestMode, &testDate, &bps, &cfg.ExpiryNoticeDays,
		&cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
		return nil, err
	}
	if testDate.Valid {
		cfg.TestDate = testDate.Time
	}
	cfg.IndexationRate = types.RateFromBasisPoints(bps)
	return &cfg, nil
}

// ==================== Helpers ====================

func marshalMap(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func unmarshalMap(raw string, dst *map[string]string) error {
	if raw == "" || raw == "{}" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("rentroll/sqlite: unmarshal metadata: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
