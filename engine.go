package rentroll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/clock"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/plugin"
	"github.com/xraph/rentroll/settings"
	"github.com/xraph/rentroll/store"
	"github.com/xraph/rentroll/types"
)

// Engine is the main billing engine. It owns the scheduled-job controller
// and exposes the generation, indexation and credit operations directly for
// manual runs.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   clock.Clock

	// Configuration
	pollInterval     time.Duration
	manualScheduling bool

	// Background worker
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:        s,
		plugins:      plugin.NewRegistry(),
		logger:       slog.Default(),
		clock:        clock.System(),
		pollInterval: time.Hour,
		stopChan:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source. Tests inject a fixed clock here.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithPollInterval sets how often the controller re-checks for due jobs.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.pollInterval = d
	}
}

// WithManualScheduling disables the background poll worker; the embedding
// application calls Tick itself (for example on app-open events).
func WithManualScheduling() Option {
	return func(e *Engine) {
		e.manualScheduling = true
	}
}

// Start migrates the store, seeds the job registry and begins the polling
// worker. An immediate first pass runs before the ticker takes over, so a
// deployment that was down past a due date catches up on boot.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	if err := e.seedJobs(ctx); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	if !e.manualScheduling {
		e.wg.Add(1)
		go e.pollWorker(ctx)
	}

	e.logger.Info("rentroll started",
		"poll_interval", e.pollInterval,
		"manual_scheduling", e.manualScheduling,
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// Store returns the underlying record store.
func (e *Engine) Store() store.Store { return e.store }

// now resolves the effective billing time: the operator's test date when
// test mode is on, the injected clock otherwise.
func (e *Engine) now(ctx context.Context) time.Time {
	cfg, err := e.store.GetSettings(ctx)
	if err == nil && cfg.TestMode && !cfg.TestDate.IsZero() {
		return cfg.TestDate
	}
	return e.clock.Now()
}

// Now reports the effective billing time, honoring test mode.
func (e *Engine) Now(ctx context.Context) time.Time { return e.now(ctx) }

// ──────────────────────────────────────────────────
// Customer Management
// ──────────────────────────────────────────────────

// CreateCustomer creates a new customer.
func (e *Engine) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	if c.Name == "" {
		return ValidationError{Field: "name", Message: "required"}
	}
	if c.Kind == "" {
		c.Kind = customer.KindTenant
	}
	if c.ID.IsNil() {
		c.ID = id.NewCustomerID()
	}
	c.Entity = types.NewEntity()

	return e.store.CreateCustomer(ctx, c)
}

// GetCustomer retrieves a customer by ID.
func (e *Engine) GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	return e.store.GetCustomer(ctx, customerID)
}

// ListCustomers lists customers.
func (e *Engine) ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	return e.store.ListCustomers(ctx, opts)
}

// UpdateCustomer updates a customer.
func (e *Engine) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	c.Touch()
	return e.store.UpdateCustomer(ctx, c)
}

// ──────────────────────────────────────────────────
// Lease Management
// ──────────────────────────────────────────────────

// CreateLease creates a new lease.
func (e *Engine) CreateLease(ctx context.Context, l *lease.Lease) error {
	if l.CustomerID.IsNil() {
		return ValidationError{Field: "customer_id", Message: "required"}
	}
	if l.Type == lease.TypeFlex && l.Flex == nil {
		return ValidationError{Field: "flex", Message: "required for flex leases"}
	}
	if l.VATRate.IsNegative() {
		return ValidationError{Field: "vat_rate", Message: "must not be negative"}
	}
	if l.ID.IsNil() {
		l.ID = id.NewLeaseID()
	}
	for i := range l.Spaces {
		if l.Spaces[i].ID.IsNil() {
			l.Spaces[i].ID = id.NewLeaseSpaceID()
		}
		l.Spaces[i].LeaseID = l.ID
	}
	l.Entity = types.NewEntity()

	return e.store.CreateLease(ctx, l)
}

// GetLease retrieves a lease by ID.
func (e *Engine) GetLease(ctx context.Context, leaseID id.LeaseID) (*lease.Lease, error) {
	return e.store.GetLease(ctx, leaseID)
}

// ListLeases lists leases.
func (e *Engine) ListLeases(ctx context.Context, opts lease.ListOpts) ([]*lease.Lease, error) {
	return e.store.ListLeases(ctx, opts)
}

// UpdateLease updates a lease.
func (e *Engine) UpdateLease(ctx context.Context, l *lease.Lease) error {
	l.Touch()
	return e.store.UpdateLease(ctx, l)
}

// EndLease transitions a lease to ended as of the given date.
func (e *Engine) EndLease(ctx context.Context, leaseID id.LeaseID, endDate time.Time) error {
	l, err := e.store.GetLease(ctx, leaseID)
	if err != nil {
		return err
	}
	l.Status = lease.StatusEnded
	l.EndDate = &endDate
	l.Touch()
	return e.store.UpdateLease(ctx, l)
}

// ──────────────────────────────────────────────────
// Booking Management
// ──────────────────────────────────────────────────

// CreateBooking creates a new booking.
func (e *Engine) CreateBooking(ctx context.Context, b *booking.Booking) error {
	if b.CustomerID.IsNil() {
		return ValidationError{Field: "customer_id", Message: "required"}
	}
	if b.Date.IsZero() {
		return ValidationError{Field: "booking_date", Message: "required"}
	}
	if b.Kind == "" {
		return ValidationError{Field: "kind", Message: "required"}
	}
	if b.Status == "" {
		b.Status = booking.StatusPending
	}
	if b.ID.IsNil() {
		b.ID = id.NewBookingID()
	}
	b.Entity = types.NewEntity()

	return e.store.CreateBooking(ctx, b)
}

// GetBooking retrieves a booking by ID.
func (e *Engine) GetBooking(ctx context.Context, bookingID id.BookingID) (*booking.Booking, error) {
	return e.store.GetBooking(ctx, bookingID)
}

// ListBookings lists bookings.
func (e *Engine) ListBookings(ctx context.Context, opts booking.ListOpts) ([]*booking.Booking, error) {
	return e.store.ListBookings(ctx, opts)
}

// CancelBooking cancels a booking. Billed bookings cannot be cancelled.
func (e *Engine) CancelBooking(ctx context.Context, bookingID id.BookingID) error {
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.IsBilled() {
		return ErrBookingBilled
	}
	b.Status = booking.StatusCancelled
	b.Touch()
	return e.store.UpdateBooking(ctx, b)
}

// ──────────────────────────────────────────────────
// Invoice Queries and Lifecycle
// ──────────────────────────────────────────────────

// GetInvoice retrieves an invoice by ID.
func (e *Engine) GetInvoice(ctx context.Context, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	return e.store.GetInvoice(ctx, invoiceID)
}

// ListInvoices lists invoices.
func (e *Engine) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	return e.store.ListInvoices(ctx, opts)
}

// MarkInvoiceSent transitions a draft invoice to sent and stamps a due date
// 30 days out.
func (e *Engine) MarkInvoiceSent(ctx context.Context, invoiceID id.InvoiceID) error {
	inv, err := e.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != invoice.StatusDraft {
		return ErrInvoiceNotDraft
	}
	now := e.now(ctx)
	due := now.AddDate(0, 0, 30)
	inv.Status = invoice.StatusSent
	inv.SentAt = &now
	inv.DueDate = &due
	inv.Touch()
	return e.store.UpdateInvoice(ctx, inv)
}

// MarkInvoicePaid transitions an invoice to paid.
func (e *Engine) MarkInvoicePaid(ctx context.Context, invoiceID id.InvoiceID) error {
	inv, err := e.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.IsOpen() {
		return ErrInvoiceNotOpen
	}
	now := e.now(ctx)
	inv.Status = invoice.StatusPaid
	inv.PaidAt = &now
	inv.Touch()
	return e.store.UpdateInvoice(ctx, inv)
}

// ──────────────────────────────────────────────────
// Settings
// ──────────────────────────────────────────────────

// Settings returns the operator settings, defaults if none stored.
func (e *Engine) Settings(ctx context.Context) (*settings.Settings, error) {
	return e.store.GetSettings(ctx)
}

// UpdateSettings persists the operator settings.
func (e *Engine) UpdateSettings(ctx context.Context, cfg *settings.Settings) error {
	if cfg.ExpiryNoticeDays < 0 {
		return ValidationError{Field: "expiry_notice_days", Message: "must not be negative"}
	}
	if cfg.IndexationRate.IsNegative() {
		return ValidationError{Field: "indexation_rate", Message: "must not be negative"}
	}
	cfg.Touch()
	return e.store.PutSettings(ctx, cfg)
}
