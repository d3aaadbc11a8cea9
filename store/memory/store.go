// Package memory implements the store contract with plain maps behind a
// mutex. It is the default backend for tests and embedded use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/credit"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/settings"
	"github.com/xraph/rentroll/types"
)

type Store struct {
	mu sync.RWMutex

	customers map[string]*customer.Customer
	leases    map[string]*lease.Lease
	bookings  map[string]*booking.Booking
	invoices  map[string]*invoice.Invoice

	creditNotes  map[string]*credit.CreditNote
	applications []*credit.CreditApplication

	jobs map[schedule.JobType]*schedule.Job
	cfg  *settings.Settings

	invoiceSeq    int64
	creditNoteSeq int64
}

func New() *Store {
	return &Store{
		customers:    make(map[string]*customer.Customer),
		leases:       make(map[string]*lease.Lease),
		bookings:     make(map[string]*booking.Booking),
		invoices:     make(map[string]*invoice.Invoice),
		creditNotes:  make(map[string]*credit.CreditNote),
		applications: make([]*credit.CreditApplication, 0),
		jobs:         make(map[schedule.JobType]*schedule.Job),
	}
}

// Customer Store implementation
func (s *Store) CreateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID.String()]; exists {
		return rentroll.ErrAlreadyExists
	}
	s.customers[c.ID.String()] = c
	return nil
}

func (s *Store) GetCustomer(_ context.Context, customerID id.CustomerID) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customers[customerID.String()]; ok {
		return c, nil
	}
	return nil, rentroll.ErrCustomerNotFound
}

func (s *Store) ListCustomers(_ context.Context, opts customer.ListOpts) ([]*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*customer.Customer, 0)
	for _, c := range s.customers {
		if opts.Kind == "" || c.Kind == opts.Kind {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID.String()]; !exists {
		return rentroll.ErrCustomerNotFound
	}
	s.customers[c.ID.String()] = c
	return nil
}

func (s *Store) DeleteCustomer(_ context.Context, customerID id.CustomerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.customers, customerID.String())
	return nil
}

// Lease Store implementation
func (s *Store) CreateLease(_ context.Context, l *lease.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leases[l.ID.String()]; exists {
		return rentroll.ErrAlreadyExists
	}
	s.leases[l.ID.String()] = l
	return nil
}

func (s *Store) GetLease(_ context.Context, leaseID id.LeaseID) (*lease.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.leases[leaseID.String()]; ok {
		return l, nil
	}
	return nil, rentroll.ErrLeaseNotFound
}

func (s *Store) ListLeases(_ context.Context, opts lease.ListOpts) ([]*lease.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*lease.Lease, 0)
	for _, l := range s.leases {
		if opts.Status != "" && l.Status != opts.Status {
			continue
		}
		if opts.Type != "" && l.Type != opts.Type {
			continue
		}
		if !opts.CustomerID.IsNil() && l.CustomerID != opts.CustomerID {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateLease(_ context.Context, l *lease.Lease) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.leases[l.ID.String()]; !exists {
		return rentroll.ErrLeaseNotFound
	}
	s.leases[l.ID.String()] = l
	return nil
}

func (s *Store) DeleteLease(_ context.Context, leaseID id.LeaseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.leases, leaseID.String())
	return nil
}

func (s *Store) ListExpiringLeases(_ context.Context, by time.Time) ([]*lease.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*lease.Lease, 0)
	for _, l := range s.leases {
		if l.Status == lease.StatusActive && l.EndDate != nil && !l.EndDate.After(by) {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

// Booking Store implementation
func (s *Store) CreateBooking(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID.String()]; exists {
		return rentroll.ErrAlreadyExists
	}
	s.bookings[b.ID.String()] = b
	return nil
}

func (s *Store) GetBooking(_ context.Context, bookingID id.BookingID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.bookings[bookingID.String()]; ok {
		return b, nil
	}
	return nil, rentroll.ErrBookingNotFound
}

func (s *Store) ListBookings(_ context.Context, opts booking.ListOpts) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, b := range s.bookings {
		if opts.Kind != "" && b.Kind != opts.Kind {
			continue
		}
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		if !opts.CustomerID.IsNil() && b.CustomerID != opts.CustomerID {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return bookingBefore(result[i], result[j]) })
	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateBooking(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID.String()]; !exists {
		return rentroll.ErrBookingNotFound
	}
	s.bookings[b.ID.String()] = b
	return nil
}

func (s *Store) ListBillableBookings(_ context.Context, customerID id.CustomerID, month types.Month) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, b := range s.bookings {
		if b.CustomerID == customerID &&
			b.Status == booking.StatusCompleted &&
			b.InvoiceID.IsNil() &&
			month.Contains(b.Date) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return bookingBefore(result[i], result[j]) })
	return result, nil
}

func (s *Store) ListConfirmedBefore(_ context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Booking, 0)
	for _, b := range s.bookings {
		if b.Status == booking.StatusConfirmed && b.Date.Before(cutoff) {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return bookingBefore(result[i], result[j]) })
	return result, nil
}

func (s *Store) SetBookingInvoice(_ context.Context, bookingID id.BookingID, invoiceID id.InvoiceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, exists := s.bookings[bookingID.String()]; exists {
		b.InvoiceID = invoiceID
		return nil
	}
	return rentroll.ErrBookingNotFound
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; exists {
		return rentroll.ErrAlreadyExists
	}
	s.invoices[inv.ID.String()] = inv
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invoiceID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invoiceID.String()]; ok {
		return inv, nil
	}
	return nil, rentroll.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if opts.Kind != "" && inv.Kind != opts.Kind {
			continue
		}
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		if !opts.CustomerID.IsNil() && inv.CustomerID != opts.CustomerID {
			continue
		}
		if !opts.Month.IsZero() && inv.Month != opts.Month {
			continue
		}
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID.String()]; !exists {
		return rentroll.ErrInvoiceNotFound
	}
	s.invoices[inv.ID.String()] = inv
	return nil
}

func (s *Store) DeleteInvoice(_ context.Context, invoiceID id.InvoiceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.invoices, invoiceID.String())
	return nil
}

func (s *Store) AddLineItems(_ context.Context, invoiceID id.InvoiceID, items []*invoice.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, exists := s.invoices[invoiceID.String()]
	if !exists {
		return rentroll.ErrInvoiceNotFound
	}
	for _, it := range items {
		it.InvoiceID = invoiceID
		inv.LineItems = append(inv.LineItems, *it)
	}
	return nil
}

func (s *Store) FindRentInvoice(_ context.Context, leaseID id.LeaseID, month types.Month) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.Kind == invoice.KindRent && inv.LeaseID == leaseID && inv.Month == month {
			return inv, nil
		}
	}
	return nil, rentroll.ErrInvoiceNotFound
}

func (s *Store) FindUsageInvoice(_ context.Context, customerID id.CustomerID, month types.Month) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.Kind == invoice.KindUsage && inv.CustomerID == customerID && inv.Month == month {
			return inv, nil
		}
	}
	return nil, rentroll.ErrInvoiceNotFound
}

// Credit Store implementation
func (s *Store) CreateCreditNote(_ context.Context, n *credit.CreditNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.creditNotes[n.ID.String()]; exists {
		return rentroll.ErrAlreadyExists
	}
	s.creditNotes[n.ID.String()] = n
	return nil
}

func (s *Store) GetCreditNote(_ context.Context, noteID id.CreditNoteID) (*credit.CreditNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, ok := s.creditNotes[noteID.String()]; ok {
		return n, nil
	}
	return nil, rentroll.ErrCreditNoteNotFound
}

func (s *Store) ListCreditNotes(_ context.Context, opts credit.ListOpts) ([]*credit.CreditNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*credit.CreditNote, 0)
	for _, n := range s.creditNotes {
		if opts.Status != "" && n.Status != opts.Status {
			continue
		}
		if !opts.CustomerID.IsNil() && n.CustomerID != opts.CustomerID {
			continue
		}
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return page(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateCreditNote(_ context.Context, n *credit.CreditNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.creditNotes[n.ID.String()]; !exists {
		return rentroll.ErrCreditNoteNotFound
	}
	s.creditNotes[n.ID.String()] = n
	return nil
}

func (s *Store) CreateCreditApplication(_ context.Context, a *credit.CreditApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applications = append(s.applications, a)
	return nil
}

func (s *Store) ListCreditApplications(_ context.Context, noteID id.CreditNoteID) ([]*credit.CreditApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*credit.CreditApplication, 0)
	for _, a := range s.applications {
		if a.CreditNoteID == noteID {
			result = append(result, a)
		}
	}
	return result, nil
}

// Job Store implementation
func (s *Store) GetJob(_ context.Context, jobType schedule.JobType) (*schedule.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if j, ok := s.jobs[jobType]; ok {
		return j, nil
	}
	return nil, rentroll.ErrJobNotFound
}

func (s *Store) ListJobs(_ context.Context) ([]*schedule.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*schedule.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		result = append(result, j)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result, nil
}

func (s *Store) PutJob(_ context.Context, j *schedule.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.Type] = j
	return nil
}

// Settings Store implementation
func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg != nil {
		return s.cfg, nil
	}
	return settings.Default(), nil
}

func (s *Store) PutSettings(_ context.Context, cfg *settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	return nil
}

// Counter implementation
func (s *Store) NextInvoiceNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoiceSeq++
	return s.invoiceSeq, nil
}

func (s *Store) NextCreditNoteNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creditNoteSeq++
	return s.creditNoteSeq, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// Helper functions
func page[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// bookingBefore orders bookings by date, then ID, so equal-dated bookings
// come back in a stable order across runs.
func bookingBefore(a, b *booking.Booking) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.ID.String() < b.ID.String()
}
