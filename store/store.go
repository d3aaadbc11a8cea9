package store

import (
	"context"
	"time"

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

// Store is the unified storage interface for all rentroll records.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Customer methods
	CreateCustomer(ctx context.Context, c *customer.Customer) error
	GetCustomer(ctx context.Context, customerID id.CustomerID) (*customer.Customer, error)
	ListCustomers(ctx context.Context, opts customer.ListOpts) ([]*customer.Customer, error)
	UpdateCustomer(ctx context.Context, c *customer.Customer) error
	DeleteCustomer(ctx context.Context, customerID id.CustomerID) error

	// Lease methods
	CreateLease(ctx context.Context, l *lease.Lease) error
	GetLease(ctx context.Context, leaseID id.LeaseID) (*lease.Lease, error)
	ListLeases(ctx context.Context, opts lease.ListOpts) ([]*lease.Lease, error)
	UpdateLease(ctx context.Context, l *lease.Lease) error
	DeleteLease(ctx context.Context, leaseID id.LeaseID) error
	ListExpiringLeases(ctx context.Context, by time.Time) ([]*lease.Lease, error)

	// Booking methods
	CreateBooking(ctx context.Context, b *booking.Booking) error
	GetBooking(ctx context.Context, bookingID id.BookingID) (*booking.Booking, error)
	ListBookings(ctx context.Context, opts booking.ListOpts) ([]*booking.Booking, error)
	UpdateBooking(ctx context.Context, b *booking.Booking) error
	ListBillableBookings(ctx context.Context, customerID id.CustomerID, month types.Month) ([]*booking.Booking, error)
	ListConfirmedBefore(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error)
	SetBookingInvoice(ctx context.Context, bookingID id.BookingID, invoiceID id.InvoiceID) error

	// Invoice methods
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, invoiceID id.InvoiceID) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error
	DeleteInvoice(ctx context.Context, invoiceID id.InvoiceID) error
	AddLineItems(ctx context.Context, invoiceID id.InvoiceID, items []*invoice.LineItem) error
	FindRentInvoice(ctx context.Context, leaseID id.LeaseID, month types.Month) (*invoice.Invoice, error)
	FindUsageInvoice(ctx context.Context, customerID id.CustomerID, month types.Month) (*invoice.Invoice, error)

	// Credit methods
	CreateCreditNote(ctx context.Context, n *credit.CreditNote) error
	GetCreditNote(ctx context.Context, noteID id.CreditNoteID) (*credit.CreditNote, error)
	ListCreditNotes(ctx context.Context, opts credit.ListOpts) ([]*credit.CreditNote, error)
	UpdateCreditNote(ctx context.Context, n *credit.CreditNote) error
	CreateCreditApplication(ctx context.Context, a *credit.CreditApplication) error
	ListCreditApplications(ctx context.Context, noteID id.CreditNoteID) ([]*credit.CreditApplication, error)

	// Job methods
	GetJob(ctx context.Context, jobType schedule.JobType) (*schedule.Job, error)
	ListJobs(ctx context.Context) ([]*schedule.Job, error)
	PutJob(ctx context.Context, j *schedule.Job) error

	// Settings methods
	GetSettings(ctx context.Context) (*settings.Settings, error)
	PutSettings(ctx context.Context, s *settings.Settings) error

	// Counter methods. Each call durably increments the named sequence
	// and returns the new value; numbers are never reused.
	NextInvoiceNumber(ctx context.Context) (int64, error)
	NextCreditNoteNumber(ctx context.Context) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
