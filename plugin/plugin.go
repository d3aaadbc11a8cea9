// Package plugin provides an extensible plugin system for Rentroll.
// Plugins can hook into billing lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Invoice generation hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated is called after an invoice and its line items are
// durably written.
type OnInvoiceGenerated interface {
	Plugin
	OnInvoiceGenerated(ctx context.Context, inv interface{}) error
}

// OnInvoiceSkipped is called when a generation pass finds the invoice for a
// period already exists.
type OnInvoiceSkipped interface {
	Plugin
	OnInvoiceSkipped(ctx context.Context, customerID string, month string, kind string) error
}

// OnGenerationFailed is called when generating one customer's invoice fails;
// the pass continues with the remaining customers.
type OnGenerationFailed interface {
	Plugin
	OnGenerationFailed(ctx context.Context, customerID string, month string, err error) error
}

// ──────────────────────────────────────────────────
// Credit hooks
// ──────────────────────────────────────────────────

// OnCreditNoteIssued is called when a credit note transitions to issued.
type OnCreditNoteIssued interface {
	Plugin
	OnCreditNoteIssued(ctx context.Context, note interface{}) error
}

// OnCreditApplied is called after a credit application is recorded.
type OnCreditApplied interface {
	Plugin
	OnCreditApplied(ctx context.Context, application interface{}) error
}

// ──────────────────────────────────────────────────
// Lease hooks
// ──────────────────────────────────────────────────

// OnRentIndexed is called after a lease's rents are raised by the annual
// indexation run.
type OnRentIndexed interface {
	Plugin
	OnRentIndexed(ctx context.Context, l interface{}, year int) error
}

// OnLeaseExpiring is called when a lease enters its expiry notice window.
// This is the hook a mail or messaging integration implements.
type OnLeaseExpiring interface {
	Plugin
	OnLeaseExpiring(ctx context.Context, l interface{}) error
}

// ──────────────────────────────────────────────────
// Booking hooks
// ──────────────────────────────────────────────────

// OnBookingsCompleted is called when the daily sweep marks past confirmed
// bookings completed.
type OnBookingsCompleted interface {
	Plugin
	OnBookingsCompleted(ctx context.Context, count int) error
}

// ──────────────────────────────────────────────────
// Job controller hooks
// ──────────────────────────────────────────────────

// OnJobStarted is called when the controller starts a due job.
type OnJobStarted interface {
	Plugin
	OnJobStarted(ctx context.Context, jobType string) error
}

// OnJobCompleted is called when a job handler returns successfully.
type OnJobCompleted interface {
	Plugin
	OnJobCompleted(ctx context.Context, jobType string, report interface{}) error
}

// OnJobFailed is called when a job handler returns an error. The job's
// timestamps are left untouched so the next pass retries it.
type OnJobFailed interface {
	Plugin
	OnJobFailed(ctx context.Context, jobType string, err error) error
}

// ──────────────────────────────────────────────────
// Invoice formatters
// ──────────────────────────────────────────────────

// InvoiceFormatter formats invoices for export.
type InvoiceFormatter interface {
	Plugin
	Format() string                                                   // "pdf", "html", "csv", etc.
	Render(ctx context.Context, inv interface{}, w interface{}) error // w is io.Writer
}
