// Package observability provides a metrics plugin for Rentroll that records
// billing lifecycle event counts via a pluggable metric factory.
package observability

import (
	"context"

	"github.com/xraph/rentroll/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceGenerated  = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceSkipped    = (*MetricsExtension)(nil)
	_ plugin.OnGenerationFailed  = (*MetricsExtension)(nil)
	_ plugin.OnCreditNoteIssued  = (*MetricsExtension)(nil)
	_ plugin.OnCreditApplied     = (*MetricsExtension)(nil)
	_ plugin.OnRentIndexed       = (*MetricsExtension)(nil)
	_ plugin.OnLeaseExpiring     = (*MetricsExtension)(nil)
	_ plugin.OnBookingsCompleted = (*MetricsExtension)(nil)
	_ plugin.OnJobStarted        = (*MetricsExtension)(nil)
	_ plugin.OnJobCompleted      = (*MetricsExtension)(nil)
	_ plugin.OnJobFailed         = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide billing lifecycle metrics.
// Register it as a Rentroll plugin to automatically track the billing cycle.
type MetricsExtension struct {
	factory MetricFactory

	// Invoice metrics
	InvoiceGenerated Counter
	InvoiceSkipped   Counter
	GenerationFailed Counter

	// Credit metrics
	CreditNoteIssued Counter
	CreditApplied    Counter

	// Lease metrics
	LeaseIndexed  Counter
	LeaseExpiring Counter

	// Booking metrics
	BookingsCompleted Counter
	SweepBatchSize    Histogram

	// Job metrics
	JobRuns     Counter
	JobFailures Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Invoice metrics
		InvoiceGenerated: factory.Counter("rentroll.invoice.generated"),
		InvoiceSkipped:   factory.Counter("rentroll.invoice.skipped"),
		GenerationFailed: factory.Counter("rentroll.invoice.failed"),

		// Credit metrics
		CreditNoteIssued: factory.Counter("rentroll.credit.issued"),
		CreditApplied:    factory.Counter("rentroll.credit.applied"),

		// Lease metrics
		LeaseIndexed:  factory.Counter("rentroll.lease.indexed"),
		LeaseExpiring: factory.Counter("rentroll.lease.expiring"),

		// Booking metrics
		BookingsCompleted: factory.Counter("rentroll.booking.completed"),
		SweepBatchSize:    factory.Histogram("rentroll.booking.sweep.size"),

		// Job metrics
		JobRuns:     factory.Counter("rentroll.job.runs"),
		JobFailures: factory.Counter("rentroll.job.failures"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated implements plugin.OnInvoiceGenerated.
func (m *MetricsExtension) OnInvoiceGenerated(_ context.Context, _ interface{}) error {
	m.InvoiceGenerated.Inc()
	return nil
}

// OnInvoiceSkipped implements plugin.OnInvoiceSkipped.
func (m *MetricsExtension) OnInvoiceSkipped(_ context.Context, _, _, _ string) error {
	m.InvoiceSkipped.Inc()
	return nil
}

// OnGenerationFailed implements plugin.OnGenerationFailed.
func (m *MetricsExtension) OnGenerationFailed(_ context.Context, _, _ string, _ error) error {
	m.GenerationFailed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Credit lifecycle hooks
// ──────────────────────────────────────────────────

// OnCreditNoteIssued implements plugin.OnCreditNoteIssued.
func (m *MetricsExtension) OnCreditNoteIssued(_ context.Context, _ interface{}) error {
	m.CreditNoteIssued.Inc()
	return nil
}

// OnCreditApplied implements plugin.OnCreditApplied.
func (m *MetricsExtension) OnCreditApplied(_ context.Context, _ interface{}) error {
	m.CreditApplied.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Lease lifecycle hooks
// ──────────────────────────────────────────────────

// OnRentIndexed implements plugin.OnRentIndexed.
func (m *MetricsExtension) OnRentIndexed(_ context.Context, _ interface{}, _ int) error {
	m.LeaseIndexed.Inc()
	return nil
}

// OnLeaseExpiring implements plugin.OnLeaseExpiring.
func (m *MetricsExtension) OnLeaseExpiring(_ context.Context, _ interface{}) error {
	m.LeaseExpiring.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Booking lifecycle hooks
// ──────────────────────────────────────────────────

// OnBookingsCompleted implements plugin.OnBookingsCompleted.
func (m *MetricsExtension) OnBookingsCompleted(_ context.Context, count int) error {
	m.BookingsCompleted.Add(float64(count))
	m.SweepBatchSize.Observe(float64(count))
	return nil
}

// ──────────────────────────────────────────────────
// Job lifecycle hooks
// ──────────────────────────────────────────────────

// OnJobStarted implements plugin.OnJobStarted.
func (m *MetricsExtension) OnJobStarted(_ context.Context, _ string) error {
	m.JobRuns.Inc()
	return nil
}

// OnJobCompleted implements plugin.OnJobCompleted.
func (m *MetricsExtension) OnJobCompleted(_ context.Context, _ string, _ interface{}) error {
	return nil
}

// OnJobFailed implements plugin.OnJobFailed.
func (m *MetricsExtension) OnJobFailed(_ context.Context, _ string, _ error) error {
	m.JobFailures.Inc()
	return nil
}
