// Package audithook bridges Rentroll lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not import any
// concrete audit system directly. Callers inject a RecorderFunc adapter that
// bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/rentroll/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInvoiceGenerated  = (*Extension)(nil)
	_ plugin.OnInvoiceSkipped    = (*Extension)(nil)
	_ plugin.OnGenerationFailed  = (*Extension)(nil)
	_ plugin.OnCreditNoteIssued  = (*Extension)(nil)
	_ plugin.OnCreditApplied     = (*Extension)(nil)
	_ plugin.OnRentIndexed       = (*Extension)(nil)
	_ plugin.OnLeaseExpiring     = (*Extension)(nil)
	_ plugin.OnBookingsCompleted = (*Extension)(nil)
	_ plugin.OnJobFailed         = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that the audit_hook package does not depend on a
// concrete audit system — callers inject their backend at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Rentroll lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceGenerated implements plugin.OnInvoiceGenerated.
func (e *Extension) OnInvoiceGenerated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionInvoiceGenerated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryBilling, nil,
		"event", "invoice_generated",
	)
}

// OnInvoiceSkipped implements plugin.OnInvoiceSkipped.
func (e *Extension) OnInvoiceSkipped(ctx context.Context, customerID, month, kind string) error {
	return e.record(ctx, ActionInvoiceSkipped, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, "", CategoryBilling, nil,
		"customer_id", customerID,
		"month", month,
		"kind", kind,
	)
}

// OnGenerationFailed implements plugin.OnGenerationFailed.
func (e *Extension) OnGenerationFailed(ctx context.Context, customerID, month string, err error) error {
	return e.record(ctx, ActionInvoiceFailed, SeverityError, OutcomeFailure,
		ResourceInvoice, "", CategoryBilling, err,
		"customer_id", customerID,
		"month", month,
	)
}

// ──────────────────────────────────────────────────
// Credit lifecycle hooks
// ──────────────────────────────────────────────────

// OnCreditNoteIssued implements plugin.OnCreditNoteIssued.
func (e *Extension) OnCreditNoteIssued(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionCreditNoteIssued, SeverityInfo, OutcomeSuccess,
		ResourceCreditNote, "", CategoryCredit, nil,
		"event", "credit_note_issued",
	)
}

// OnCreditApplied implements plugin.OnCreditApplied.
func (e *Extension) OnCreditApplied(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionCreditApplied, SeverityInfo, OutcomeSuccess,
		ResourceCreditNote, "", CategoryCredit, nil,
		"event", "credit_applied",
	)
}

// ──────────────────────────────────────────────────
// Lease lifecycle hooks
// ──────────────────────────────────────────────────

// OnRentIndexed implements plugin.OnRentIndexed.
func (e *Extension) OnRentIndexed(ctx context.Context, _ interface{}, year int) error {
	return e.record(ctx, ActionRentIndexed, SeverityInfo, OutcomeSuccess,
		ResourceLease, "", CategoryLease, nil,
		"year", year,
	)
}

// OnLeaseExpiring implements plugin.OnLeaseExpiring.
func (e *Extension) OnLeaseExpiring(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionLeaseExpiring, SeverityWarning, OutcomeSuccess,
		ResourceLease, "", CategoryLease, nil,
		"event", "lease_expiring",
	)
}

// ──────────────────────────────────────────────────
// Booking lifecycle hooks
// ──────────────────────────────────────────────────

// OnBookingsCompleted implements plugin.OnBookingsCompleted.
func (e *Extension) OnBookingsCompleted(ctx context.Context, count int) error {
	return e.record(ctx, ActionBookingsCompleted, SeverityInfo, OutcomeSuccess,
		ResourceBooking, "", CategoryBooking, nil,
		"count", count,
	)
}

// ──────────────────────────────────────────────────
// Job controller hooks
// ──────────────────────────────────────────────────

// OnJobFailed implements plugin.OnJobFailed.
func (e *Extension) OnJobFailed(ctx context.Context, jobType string, err error) error {
	return e.record(ctx, ActionJobFailed, SeverityCritical, OutcomeFailure,
		ResourceJob, jobType, CategoryScheduling, err,
		"job_type", jobType,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
