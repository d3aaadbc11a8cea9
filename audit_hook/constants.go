package audithook

// Action constants for audit events.
const (
	// Invoice actions
	ActionInvoiceGenerated = "invoice.generated"
	ActionInvoiceSkipped   = "invoice.skipped"
	ActionInvoiceFailed    = "invoice.failed"

	// Credit actions
	ActionCreditNoteIssued = "credit_note.issued"
	ActionCreditApplied    = "credit.applied"

	// Lease actions
	ActionRentIndexed   = "lease.indexed"
	ActionLeaseExpiring = "lease.expiring"

	// Booking actions
	ActionBookingsCompleted = "bookings.completed"

	// Job actions
	ActionJobStarted   = "job.started"
	ActionJobCompleted = "job.completed"
	ActionJobFailed    = "job.failed"
)

// Resource constants for audit events.
const (
	ResourceInvoice    = "invoice"
	ResourceCreditNote = "credit_note"
	ResourceLease      = "lease"
	ResourceBooking    = "booking"
	ResourceJob        = "job"
)

// Category constants for audit events.
const (
	CategoryBilling    = "billing"
	CategoryCredit     = "credit"
	CategoryLease      = "lease"
	CategoryBooking    = "booking"
	CategoryScheduling = "scheduling"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
