// Package credit defines credit notes and their applications against
// invoices.
package credit

import (
	"fmt"
	"time"

	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/types"
)

// Status is the credit note lifecycle state.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusIssued Status = "issued"
	// StatusApplied means the note is fully consumed: Σ applications equals
	// the note total.
	StatusApplied Status = "applied"
)

// CreditNote offsets previously issued invoices. Immutable once issued,
// except for applications recorded against it.
type CreditNote struct {
	types.Entity
	ID     id.CreditNoteID `json:"id"`
	Number string          `json:"credit_note_number"`

	CustomerID id.CustomerID `json:"customer_id"`

	// OriginalInvoiceID optionally references the invoice this note
	// corrects.
	OriginalInvoiceID id.InvoiceID `json:"original_invoice_id,omitzero"`

	TotalAmount types.Money `json:"total_amount"`
	Status      Status      `json:"status"`
	Reason      string      `json:"reason,omitempty"`

	IssuedAt *time.Time `json:"issued_at,omitempty"`
}

// CreditApplication links a credit note to an invoice. The sum of
// applications against a note never exceeds its total; the ledger rejects
// over-applications before any write.
type CreditApplication struct {
	ID           id.CreditApplicationID `json:"id"`
	CreditNoteID id.CreditNoteID        `json:"credit_note_id"`
	InvoiceID    id.InvoiceID           `json:"invoice_id"`
	Amount       types.Money            `json:"applied_amount"`
	AppliedAt    time.Time              `json:"application_date"`
}

// NoteBalance pairs a credit note with its remaining unapplied value.
// Read-only projection; carries no invariants of its own.
type NoteBalance struct {
	Note      *CreditNote `json:"note"`
	Available types.Money `json:"available"`
}

// Summary aggregates a customer's credit position.
// Read-only projection over notes, applications and invoices.
type Summary struct {
	CustomerID   id.CustomerID `json:"customer_id"`
	TotalIssued  types.Money   `json:"total_issued"`
	TotalApplied types.Money   `json:"total_applied"`
	Available    types.Money   `json:"available"`
	OpenNotes    int           `json:"open_notes"`
}

// FormatNumber renders a serial from the store's credit note counter as the
// customer-facing number: "CN-000042".
func FormatNumber(seq int64) string {
	return fmt.Sprintf("CN-%06d", seq)
}

// ListOpts filters credit note listings.
type ListOpts struct {
	Status     Status
	CustomerID id.CustomerID
	Limit      int
	Offset     int
}
