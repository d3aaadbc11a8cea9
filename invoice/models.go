// Package invoice defines invoices, their line items and numbering.
package invoice

import (
	"fmt"
	"time"

	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/types"
)

// Kind classifies an invoice at creation time. It replaces the old habit of
// inferring the type from note-text prefixes after the fact.
type Kind string

const (
	// KindRent is a monthly lease invoice.
	KindRent Kind = "rent"
	// KindUsage is a monthly booking (meeting room / flex day) invoice.
	KindUsage Kind = "usage"
	// KindManual is an operator-created ad-hoc invoice.
	KindManual Kind = "manual"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusPaid     Status = "paid"
	StatusOverdue  Status = "overdue"
	StatusCredited Status = "credited"
)

// Invoice is a money-exact bill for a customer.
//
// The idempotency invariant: for a given (customer, month, kind) at most one
// non-deleted invoice exists. Rent invoices additionally carry the LeaseID
// they were generated from; usage and manual invoices leave it Nil.
type Invoice struct {
	types.Entity
	ID     id.InvoiceID `json:"id"`
	Number string       `json:"invoice_number"`
	Kind   Kind         `json:"kind"`

	CustomerID id.CustomerID `json:"customer_id"`
	LeaseID    id.LeaseID    `json:"lease_id,omitzero"`

	// Month is the billing period the invoice is attributed to,
	// independent of the issue date. Zero for ad-hoc invoices.
	Month types.Month `json:"invoice_month,omitzero"`

	Subtotal  types.Money `json:"subtotal"`
	VATAmount types.Money `json:"vat_amount"`
	// Amount is always Subtotal + VATAmount, exactly, at cent precision.
	Amount       types.Money `json:"amount"`
	VATRate      types.Rate  `json:"vat_rate"`
	VATInclusive bool        `json:"vat_inclusive"`

	Status Status `json:"status"`

	// AppliedCredit is the running total of credit note applications
	// against this invoice. Balance due = Amount − AppliedCredit.
	AppliedCredit types.Money `json:"applied_credit"`

	// Notes is a human-readable itemization persisted verbatim for later
	// display; for usage invoices it is the only prose record of what was
	// billed besides the line items.
	Notes string `json:"notes,omitempty"`

	LineItems []LineItem `json:"line_items"`

	DueDate *time.Time `json:"due_date,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	PaidAt  *time.Time `json:"paid_at,omitempty"`
}

// BalanceDue returns the amount still owed after applied credit.
func (inv *Invoice) BalanceDue() types.Money {
	return inv.Amount.Subtract(inv.AppliedCredit)
}

// IsOpen reports whether the invoice can still receive credit applications.
func (inv *Invoice) IsOpen() bool {
	return inv.Status != StatusPaid && inv.Status != StatusCredited
}

// LineItem is one line of an invoice. Amount = Quantity × UnitPrice, except
// synthetic discount lines, which carry Quantity = 1 and a negative
// UnitPrice/Amount.
type LineItem struct {
	ID          id.LineItemID `json:"id"`
	InvoiceID   id.InvoiceID  `json:"invoice_id"`
	Description string        `json:"description"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   types.Money   `json:"unit_price"`
	Amount      types.Money   `json:"amount"`

	// BookingID back-references the booking a usage line bills, Nil for
	// rent/discount/deposit lines.
	BookingID id.BookingID `json:"booking_id,omitzero"`
}

// FormatNumber renders a serial from the store's invoice counter as the
// customer-facing invoice number: "INV-000123".
func FormatNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

// ListOpts filters invoice listings.
type ListOpts struct {
	Kind       Kind
	Status     Status
	CustomerID id.CustomerID
	Month      types.Month
	Limit      int
	Offset     int
}
