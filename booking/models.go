// Package booking defines space-usage reservations that become billable
// once completed.
package booking

import (
	"time"

	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/types"
)

// Kind distinguishes meeting-room bookings from flex workspace days.
type Kind string

const (
	KindMeetingRoom Kind = "meeting_room"
	KindFlexDay     Kind = "flex_day"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Booking is a reservation of a meeting room or a flex workspace day.
//
// InvoiceID is the durable "billed" marker: a Nil InvoiceID means unbilled,
// and every invoice-generation run filters on it. Setting it is deliberately
// the last step of generation, so a run that dies between invoice creation
// and linkage leaves bookings eligible for re-billing rather than silently
// dropped.
type Booking struct {
	types.Entity
	ID         id.BookingID  `json:"id"`
	Kind       Kind          `json:"kind"`
	CustomerID id.CustomerID `json:"customer_id"`

	Date      time.Time `json:"booking_date"`
	StartTime string    `json:"start_time,omitempty"` // "HH:MM", meeting rooms
	EndTime   string    `json:"end_time,omitempty"`
	HalfDay   bool      `json:"half_day,omitempty"` // flex days

	// TotalAmount is the amount after any per-booking discount;
	// DiscountAmount is the discount that was already taken off.
	// Pre-discount price = TotalAmount + DiscountAmount.
	TotalAmount    types.Money `json:"total_amount"`
	DiscountAmount types.Money `json:"discount_amount"`

	Status    Status       `json:"status"`
	InvoiceID id.InvoiceID `json:"invoice_id,omitzero"`

	Description string `json:"description,omitempty"`
}

// GrossAmount returns the pre-discount price of the booking.
func (b *Booking) GrossAmount() types.Money {
	return b.TotalAmount.Add(b.DiscountAmount)
}

// IsBilled reports whether the booking has been consumed by an invoice.
func (b *Booking) IsBilled() bool { return !b.InvoiceID.IsNil() }

// ListOpts filters booking listings.
type ListOpts struct {
	Kind       Kind
	Status     Status
	CustomerID id.CustomerID
	Limit      int
	Offset     int
}
