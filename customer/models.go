// Package customer defines the parties Rentroll bills: tenants holding
// leases and external customers who only book spaces.
package customer

import (
	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/types"
)

// Kind distinguishes tenants (lease holders) from external customers
// (booking-only parties).
type Kind string

const (
	KindTenant   Kind = "tenant"
	KindExternal Kind = "external"
)

// Customer is a billable party. Exactly one invoice per customer, month and
// invoice kind may exist; the generation engine enforces this.
type Customer struct {
	types.Entity
	ID    id.CustomerID `json:"id"`
	Kind  Kind          `json:"kind"`
	Name  string        `json:"name"`
	Email string        `json:"email,omitempty"`

	// RentDiscountRate is a percentage discount applied to the rent portion
	// of lease invoices. Zero when the operator configured none.
	RentDiscountRate types.Rate `json:"rent_discount_rate"`

	// MeetingDiscountRate is a flat percentage discount applied to usage
	// invoices when the individual bookings carry no discount of their own.
	MeetingDiscountRate types.Rate `json:"meeting_discount_rate"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// IsTenant reports whether the customer can hold leases.
func (c *Customer) IsTenant() bool { return c.Kind == KindTenant }

// ListOpts filters customer listings.
type ListOpts struct {
	Kind   Kind
	Limit  int
	Offset int
}
