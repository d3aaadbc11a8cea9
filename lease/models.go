// Package lease defines rental contracts and their pricing rules.
//
// A lease is either standard (fixed monthly rent per space) or flex
// (priced by one of three models: monthly unlimited, per working day, or
// credit based). Rent math lives here as pure functions so the generation
// engine and its tests share one source of truth.
package lease

import (
	"fmt"
	"time"

	"github.com/xraph/rentroll/id"
	"github.com/xraph/rentroll/types"
)

// Status is the lease lifecycle state.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Type distinguishes fixed-rent leases from flex-priced ones.
type Type string

const (
	TypeStandard Type = "standard"
	TypeFlex     Type = "flex"
)

// FlexModel selects how a flex lease is priced.
type FlexModel string

const (
	// FlexMonthlyUnlimited is a flat monthly rate.
	FlexMonthlyUnlimited FlexModel = "monthly_unlimited"
	// FlexDaily bills a daily rate times the working days in the month.
	FlexDaily FlexModel = "daily"
	// FlexCreditBased bills a per-credit rate times the monthly credit
	// allowance (credits per week × 4.33, rounded).
	FlexCreditBased FlexModel = "credit_based"
)

// Lease is a rental contract for one or more spaces.
// At most one active lease exists per tenant per space; that invariant is
// enforced by the lease-management workflows, not here.
type Lease struct {
	types.Entity
	ID         id.LeaseID    `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	Status     Status        `json:"status"`
	Type       Type          `json:"type"`

	VATRate      types.Rate `json:"vat_rate"`
	VATInclusive bool       `json:"vat_inclusive"`

	// SecurityDeposit is billed as a separate, non-discounted invoice line.
	SecurityDeposit types.Money `json:"security_deposit"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// LastIndexedYear is the idempotency marker for annual rent indexation.
	// It lives on the lease record so marker and rents update atomically.
	LastIndexedYear int `json:"last_indexed_year,omitempty"`

	// ExpiryNotifiedAt marks that the expiry notice for this lease has been
	// emitted, so the daily notifier fires once per lease.
	ExpiryNotifiedAt *time.Time `json:"expiry_notified_at,omitempty"`

	// Spaces is populated for standard leases; Flex for flex leases.
	Spaces []LeaseSpace `json:"spaces,omitempty"`
	Flex   *FlexPricing `json:"flex,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// LeaseSpace joins a lease to a space with its pricing. Billing reads a
// snapshot; a space's rent is immutable once invoiced for a period.
type LeaseSpace struct {
	ID          id.LeaseSpaceID `json:"id"`
	LeaseID     id.LeaseID      `json:"lease_id"`
	SpaceID     string          `json:"space_id"`
	Name        string          `json:"name"`
	MonthlyRent types.Money     `json:"monthly_rent"`
	PricePerSqm types.Money     `json:"price_per_sqm"`
	SizeSqm     int             `json:"size_sqm,omitempty"`
}

// FlexPricing holds the parameters of a flex lease's pricing model.
type FlexPricing struct {
	Model FlexModel `json:"model"`

	MonthlyRate types.Money `json:"monthly_rate,omitempty"` // monthly_unlimited
	DailyRate   types.Money `json:"daily_rate,omitempty"`   // daily
	CreditRate  types.Money `json:"credit_rate,omitempty"`  // credit_based

	CreditsPerWeek int `json:"credits_per_week,omitempty"`
}

// MonthlyCredits returns the monthly credit allowance:
// round(credits_per_week × 4.33).
func (f *FlexPricing) MonthlyCredits() int64 {
	cpw := int64(f.CreditsPerWeek)
	return (cpw*433 + 50) / 100
}

// IsActive reports whether the lease is billable.
func (l *Lease) IsActive() bool { return l.Status == StatusActive }

// RentFor computes the rent charge for the given month, before discounts
// and deposit.
func (l *Lease) RentFor(month types.Month) (types.Money, error) {
	if l.Type == TypeFlex {
		if l.Flex == nil {
			return types.Money{}, fmt.Errorf("lease: %s is flex but has no pricing", l.ID)
		}
		return l.Flex.RentFor(month)
	}

	rent := types.Zero("eur")
	for _, sp := range l.Spaces {
		rent = rent.Add(sp.MonthlyRent)
	}
	return rent, nil
}

// RentFor computes the flex rent for the given month.
func (f *FlexPricing) RentFor(month types.Month) (types.Money, error) {
	switch f.Model {
	case FlexMonthlyUnlimited:
		return f.MonthlyRate, nil
	case FlexDaily:
		return f.DailyRate.Multiply(int64(month.WorkingDays())), nil
	case FlexCreditBased:
		return f.CreditRate.Multiply(f.MonthlyCredits()), nil
	default:
		return types.Money{}, fmt.Errorf("lease: unknown flex model %q", f.Model)
	}
}

// ListOpts filters lease listings.
type ListOpts struct {
	Status     Status
	Type       Type
	CustomerID id.CustomerID
	Limit      int
	Offset     int
}
