// Package vat implements the VAT breakdown calculation used by invoice
// generation. It is pure: no storage, no clock, integer-cent arithmetic only.
package vat

import (
	"errors"
	"fmt"

	"github.com/xraph/rentroll/types"
)

// ErrInvalidRate is returned for a negative VAT rate. Callers validate
// rates before building invoices; Calculate double-checks anyway so a
// corrupt lease record cannot produce a negative-tax invoice.
var ErrInvalidRate = errors.New("vat: invalid rate")

// Breakdown is the result of a VAT calculation. The invariant
// Subtotal + VAT == Total holds exactly, in both inclusive and exclusive
// mode, at cent precision.
type Breakdown struct {
	Subtotal types.Money `json:"subtotal"`
	VAT      types.Money `json:"vat_amount"`
	Total    types.Money `json:"total"`
}

// Calculate splits a base amount into subtotal, VAT and total.
//
// Inclusive mode treats base as the gross amount: the subtotal is extracted
// by dividing out the rate (rounded half-up), and VAT is the exact
// remainder. Exclusive mode treats base as the net amount: VAT is the rate
// applied to it (rounded half-up), and the total is the exact sum.
//
// Rounding happens at each step, never deferred, so totals recomputed later
// from the stored subtotal and VAT reproduce exactly. Callers must sum line
// items first and apply VAT once on the aggregate — never per line.
func Calculate(base types.Money, rate types.Rate, inclusive bool) (Breakdown, error) {
	if rate.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}

	if inclusive {
		total := base
		// subtotal = base / (1 + rate), half-up to cents
		subtotal := base.ScaleRound(10_000, 10_000+rate.BasisPoints())
		return Breakdown{
			Subtotal: subtotal,
			VAT:      total.Subtract(subtotal),
			Total:    total,
		}, nil
	}

	subtotal := base
	vatAmount := base.ApplyRate(rate)
	return Breakdown{
		Subtotal: subtotal,
		VAT:      vatAmount,
		Total:    subtotal.Add(vatAmount),
	}, nil
}
