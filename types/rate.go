package types

import (
	"fmt"
	"math"
)

// rateScale is the fixed-point denominator for Rate: 1% = 100 basis points.
const rateScale = 10_000

// Rate is a percentage expressed in basis points (1% = 100 bps), so
// fractional VAT and discount rates stay integer-exact. A Rate of 2100
// is 21%.
type Rate int64

// RateFromPercent converts a percentage (e.g. 21 or 9.5) to a Rate,
// rounding to the nearest basis point.
func RateFromPercent(pct float64) Rate {
	return Rate(math.Round(pct * 100))
}

// RateFromBasisPoints creates a Rate from raw basis points.
func RateFromBasisPoints(bps int64) Rate { return Rate(bps) }

// BasisPoints returns the raw basis-point value.
func (r Rate) BasisPoints() int64 { return int64(r) }

// Percent returns the rate as a percentage (2100 -> 21.0).
func (r Rate) Percent() float64 { return float64(r) / 100 }

// IsZero reports whether the rate is exactly zero.
func (r Rate) IsZero() bool { return r == 0 }

// IsNegative reports whether the rate is below zero. Negative rates are
// never valid billing input; callers reject them before any calculation.
func (r Rate) IsNegative() bool { return r < 0 }

// String formats the rate as a percentage: "21%" or "9.5%".
func (r Rate) String() string {
	bps := int64(r)
	sign := ""
	if bps < 0 {
		sign = "-"
		bps = -bps
	}
	whole := bps / 100
	frac := bps % 100
	switch {
	case frac == 0:
		return fmt.Sprintf("%s%d%%", sign, whole)
	case frac%10 == 0:
		return fmt.Sprintf("%s%d.%d%%", sign, whole, frac/10)
	default:
		return fmt.Sprintf("%s%d.%02d%%", sign, whole, frac)
	}
}
