package vat

import (
	"errors"
	"testing"

	"github.com/xraph/rentroll/types"
)

func TestCalculateExclusive(t *testing.T) {
	tests := []struct {
		name     string
		base     types.Money
		rate     types.Rate
		subtotal types.Money
		vat      types.Money
		total    types.Money
	}{
		{
			name:     "Rent 800 at 21 percent",
			base:     types.EUR(80000),
			rate:     types.RateFromPercent(21),
			subtotal: types.EUR(80000),
			vat:      types.EUR(16800),
			total:    types.EUR(96800),
		},
		{
			name:     "Bookings 135 at 21 percent",
			base:     types.EUR(13500),
			rate:     types.RateFromPercent(21),
			subtotal: types.EUR(13500),
			vat:      types.EUR(2835),
			total:    types.EUR(16335),
		},
		{
			name:     "Fractional rate 9.5 percent",
			base:     types.EUR(10000),
			rate:     types.RateFromPercent(9.5),
			subtotal: types.EUR(10000),
			vat:      types.EUR(950),
			total:    types.EUR(10950),
		},
		{
			name:     "VAT rounds half-up",
			base:     types.EUR(33), // 21% of 33 = 6.93 → 7
			rate:     types.RateFromPercent(21),
			subtotal: types.EUR(33),
			vat:      types.EUR(7),
			total:    types.EUR(40),
		},
		{
			name:     "Zero rate",
			base:     types.EUR(50000),
			rate:     0,
			subtotal: types.EUR(50000),
			vat:      types.EUR(0),
			total:    types.EUR(50000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Calculate(tt.base, tt.rate, false)
			if err != nil {
				t.Fatalf("Calculate error: %v", err)
			}
			if !b.Subtotal.Equal(tt.subtotal) {
				t.Errorf("Subtotal: got %v, want %v", b.Subtotal, tt.subtotal)
			}
			if !b.VAT.Equal(tt.vat) {
				t.Errorf("VAT: got %v, want %v", b.VAT, tt.vat)
			}
			if !b.Total.Equal(tt.total) {
				t.Errorf("Total: got %v, want %v", b.Total, tt.total)
			}
		})
	}
}

func TestCalculateInclusive(t *testing.T) {
	tests := []struct {
		name     string
		base     types.Money
		rate     types.Rate
		subtotal types.Money
		vat      types.Money
	}{
		{
			name:     "Gross 968 at 21 percent",
			base:     types.EUR(96800),
			rate:     types.RateFromPercent(21),
			subtotal: types.EUR(80000),
			vat:      types.EUR(16800),
		},
		{
			name:     "Awkward gross keeps exact sum",
			base:     types.EUR(99999), // 99999/1.21 = 82643.80 → 82644
			rate:     types.RateFromPercent(21),
			subtotal: types.EUR(82644),
			vat:      types.EUR(17355),
		},
		{
			name:     "Zero rate passes through",
			base:     types.EUR(50000),
			rate:     0,
			subtotal: types.EUR(50000),
			vat:      types.EUR(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Calculate(tt.base, tt.rate, true)
			if err != nil {
				t.Fatalf("Calculate error: %v", err)
			}
			if !b.Subtotal.Equal(tt.subtotal) {
				t.Errorf("Subtotal: got %v, want %v", b.Subtotal, tt.subtotal)
			}
			if !b.VAT.Equal(tt.vat) {
				t.Errorf("VAT: got %v, want %v", b.VAT, tt.vat)
			}
			// Inclusive mode: total is the given gross, untouched.
			if !b.Total.Equal(tt.base) {
				t.Errorf("Total: got %v, want %v", b.Total, tt.base)
			}
		})
	}
}

// The sum invariant must hold for every input, not just round numbers.
func TestCalculateSumInvariant(t *testing.T) {
	rates := []types.Rate{0, types.RateFromPercent(6), types.RateFromPercent(9.5), types.RateFromPercent(21)}
	for _, rate := range rates {
		for cents := int64(1); cents < 3000; cents += 7 {
			for _, inclusive := range []bool{false, true} {
				b, err := Calculate(types.EUR(cents), rate, inclusive)
				if err != nil {
					t.Fatalf("Calculate(%d, %v, %v): %v", cents, rate, inclusive, err)
				}
				if !b.Subtotal.Add(b.VAT).Equal(b.Total) {
					t.Fatalf("Calculate(%d, %v, %v): %v + %v != %v",
						cents, rate, inclusive, b.Subtotal, b.VAT, b.Total)
				}
			}
		}
	}
}

func TestCalculateNegativeRate(t *testing.T) {
	_, err := Calculate(types.EUR(10000), types.RateFromBasisPoints(-100), false)
	if !errors.Is(err, ErrInvalidRate) {
		t.Errorf("Expected ErrInvalidRate, got %v", err)
	}
}
