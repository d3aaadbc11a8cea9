package rentroll

import "github.com/xraph/rentroll/types"

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Rate is re-exported from types package.
type Rate = types.Rate

// Month is re-exported from types package.
type Month = types.Month

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Money and Month constructors
var (
	EUR   = types.EUR
	Cents = types.Cents
	Zero  = types.Zero
	Sum   = types.Sum

	MonthOf    = types.MonthOf
	ParseMonth = types.ParseMonth

	RateFromPercent     = types.RateFromPercent
	RateFromBasisPoints = types.RateFromBasisPoints
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
