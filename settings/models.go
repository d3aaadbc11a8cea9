// Package settings defines the operator-configured knobs the engine reads
// from the store. Nothing here is hard-coded in the billing rules.
package settings

import (
	"time"

	"github.com/xraph/rentroll/types"
)

// Settings is the single operator-configuration record.
type Settings struct {
	types.Entity

	// TestMode, together with TestDate, overrides the engine's clock so
	// billing cutovers can be rehearsed against real data.
	TestMode bool      `json:"test_mode"`
	TestDate time.Time `json:"test_date,omitzero"`

	// IndexationRate is the annual rent increase percentage. Zero disables
	// indexation.
	IndexationRate types.Rate `json:"indexation_rate"`

	// ExpiryNoticeDays is how far ahead the lease-expiry notifier looks.
	ExpiryNoticeDays int `json:"expiry_notice_days"`
}

// Default returns the settings used when no record has been stored yet.
func Default() *Settings {
	return &Settings{ExpiryNoticeDays: 60}
}
