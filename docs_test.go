package rentroll_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/clock"
	"github.com/xraph/rentroll/customer"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/store/memory"
	"github.com/xraph/rentroll/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use SQLite or MongoDB in production)
		store := memory.New()

		// Initialize the engine with a pinned clock so the run is reproducible
		e := rentroll.New(store,
			rentroll.WithLogger(slog.Default()),
			rentroll.WithClock(clock.Fixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))),
			rentroll.WithManualScheduling(),
		)

		// Start the engine
		ctx := context.Background()
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer e.Stop()

		// Create a tenant
		tenant := &customer.Customer{
			Kind: customer.KindTenant,
			Name: "Acme BV",
		}
		if err := e.CreateCustomer(ctx, tenant); err != nil {
			t.Fatal(err)
		}

		// Create a lease
		l := &lease.Lease{
			CustomerID: tenant.ID,
			Status:     lease.StatusActive,
			Type:       lease.TypeStandard,
			VATRate:    rentroll.RateFromPercent(21),
			StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Spaces: []lease.LeaseSpace{
				{Name: "Unit 4B", MonthlyRent: rentroll.EUR(80000)}, // €800.00
			},
		}
		if err := e.CreateLease(ctx, l); err != nil {
			t.Fatal(err)
		}

		// Run the monthly rent job by hand
		report, err := e.RunNow(ctx, schedule.JobGenerateRentInvoices)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("Generated %d rent invoices for %s\n", report.Processed, report.Month)
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.EUR(80000)         // €800.00
		_ = types.Cents(9900, "eur") // €99.00
		_ = types.Zero("eur")        // €0.00

		// Arithmetic
		m1 := types.EUR(100)
		m2 := types.EUR(200)
		_ = m1.Add(m2)     // €3.00
		_ = m1.Multiply(3) // €3.00

		// Half-up scaling: 21% VAT on €8.00
		_ = types.EUR(800).ApplyRate(types.RateFromPercent(21)) // €1.68

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "€1.00"
		_ = m1.FormatMajor() // "1.00"
	})

	// Test Month examples
	t.Run("MonthExamples", func(t *testing.T) {
		m := types.MonthOf(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
		_ = m.String()      // "2026-03"
		_ = m.Prev()        // 2026-02
		_ = m.WorkingDays() // Mon-Fri days in March 2026

		parsed, err := types.ParseMonth("2026-03")
		if err != nil {
			t.Fatal(err)
		}
		if parsed != m {
			t.Fatalf("parsed %s, want %s", parsed, m)
		}
	})
}
