// Package rentroll provides a recurring-billing engine for rental businesses.
//
// Rentroll is designed as a library, not a service. Import it directly into
// your Go application and let its scheduler drive the monthly billing cycle.
// It provides:
//
//   - Automated monthly rent invoicing from leases (standard and flex pricing)
//   - Usage invoicing for completed meeting-room and flex-day bookings
//   - A credit ledger with over-application protection
//   - Annual rent indexation with once-per-year idempotency
//   - Lease expiry notices and a daily booking sweep
//   - Exact integer money arithmetic with half-up VAT rounding
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/rentroll"
//	    "github.com/xraph/rentroll/store/sqlite"
//	)
//
//	// Initialize store
//	store, err := sqlite.Open("rentroll.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create engine
//	e := rentroll.New(store)
//
//	// Start the engine (runs migrations, seeds jobs, begins polling)
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop()
//
// # Core Concepts
//
// Leases define what a tenant pays each month:
//
//	l := &lease.Lease{
//	    CustomerID: tenant.ID,
//	    Type:       lease.TypeStandard,
//	    VATRate:    rentroll.RateFromPercent(21),
//	    Spaces: []lease.LeaseSpace{
//	        {Name: "Unit 4B", MonthlyRent: rentroll.EUR(80000)},
//	    },
//	}
//
// The scheduler generates invoices when each job's cadence comes due, or you
// can drive a job by hand:
//
//	report, err := e.RunNow(ctx, schedule.JobGenerateRentInvoices)
//
// Generation is idempotent per billing period: one rent invoice per lease
// per month, one usage invoice per customer per month, no matter how often
// a job runs.
//
// Credit notes offset open invoices without ever exceeding their own value:
//
//	note, err := e.IssueCreditNote(ctx, rentroll.IssueCreditNoteInput{
//	    CustomerID: tenant.ID,
//	    Amount:     rentroll.EUR(20000),
//	})
//	_, err = e.ApplyCredit(ctx, note.ID, inv.ID, rentroll.EUR(12000))
//
// # Money
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in cents, and every
// division rounds half-up at 2 decimals, so an invoice's subtotal and VAT
// always sum exactly to its total.
//
// # Deterministic Time
//
// Every billing decision reads time through the engine's clock, which test
// mode can pin to a fixed date. A full year of billing can be replayed
// deterministically in tests.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	lease_01h2xcejqtf2nbrexx3vqjhp41  // Lease ID
//	inv_01h455vb4pex5vsknk084sn02q    // Invoice ID
//	cn_01h455vb4pex5vsknk084sn02q     // Credit note ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package rentroll
