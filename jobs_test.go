package rentroll_test

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/rentroll"
	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/invoice"
	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/types"
)

func TestStartSeedsJobs(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	jobs, err := e.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 5 {
		t.Fatalf("got %d jobs, want 5", len(jobs))
	}
	for _, j := range jobs {
		if !j.Enabled {
			t.Errorf("job %s seeded disabled", j.Type)
		}
		if !j.Due(now) {
			t.Errorf("job %s not due immediately after seeding", j.Type)
		}
	}
}

func TestRunNowStampsSchedule(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)

	report, err := e.RunNow(ctx, schedule.JobGenerateRentInvoices)
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if report.Processed != 1 {
		t.Fatalf("report: %+v", report)
	}
	// Rent bills the month that is starting.
	if report.Month != types.MustParseMonth("2026-03") {
		t.Errorf("Month: got %s, want 2026-03", report.Month)
	}

	jobs, _ := e.Jobs(ctx)
	for _, j := range jobs {
		if j.Type != schedule.JobGenerateRentInvoices {
			continue
		}
		if j.LastRunAt == nil || !j.LastRunAt.Equal(now) {
			t.Errorf("LastRunAt: got %v, want %v", j.LastRunAt, now)
		}
		want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		if !j.NextRunAt.Equal(want) {
			t.Errorf("NextRunAt: got %v, want %v", j.NextRunAt, want)
		}
		if j.Due(now) {
			t.Error("job still due after successful run")
		}
	}
}

func TestRunNowDisabledJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	if err := e.SetJobEnabled(ctx, schedule.JobGenerateRentInvoices, false); err != nil {
		t.Fatalf("SetJobEnabled: %v", err)
	}
	if _, err := e.RunNow(ctx, schedule.JobGenerateRentInvoices); !errors.Is(err, rentroll.ErrJobDisabled) {
		t.Errorf("RunNow on disabled job: got %v, want ErrJobDisabled", err)
	}
}

func TestDisabledJobCatchesUpOnReEnable(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	if err := e.SetJobEnabled(ctx, schedule.JobGenerateRentInvoices, false); err != nil {
		t.Fatalf("SetJobEnabled: %v", err)
	}

	jobs, _ := e.Jobs(ctx)
	for _, j := range jobs {
		if j.Type != schedule.JobGenerateRentInvoices {
			continue
		}
		if j.Due(now) {
			t.Error("disabled job reported due")
		}
		// NextRunAt stays stale while disabled; re-enabling makes the
		// next pass treat the job as immediately due.
		if j.NextRunAt.After(now) {
			t.Errorf("disable advanced NextRunAt to %v", j.NextRunAt)
		}
	}

	if err := e.SetJobEnabled(ctx, schedule.JobGenerateRentInvoices, true); err != nil {
		t.Fatalf("SetJobEnabled: %v", err)
	}
	jobs, _ = e.Jobs(ctx)
	for _, j := range jobs {
		if j.Type == schedule.JobGenerateRentInvoices && !j.Due(now) {
			t.Error("re-enabled job not due")
		}
	}
}

func TestTickRunsDueJobsOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Acme BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)

	e.Tick(ctx)

	invs, _ := e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})
	if len(invs) != 1 {
		t.Fatalf("after first tick: got %d invoices, want 1", len(invs))
	}

	// A second pass at the same instant finds nothing due.
	e.Tick(ctx)
	invs, _ = e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})
	if len(invs) != 1 {
		t.Fatalf("after second tick: got %d invoices, want 1", len(invs))
	}
}

func TestApplyRentIndexation(t *testing.T) {
	now := time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cfg, err := e.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	cfg.IndexationRate = types.RateFromPercent(3)
	if err := e.UpdateSettings(ctx, cfg); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	cust := newTenant(t, e, ctx, "Indexed BV")
	l := newStandardLease(t, e, ctx, cust, 100000, 21, false)

	report, err := e.ApplyRentIndexation(ctx, 2026)
	if err != nil {
		t.Fatalf("ApplyRentIndexation: %v", err)
	}
	if report.Processed != 1 {
		t.Fatalf("report: %+v", report)
	}

	got, _ := e.GetLease(ctx, l.ID)
	if !got.Spaces[0].MonthlyRent.Equal(types.EUR(103000)) {
		t.Errorf("rent: got %v, want €1030.00", got.Spaces[0].MonthlyRent)
	}
	if got.LastIndexedYear != 2026 {
		t.Errorf("LastIndexedYear: got %d, want 2026", got.LastIndexedYear)
	}

	// Same year again: skipped, rent unchanged.
	report, err = e.ApplyRentIndexation(ctx, 2026)
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if report.Processed != 0 || report.Skipped != 1 {
		t.Fatalf("re-run report: %+v", report)
	}
	got, _ = e.GetLease(ctx, l.ID)
	if !got.Spaces[0].MonthlyRent.Equal(types.EUR(103000)) {
		t.Errorf("rent after re-run: got %v, want €1030.00", got.Spaces[0].MonthlyRent)
	}

	// The following year compounds on the indexed rent: 1030 × 1.03.
	report, err = e.ApplyRentIndexation(ctx, 2027)
	if err != nil {
		t.Fatalf("next year: %v", err)
	}
	if report.Processed != 1 {
		t.Fatalf("next year report: %+v", report)
	}
	got, _ = e.GetLease(ctx, l.ID)
	if !got.Spaces[0].MonthlyRent.Equal(types.EUR(106090)) {
		t.Errorf("rent after 2027: got %v, want €1060.90", got.Spaces[0].MonthlyRent)
	}
}

func TestApplyRentIndexationNoRateConfigured(t *testing.T) {
	now := time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Flat BV")
	l := newStandardLease(t, e, ctx, cust, 100000, 21, false)

	report, err := e.ApplyRentIndexation(ctx, 2026)
	if err != nil {
		t.Fatalf("ApplyRentIndexation: %v", err)
	}
	if report.Processed != 0 {
		t.Fatalf("report: %+v", report)
	}
	got, _ := e.GetLease(ctx, l.ID)
	if !got.Spaces[0].MonthlyRent.Equal(types.EUR(100000)) {
		t.Errorf("rent changed with no rate configured: %v", got.Spaces[0].MonthlyRent)
	}
}

func TestApplyRentIndexationSkipsFlexLeases(t *testing.T) {
	now := time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cfg, _ := e.Settings(ctx)
	cfg.IndexationRate = types.RateFromPercent(3)
	if err := e.UpdateSettings(ctx, cfg); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	cust := newTenant(t, e, ctx, "Flex BV")
	l := &lease.Lease{
		CustomerID: cust.ID,
		Status:     lease.StatusActive,
		Type:       lease.TypeFlex,
		VATRate:    types.RateFromPercent(21),
		StartDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Flex:       &lease.FlexPricing{Model: lease.FlexMonthlyUnlimited, MonthlyRate: types.EUR(30000)},
	}
	if err := e.CreateLease(ctx, l); err != nil {
		t.Fatalf("CreateLease: %v", err)
	}

	report, err := e.ApplyRentIndexation(ctx, 2026)
	if err != nil {
		t.Fatalf("ApplyRentIndexation: %v", err)
	}
	if report.Processed != 0 {
		t.Fatalf("flex lease indexed: %+v", report)
	}
}

func TestCompletePastBookings(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Sweeper BV")

	past := &booking.Booking{
		Kind:        booking.KindFlexDay,
		CustomerID:  cust.ID,
		Date:        time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(3500),
		Status:      booking.StatusConfirmed,
	}
	future := &booking.Booking{
		Kind:        booking.KindFlexDay,
		CustomerID:  cust.ID,
		Date:        time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(3500),
		Status:      booking.StatusConfirmed,
	}
	pending := &booking.Booking{
		Kind:        booking.KindFlexDay,
		CustomerID:  cust.ID,
		Date:        time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		TotalAmount: types.EUR(3500),
		Status:      booking.StatusPending,
	}
	for _, b := range []*booking.Booking{past, future, pending} {
		if err := e.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}

	report, err := e.CompletePastBookings(ctx)
	if err != nil {
		t.Fatalf("CompletePastBookings: %v", err)
	}
	if report.Processed != 1 {
		t.Fatalf("report: %+v", report)
	}

	got, _ := e.GetBooking(ctx, past.ID)
	if got.Status != booking.StatusCompleted {
		t.Errorf("past booking: got %s, want completed", got.Status)
	}
	got, _ = e.GetBooking(ctx, future.ID)
	if got.Status != booking.StatusConfirmed {
		t.Errorf("future booking: got %s, want confirmed", got.Status)
	}
	got, _ = e.GetBooking(ctx, pending.ID)
	if got.Status != booking.StatusPending {
		t.Errorf("pending booking: got %s, want pending", got.Status)
	}

	// Re-running finds nothing left to sweep.
	report, err = e.CompletePastBookings(ctx)
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if report.Processed != 0 {
		t.Fatalf("re-run report: %+v", report)
	}
}

func TestNotifyExpiringLeases(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, now)

	cust := newTenant(t, e, ctx, "Leaving BV")

	soon := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC) // within 60 days
	far := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)   // outside the window

	expiring := &lease.Lease{
		CustomerID: cust.ID,
		Status:     lease.StatusActive,
		Type:       lease.TypeStandard,
		VATRate:    types.RateFromPercent(21),
		StartDate:  time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		EndDate:    &soon,
		Spaces:     []lease.LeaseSpace{{Name: "Unit 9", MonthlyRent: types.EUR(50000)}},
	}
	remote := &lease.Lease{
		CustomerID: cust.ID,
		Status:     lease.StatusActive,
		Type:       lease.TypeStandard,
		VATRate:    types.RateFromPercent(21),
		StartDate:  time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    &far,
		Spaces:     []lease.LeaseSpace{{Name: "Unit 10", MonthlyRent: types.EUR(50000)}},
	}
	for _, l := range []*lease.Lease{expiring, remote} {
		if err := e.CreateLease(ctx, l); err != nil {
			t.Fatalf("CreateLease: %v", err)
		}
	}

	report, err := e.NotifyExpiringLeases(ctx)
	if err != nil {
		t.Fatalf("NotifyExpiringLeases: %v", err)
	}
	if report.Processed != 1 {
		t.Fatalf("report: %+v", report)
	}

	got, _ := e.GetLease(ctx, expiring.ID)
	if got.ExpiryNotifiedAt == nil {
		t.Error("expiring lease not marked notified")
	}
	got, _ = e.GetLease(ctx, remote.ID)
	if got.ExpiryNotifiedAt != nil {
		t.Error("remote lease marked notified")
	}

	// Second pass: already-notified lease counts as skipped, no re-notify.
	report, err = e.NotifyExpiringLeases(ctx)
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if report.Processed != 0 || report.Skipped != 1 {
		t.Fatalf("re-run report: %+v", report)
	}
}

func TestSettingsTestModeOverridesClock(t *testing.T) {
	real := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	e, ctx := newTestEngine(t, real)

	cfg, _ := e.Settings(ctx)
	cfg.TestMode = true
	cfg.TestDate = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if err := e.UpdateSettings(ctx, cfg); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if got := e.Now(ctx); !got.Equal(cfg.TestDate) {
		t.Errorf("Now: got %v, want test date %v", got, cfg.TestDate)
	}

	cust := newTenant(t, e, ctx, "Time Traveler BV")
	newStandardLease(t, e, ctx, cust, 80000, 21, false)

	// Rent generation attributes to the simulated month.
	if _, err := e.RunNow(ctx, schedule.JobGenerateRentInvoices); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	invs, _ := e.ListInvoices(ctx, invoice.ListOpts{Kind: invoice.KindRent})
	if len(invs) != 1 {
		t.Fatalf("got %d invoices", len(invs))
	}
	if invs[0].Month != types.MustParseMonth("2026-07") {
		t.Errorf("Month: got %s, want 2026-07", invs[0].Month)
	}
}
