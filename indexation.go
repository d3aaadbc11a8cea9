package rentroll

import (
	"context"

	"github.com/xraph/rentroll/lease"
	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/types"
)

// ApplyRentIndexation raises the rents of every active standard lease by the
// configured indexation rate, at most once per lease per calendar year.
// LastIndexedYear is the idempotency marker and is persisted in the same
// write as the adjusted rents, so a lease is never indexed twice for the
// same year and never left half-adjusted.
func (e *Engine) ApplyRentIndexation(ctx context.Context, year int) (Report, error) {
	report := Report{JobType: schedule.JobApplyRentIndexation}

	cfg, err := e.store.GetSettings(ctx)
	if err != nil {
		return report, err
	}
	rate := cfg.IndexationRate
	if rate.IsZero() {
		e.logger.Info("indexation rate not configured; nothing to do", "year", year)
		return report, nil
	}

	leases, err := e.store.ListLeases(ctx, lease.ListOpts{Status: lease.StatusActive})
	if err != nil {
		return report, err
	}

	for _, l := range leases {
		if l.Type != lease.TypeStandard {
			continue
		}
		if l.LastIndexedYear >= year {
			report.Skipped++
			continue
		}

		indexLease(l, rate, year)
		if err := e.store.UpdateLease(ctx, l); err != nil {
			report.Failed++
			e.logger.Error("indexation update failed", "lease", l.ID, "year", year, "error", err)
			continue
		}

		report.Processed++
		e.logger.Info("lease indexed", "lease", l.ID, "year", year, "rate", rate)
		e.plugins.EmitRentIndexed(ctx, l, year)
	}

	return report, nil
}

// indexLease scales every space's rent by (1 + rate) with half-up rounding
// and stamps the year marker.
func indexLease(l *lease.Lease, rate types.Rate, year int) {
	factor := int64(10_000 + rate.BasisPoints())
	for i := range l.Spaces {
		sp := &l.Spaces[i]
		sp.MonthlyRent = sp.MonthlyRent.ScaleRound(factor, 10_000)
		if !sp.PricePerSqm.IsZero() {
			sp.PricePerSqm = sp.PricePerSqm.ScaleRound(factor, 10_000)
		}
	}
	l.LastIndexedYear = year
	l.Touch()
}
