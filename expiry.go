package rentroll

import (
	"context"
	"time"

	"github.com/xraph/rentroll/schedule"
)

// NotifyExpiringLeases emits an expiry notice for every active lease ending
// within the configured notice window. ExpiryNotifiedAt is the once-only
// marker: the notice fires before the marker is written, so a crash between
// the two re-notifies rather than silently drops.
func (e *Engine) NotifyExpiringLeases(ctx context.Context) (Report, error) {
	report := Report{JobType: schedule.JobNotifyLeaseExpiry}

	cfg, err := e.store.GetSettings(ctx)
	if err != nil {
		return report, err
	}

	now := e.now(ctx)
	by := now.AddDate(0, 0, cfg.ExpiryNoticeDays)

	leases, err := e.store.ListExpiringLeases(ctx, by)
	if err != nil {
		return report, err
	}

	for _, l := range leases {
		if l.ExpiryNotifiedAt != nil {
			report.Skipped++
			continue
		}

		e.logger.Info("lease expiring",
			"lease", l.ID, "customer", l.CustomerID, "end_date", l.EndDate.Format(time.DateOnly))
		e.plugins.EmitLeaseExpiring(ctx, l)

		l.ExpiryNotifiedAt = &now
		l.Touch()
		if err := e.store.UpdateLease(ctx, l); err != nil {
			report.Failed++
			e.logger.Error("expiry marker update failed", "lease", l.ID, "error", err)
			continue
		}
		report.Processed++
	}

	return report, nil
}
