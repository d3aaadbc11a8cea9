package rentroll

import (
	"context"
	"time"

	"github.com/xraph/rentroll/booking"
	"github.com/xraph/rentroll/schedule"
)

// CompletePastBookings marks every confirmed booking dated before today as
// completed, making it visible to usage invoicing. Runs daily; re-running
// is harmless because completed bookings no longer match the query.
func (e *Engine) CompletePastBookings(ctx context.Context) (Report, error) {
	report := Report{JobType: schedule.JobCompletePastBookings}

	now := e.now(ctx)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	bookings, err := e.store.ListConfirmedBefore(ctx, today)
	if err != nil {
		return report, err
	}

	for _, b := range bookings {
		b.Status = booking.StatusCompleted
		b.Touch()
		if err := e.store.UpdateBooking(ctx, b); err != nil {
			report.Failed++
			e.logger.Error("booking completion failed", "booking", b.ID, "error", err)
			continue
		}
		report.Processed++
	}

	if report.Processed > 0 {
		e.logger.Info("past bookings completed", "count", report.Processed)
		e.plugins.EmitBookingsCompleted(ctx, report.Processed)
	}
	return report, nil
}
