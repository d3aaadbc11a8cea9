package rentroll

import (
	"context"
	"time"

	"github.com/xraph/rentroll/schedule"
	"github.com/xraph/rentroll/types"
)

// jobOrder is the fixed registry order a polling pass evaluates jobs in.
// Generation runs before the notifier and the sweep so a catch-up pass
// bills before it tidies.
var jobOrder = []schedule.JobType{
	schedule.JobGenerateRentInvoices,
	schedule.JobGenerateUsageInvoices,
	schedule.JobApplyRentIndexation,
	schedule.JobNotifyLeaseExpiry,
	schedule.JobCompletePastBookings,
}

// Report summarizes one batch job run.
type Report struct {
	JobType   schedule.JobType `json:"job_type,omitempty"`
	Month     types.Month      `json:"month,omitzero"`
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
}

// seedJobs creates the one-row-per-type job registry on first start.
// Existing rows are left untouched so re-deploys keep their schedule state.
func (e *Engine) seedJobs(ctx context.Context) error {
	now := e.now(ctx)
	for _, jt := range jobOrder {
		if _, err := e.store.GetJob(ctx, jt); err == nil {
			continue
		} else if !IsNotFound(err) {
			return err
		}
		j := &schedule.Job{
			Type:      jt,
			Enabled:   true,
			NextRunAt: now,
		}
		if err := e.store.PutJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

// pollWorker re-runs Tick on the configured interval until Stop.
func (e *Engine) pollWorker(ctx context.Context) {
	defer e.wg.Done()

	// First pass immediately; a deployment resuming after downtime should
	// not wait a full interval to catch up.
	e.Tick(ctx)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// Tick is one scheduling pass: it evaluates due-ness for every job in
// registry order and runs due handlers sequentially. A handler failure is
// logged and leaves the job's timestamps untouched, so the next pass
// retries it; the pass continues with the remaining jobs.
func (e *Engine) Tick(ctx context.Context) {
	now := e.now(ctx)

	for _, jt := range jobOrder {
		j, err := e.store.GetJob(ctx, jt)
		if err != nil {
			e.logger.Error("job lookup failed", "job", jt, "error", err)
			continue
		}
		if !j.Due(now) {
			continue
		}
		if _, err := e.runJob(ctx, j, now); err != nil {
			continue // already logged; timestamps untouched
		}
	}
}

// RunNow executes a job immediately, bypassing the due-check but not the
// enabled flag. On success it stamps the schedule exactly like a timed run.
func (e *Engine) RunNow(ctx context.Context, jobType schedule.JobType) (Report, error) {
	j, err := e.store.GetJob(ctx, jobType)
	if err != nil {
		return Report{}, err
	}
	if !j.Enabled {
		return Report{}, ErrJobDisabled
	}
	return e.runJob(ctx, j, e.now(ctx))
}

// runJob executes the handler and, only on success, stamps
// last_run_at/next_run_at. now is the effective billing time for the whole
// run, so one pass bills one consistent period.
func (e *Engine) runJob(ctx context.Context, j *schedule.Job, now time.Time) (Report, error) {
	e.logger.Info("job starting", "job", j.Type)
	e.plugins.EmitJobStarted(ctx, string(j.Type))

	report, err := e.dispatch(ctx, j.Type, now)
	if err != nil {
		e.logger.Error("job failed", "job", j.Type, "error", err)
		e.plugins.EmitJobFailed(ctx, string(j.Type), err)
		return report, err
	}

	j.LastRunAt = &now
	j.NextRunAt = schedule.NextRun(j.Type.Cadence(), now)
	if err := e.store.PutJob(ctx, j); err != nil {
		e.logger.Error("job schedule update failed", "job", j.Type, "error", err)
		return report, err
	}

	e.logger.Info("job completed",
		"job", j.Type,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"next_run_at", j.NextRunAt,
	)
	e.plugins.EmitJobCompleted(ctx, string(j.Type), report)
	return report, nil
}

// dispatch routes a job type to its handler. Rent bills the month that is
// starting; usage bills the month that just completed.
func (e *Engine) dispatch(ctx context.Context, jobType schedule.JobType, now time.Time) (Report, error) {
	switch jobType {
	case schedule.JobGenerateRentInvoices:
		return e.GenerateRentInvoices(ctx, types.MonthOf(now))
	case schedule.JobGenerateUsageInvoices:
		return e.GenerateUsageInvoices(ctx, types.MonthOf(now).Prev())
	case schedule.JobApplyRentIndexation:
		return e.ApplyRentIndexation(ctx, now.Year())
	case schedule.JobNotifyLeaseExpiry:
		return e.NotifyExpiringLeases(ctx)
	case schedule.JobCompletePastBookings:
		return e.CompletePastBookings(ctx)
	default:
		return Report{}, ErrUnknownJobType
	}
}

// Jobs returns the persisted job registry.
func (e *Engine) Jobs(ctx context.Context) ([]*schedule.Job, error) {
	return e.store.ListJobs(ctx)
}

// SetJobEnabled toggles a job. Disabling leaves next_run_at stale on
// purpose: re-enabling makes the next pass treat the job as due, which is
// the catch-up behavior operators expect.
func (e *Engine) SetJobEnabled(ctx context.Context, jobType schedule.JobType, enabled bool) error {
	j, err := e.store.GetJob(ctx, jobType)
	if err != nil {
		return err
	}
	j.Enabled = enabled
	return e.store.PutJob(ctx, j)
}
