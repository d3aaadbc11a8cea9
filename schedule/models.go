// Package schedule defines the fixed set of automation jobs and their
// cadences.
package schedule

import "time"

// JobType identifies one of the fixed automations. The set is closed; the
// controller iterates them in registry order on every pass.
type JobType string

const (
	JobGenerateRentInvoices  JobType = "generate_rent_invoices"
	JobGenerateUsageInvoices JobType = "generate_usage_invoices"
	JobApplyRentIndexation   JobType = "apply_rent_indexation"
	JobNotifyLeaseExpiry     JobType = "notify_lease_expiry"
	JobCompletePastBookings  JobType = "complete_past_bookings"
)

// Cadence is how often a job recurs.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// Cadence returns the fixed cadence for a job type.
func (jt JobType) Cadence() Cadence {
	switch jt {
	case JobGenerateRentInvoices, JobGenerateUsageInvoices:
		return CadenceMonthly
	case JobApplyRentIndexation:
		return CadenceYearly
	default:
		return CadenceDaily
	}
}

// Job is the persisted state of one automation. One row per job type,
// created on first engine start with NextRunAt = now.
//
// A disabled job keeps its stale NextRunAt; on re-enable the next pass
// immediately treats it as due (catch-up, not skip-to-future).
type Job struct {
	Type      JobType    `json:"job_type"`
	Enabled   bool       `json:"is_enabled"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	NextRunAt time.Time  `json:"next_run_at"`
}

// Due reports whether the job should run at the given instant.
func (j *Job) Due(now time.Time) bool {
	return j.Enabled && !j.NextRunAt.After(now)
}

// NextRun computes the occurrence after now for the given cadence:
// daily is now + 24h, monthly is midnight on the first of the next month,
// yearly is midnight on January 1 of the next year.
func NextRun(c Cadence, now time.Time) time.Time {
	switch c {
	case CadenceMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	case CadenceYearly:
		return time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return now.Add(24 * time.Hour)
	}
}
