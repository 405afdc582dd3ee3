package poller

import "context"

// Client drives the three periodic cycles: the short new-post sweep, the
// long reconciliation sweep, and the daily cleanup of dead destinations.
type Client interface {
	ScheduleNewPostSweep(ctx context.Context) error
	ScheduleReconciliation(ctx context.Context) error
	ScheduleCleanup(ctx context.Context) error
}
