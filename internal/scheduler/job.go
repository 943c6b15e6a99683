package scheduler

import "context"

// Job is a named unit of scheduled work
type Job interface {
	// Name identifies the job in logs
	Name() string
	// Schedule is a six-field cron expression with seconds
	Schedule() string
	// Run executes the job
	Run(ctx context.Context) error
}
