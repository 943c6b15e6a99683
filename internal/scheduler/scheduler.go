package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/quantora/marketlens/pkg/logger"
)

// Scheduler runs registered jobs on their cron schedules
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New creates a scheduler with second-resolution cron expressions
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log,
	}
}

// Register adds a job to the schedule
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Schedule(), func() {
		start := time.Now()
		log := s.log.WithField("job", job.Name())
		log.Info("Job started")

		if err := job.Run(context.Background()); err != nil {
			log.WithError(err).Error("Job failed")
			return
		}
		log.WithField("duration", time.Since(start).String()).Info("Job finished")
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.log.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"schedule": job.Schedule(),
	}).Info("Registered job")
	return nil
}

// Start begins running the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop halts the schedule and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}
