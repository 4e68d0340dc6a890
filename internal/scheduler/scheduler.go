package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/Reathyze20/akcion/pkg/logger"
)

// Job is one scheduled unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler drives background jobs on cron schedules. Schedules use the
// six-field (seconds-first) format.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

// New creates a scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: log.Component("scheduler"),
	}
}

// Register adds a job on the given cron schedule.
func (s *Scheduler) Register(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runJob(job)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"schedule": schedule,
	}).Info("Job registered")
	return nil
}

func (s *Scheduler) runJob(job Job) {
	ctx := context.Background()

	s.logger.WithField("job", job.Name()).Debug("Job started")
	if err := job.Run(ctx); err != nil {
		s.logger.WithError(err).WithField("job", job.Name()).Error("Job failed")
		return
	}
	s.logger.WithField("job", job.Name()).Debug("Job completed")
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
