package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/commands"
)

const jobTimeout = 2 * time.Minute

// Job is a named background task run on a cron schedule.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler manages the periodic rental maintenance jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *slog.Logger
}

func NewScheduler(
	cfg config.SchedulerConfig,
	rentals commands.RentalCommands,
	notifications commands.NotificationCommands,
	logger *slog.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		jobs: []Job{
			{
				Name: "promote_overdue",
				Spec: cfg.OverdueSpec,
				Run: func(ctx context.Context) error {
					n, err := rentals.PromoteOverdue(ctx)
					if err == nil && n > 0 {
						logger.Info("overdue rentals promoted", "count", n)
					}
					return err
				},
			},
			{
				Name: "notification_sweep",
				Spec: cfg.NotificationSpec,
				Run: func(ctx context.Context) error {
					n, err := notifications.Sweep(ctx)
					if err == nil && n > 0 {
						logger.Info("reminders enqueued", "count", n)
					}
					return err
				},
			},
		},
	}

	for _, job := range s.jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.execute(job) }); err != nil {
			return nil, errs.Wrapf(err, "failed to register job %s with spec %q", job.Name, job.Spec)
		}
	}
	return s, nil
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

func (s *Scheduler) execute(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("scheduled job failed", "job", job.Name, "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", "jobs", len(s.jobs))
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
