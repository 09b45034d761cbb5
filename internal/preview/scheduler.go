package preview

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// Scheduler requests rebuilds on a fixed interval so that scheduled posts
// and upstream content changes appear without a restart.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to create scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Every registers fn to run every interval and returns the job id.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (string, error) {
	if interval <= 0 {
		return "", ferrors.ValidationError("interval must be positive").
			WithContext("interval", interval.String()).Build()
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "failed to schedule job").
			WithContext("name", name).Build()
	}
	slog.Info("Scheduled periodic rebuild", slog.String("job", name), slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() { s.scheduler.Start() }

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error { return s.scheduler.Shutdown() }
