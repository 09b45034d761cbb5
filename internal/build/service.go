package build

import (
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
)

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// OutputDir overrides Config.Output.Directory when set.
	OutputDir string

	// BaseDir is the directory relative content and output paths resolve
	// against; the working directory when empty.
	BaseDir string
}

// Result contains the outcome of a build execution.
type Result struct {
	Status     Status
	OutputPath string

	Posts         int
	Pages         int
	DraftsSkipped int
	Files         int
	BrokenLinks   int

	// Commit is the content repository HEAD, empty for local content.
	Commit string

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

func (r *Result) finish(status Status, now time.Time) *Result {
	r.Status = status
	r.EndTime = now
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}
