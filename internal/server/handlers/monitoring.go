package handlers

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/server/responses"
	"git.home.luguber.info/inful/folio/internal/version"
)

// BuildStatus reports the most recent build, nil before the first one.
type BuildStatus interface {
	LastBuild() *build.Result
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	status    BuildStatus
	startTime time.Time
}

// NewMonitoringHandlers creates a new monitoring handlers instance. status
// may be nil when the server only serves a prebuilt directory.
func NewMonitoringHandlers(status BuildStatus) *MonitoringHandlers {
	return &MonitoringHandlers{status: status, startTime: time.Now()}
}

// HandleHealthCheck handles the health check endpoint. A failed last build
// degrades the status but still answers 200 because the previous output is
// still being served.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}

	response := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Commit:    version.GitCommit,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if h.status != nil {
		if last := h.status.LastBuild(); last != nil {
			response.LastBuild = &responses.BuildSummary{
				Status:        string(last.Status),
				Posts:         last.Posts,
				Pages:         last.Pages,
				Files:         last.Files,
				DurationMS:    last.Duration.Milliseconds(),
				FinishedAt:    last.EndTime,
				ContentCommit: last.Commit,
			}
			if !last.Status.IsSuccess() {
				response.Status = "degraded"
			}
		}
	}

	_ = writeJSONPretty(w, r, http.StatusOK, response)
}
