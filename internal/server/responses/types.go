// Package responses defines the JSON bodies of the folio HTTP API.
package responses

import "time"

// SubscribeRequest is the body of POST /api/subscribe.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse is the success body of POST /api/subscribe.
type SubscribeResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the failure body of POST /api/subscribe. It carries a
// human-readable message only.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Version   string        `json:"version"`
	Commit    string        `json:"commit"`
	Uptime    float64       `json:"uptime"`
	LastBuild *BuildSummary `json:"last_build,omitempty"`
}

// BuildSummary describes the most recent build.
type BuildSummary struct {
	Status        string    `json:"status"`
	Posts         int       `json:"posts"`
	Pages         int       `json:"pages"`
	Files         int       `json:"files"`
	DurationMS    int64     `json:"duration_ms"`
	FinishedAt    time.Time `json:"finished_at"`
	ContentCommit string    `json:"content_commit,omitempty"`
}
