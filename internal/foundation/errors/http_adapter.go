package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// GenericMessage is the only message shown to HTTP callers for server-side failures.
const GenericMessage = "Something went wrong. Please try again later."

// HTTPErrorAdapter handles error presentation and status code determination for HTTP handlers.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter.
// If logger is nil, the default logger is used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	c, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch c.Category() {
	case CategoryValidation, CategoryConfig:
		return http.StatusBadRequest
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryNetwork, CategoryUpstream, CategoryGit:
		return http.StatusBadGateway
	case CategoryBuild:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response and logs server-side failures.
// Caller errors (4xx) are not logged as faults.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	payload := a.FormatErrorResponse(err)

	b, jerr := json.Marshal(payload)
	if jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("{\"error\":\"internal error\"}"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)

	if status < http.StatusInternalServerError {
		a.logger.DebugContext(r.Context(), "request rejected", slog.Int("status", status), slog.String("error", err.Error()))
		return
	}
	a.logger.ErrorContext(r.Context(), "request failed",
		slog.Int("status", status),
		slog.String("category", string(GetCategory(err))),
		slog.String("error", err.Error()))
}

// FormatErrorResponse converts an error into the canonical payload. Messages of
// server-side failures are replaced by GenericMessage so collaborator details
// never reach the caller.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	if a.StatusCodeFor(err) >= http.StatusInternalServerError {
		return HTTPErrorResponse{Error: GenericMessage}
	}
	c, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: GenericMessage}
	}
	resp := HTTPErrorResponse{Error: c.Message(), Code: string(c.Category())}
	if len(c.Context()) > 0 {
		resp.Details = map[string]any(c.Context())
	}
	return resp
}
