package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_IsMatchesThroughWrapping(t *testing.T) {
	sentinel := NotFoundError("post not found").Build()
	wrapped := fmt.Errorf("render: %w", sentinel.Wrap(stderrors.New("slug missing")))

	require.ErrorIs(t, wrapped, sentinel)
	require.True(t, HasCategory(wrapped, CategoryNotFound))
	require.Equal(t, CategoryNotFound, GetCategory(wrapped))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestClassifiedError_WithContextCopies(t *testing.T) {
	base := ValidationError("missing field").Build()
	withField := base.WithContext("field", "title")

	_, ok := base.Context().Get("field")
	require.False(t, ok)
	v, ok := withField.Context().GetString("field")
	require.True(t, ok)
	require.Equal(t, "title", v)
}

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("bad email").Build(), http.StatusBadRequest},
		{"not found", NotFoundError("missing").Build(), http.StatusNotFound},
		{"upstream", UpstreamError("provider rejected").Build(), http.StatusBadGateway},
		{"network wrapped", fmt.Errorf("call: %w", NetworkError("dial").Build()), http.StatusBadGateway},
		{"internal", InternalError("boom").Build(), http.StatusInternalServerError},
		{"unclassified", stderrors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_HidesServerSideDetails(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&logs, nil)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	adapter.WriteErrorResponse(rec, req, UpstreamError("provider said: key revoked").Build())

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, GenericMessage, body.Error)
	require.NotContains(t, rec.Body.String(), "key revoked")
	require.Contains(t, logs.String(), "key revoked")
}

func TestHTTPErrorAdapter_ExposesValidationMessage(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	adapter.WriteErrorResponse(rec, req, ValidationError("question is required").Build())

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "question is required")
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	require.Equal(t, 0, adapter.ExitCodeFor(nil))
	require.Equal(t, 2, adapter.ExitCodeFor(ValidationError("x").Build()))
	require.Equal(t, 7, adapter.ExitCodeFor(ConfigError("x").Build()))
	require.Equal(t, 11, adapter.ExitCodeFor(fmt.Errorf("wrap: %w", BuildError("x").Build())))
	require.Equal(t, 1, adapter.ExitCodeFor(stderrors.New("x")))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ValidationError("post is missing a title").WithContext("file", "posts/a.md").Build())

	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "post is missing a title")
	require.Contains(t, stderr.String(), "file=posts/a.md")
}
