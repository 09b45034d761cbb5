package handlers

import (
	"context"
	"net/http"

	"git.home.luguber.info/inful/folio/internal/chat"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/server/responses"
)

// Completer answers a single question.
type Completer interface {
	Complete(ctx context.Context, question string) (chat.Answer, error)
}

// ChatHandlers proxies POST /api/chat to the configured completion endpoint.
type ChatHandlers struct {
	client       Completer
	errorAdapter *ferrors.HTTPErrorAdapter
	recorder     metrics.Recorder
}

// NewChatHandlers creates chat handlers.
func NewChatHandlers(client Completer, adapter *ferrors.HTTPErrorAdapter, recorder metrics.Recorder) *ChatHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if adapter == nil {
		adapter = ferrors.NewHTTPErrorAdapter(nil)
	}
	return &ChatHandlers{client: client, errorAdapter: adapter, recorder: recorder}
}

// HandleChat forwards {"question"} and answers {"answer"}. The caller's
// Authorization header, when present, replaces the configured token.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var body responses.ChatRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.recorder.IncChatRequest(metrics.ChatRejected)
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryValidation, "request body must be a JSON object with a question").Build())
		return
	}

	ctx := r.Context()
	if auth := r.Header.Get("Authorization"); auth != "" {
		ctx = chat.WithToken(ctx, auth)
	}

	answer, err := h.client.Complete(ctx, body.Question)
	if err != nil {
		if h.errorAdapter.StatusCodeFor(err) < http.StatusInternalServerError {
			h.recorder.IncChatRequest(metrics.ChatRejected)
		} else {
			h.recorder.IncChatRequest(metrics.ChatFailed)
		}
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.recorder.IncChatRequest(metrics.ChatAnswered)
	_ = writeJSON(w, http.StatusOK, responses.ChatResponse{Answer: answer.Text})
}
