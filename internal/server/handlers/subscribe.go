package handlers

import (
	"context"
	"log/slog"
	"net/http"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/server/responses"
	"git.home.luguber.info/inful/folio/internal/subscribe"
)

// Subscriber runs one subscription attempt.
type Subscriber interface {
	Subscribe(ctx context.Context, req subscribe.Request) (metrics.SubscribeOutcome, error)
}

// SubscribeHandlers serves POST /api/subscribe.
type SubscribeHandlers struct {
	service     Subscriber
	tokenHeader string
}

// NewSubscribeHandlers returns handlers reading the bot verification token
// from tokenHeader.
func NewSubscribeHandlers(service Subscriber, tokenHeader string) *SubscribeHandlers {
	return &SubscribeHandlers{service: service, tokenHeader: tokenHeader}
}

// HandleSubscribe answers 200 {"success":true}, 400 with the validation
// message, or 500 with the generic message. Provider details stay in the log.
func (h *SubscribeHandlers) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var body responses.SubscribeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		slog.DebugContext(r.Context(), "Undecodable subscribe body", logfields.Error(err))
		body.Email = ""
	}

	var token string
	if h.tokenHeader != "" {
		token = r.Header.Get(h.tokenHeader)
	}
	outcome, err := h.service.Subscribe(r.Context(), subscribe.Request{
		Email:    body.Email,
		BotToken: token,
		RemoteIP: remoteIP(r),
	})
	slog.DebugContext(r.Context(), "Subscription attempt", logfields.Outcome(string(outcome)))

	switch {
	case err == nil:
		_ = writeJSON(w, http.StatusOK, responses.SubscribeResponse{Success: true})
	case outcome == metrics.SubscribeInvalid:
		_ = writeJSON(w, http.StatusBadRequest, responses.ErrorResponse{Error: subscribe.InvalidEmailMessage})
	default:
		_ = writeJSON(w, http.StatusInternalServerError, responses.ErrorResponse{Error: ferrors.GenericMessage})
	}
}
