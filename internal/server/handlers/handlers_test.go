package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/chat"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/subscribe"
)

type stubProvider struct {
	err    error
	emails []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Subscribe(_ context.Context, email string) error {
	p.emails = append(p.emails, email)
	return p.err
}

type stubBots struct{ human bool }

func (b stubBots) Human(context.Context, string, string) (bool, error) { return b.human, nil }

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleSubscribe_Success(t *testing.T) {
	provider := &stubProvider{}
	h := NewSubscribeHandlers(subscribe.NewService(provider), "")

	rec := postJSON(t, h.HandleSubscribe, `{"email":" Reader@Example.com "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Len(t, provider.emails, 1)
}

func TestHandleSubscribe_InvalidEmail(t *testing.T) {
	provider := &stubProvider{}
	h := NewSubscribeHandlers(subscribe.NewService(provider), "")

	for _, body := range []string{`{"email":"nope"}`, `{}`, `not json`} {
		rec := postJSON(t, h.HandleSubscribe, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.JSONEq(t, `{"error":"Please enter a valid email address"}`, rec.Body.String(), body)
	}
	require.Empty(t, provider.emails)
}

func TestHandleSubscribe_ProviderFailureIsGeneric(t *testing.T) {
	provider := &stubProvider{err: ferrors.UpstreamError("buttondown said: email already subscribed").Build()}
	h := NewSubscribeHandlers(subscribe.NewService(provider), "")

	rec := postJSON(t, h.HandleSubscribe, `{"email":"reader@example.com"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Something went wrong. Please try again later."}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "buttondown")
}

func TestHandleSubscribe_BotIsGeneric(t *testing.T) {
	provider := &stubProvider{}
	svc := subscribe.NewService(provider, subscribe.WithBotChecker(stubBots{human: false}))
	h := NewSubscribeHandlers(svc, "X-Bot-Token")

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"reader@example.com"}`))
	req.Header.Set("X-Bot-Token", "token")
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Something went wrong. Please try again later."}`, rec.Body.String())
	require.Empty(t, provider.emails)
}

func TestHandleSubscribe_FormTokenPassesBotCheck(t *testing.T) {
	var verified []string
	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		verified = append(verified, r.PostForm.Get("response"))
		_, _ = w.Write([]byte(fmt.Sprintf(`{"success":%t}`, r.PostForm.Get("response") == "widget-token")))
	}))
	defer verify.Close()

	provider := &stubProvider{}
	checker := subscribe.NewHTTPBotChecker(verify.URL, "secret", time.Second)
	h := NewSubscribeHandlers(subscribe.NewService(provider, subscribe.WithBotChecker(checker)), "X-Bot-Token")

	send := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"reader@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Bot-Token", token)
		rec := httptest.NewRecorder()
		h.HandleSubscribe(rec, req)
		return rec
	}

	rec := send("widget-token")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Equal(t, []string{"reader@example.com"}, provider.emails)

	rec = send("")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, []string{"widget-token"}, verified, "an empty token is rejected without a verify call")
	require.Len(t, provider.emails, 1)
}

func TestHandleSubscribe_MethodNotAllowed(t *testing.T) {
	h := NewSubscribeHandlers(subscribe.NewService(&stubProvider{}), "")
	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, httptest.NewRequest(http.MethodGet, "/api/subscribe", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

type stubCompleter struct {
	answer   chat.Answer
	err      error
	question string
}

func (s *stubCompleter) Complete(_ context.Context, q string) (chat.Answer, error) {
	s.question = q
	return s.answer, s.err
}

type countingRecorder struct {
	metrics.NoopRecorder
	chat map[metrics.ChatResult]int
}

func (c *countingRecorder) IncChatRequest(r metrics.ChatResult) {
	if c.chat == nil {
		c.chat = map[metrics.ChatResult]int{}
	}
	c.chat[r]++
}

func TestHandleChat_Answers(t *testing.T) {
	completer := &stubCompleter{answer: chat.Answer{Text: "42"}}
	rec := &countingRecorder{}
	h := NewChatHandlers(completer, nil, rec)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"meaning of life?"}`))
	w := httptest.NewRecorder()
	h.HandleChat(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"answer":"42"}`, w.Body.String())
	require.Equal(t, "meaning of life?", completer.question)
	require.Equal(t, 1, rec.chat[metrics.ChatAnswered])
}

func TestHandleChat_ForwardsAuthorization(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	}))
	defer upstream.Close()

	h := NewChatHandlers(chat.NewClient(upstream.URL, "Bearer configured", time.Second), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"hi"}`))
	req.Header.Set("Authorization", "Bearer caller")
	w := httptest.NewRecorder()
	h.HandleChat(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Bearer caller", gotAuth)

	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"hi"}`))
	w = httptest.NewRecorder()
	h.HandleChat(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Bearer configured", gotAuth)
}

func TestHandleChat_Errors(t *testing.T) {
	rec := &countingRecorder{}

	h := NewChatHandlers(&stubCompleter{err: chat.ErrEmptyQuestion}, nil, rec)
	w := httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"  "}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	h = NewChatHandlers(&stubCompleter{err: ferrors.UpstreamError("model overloaded").Build()}, nil, rec)
	w = httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"hi"}`)))
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.NotContains(t, w.Body.String(), "overloaded")

	h = NewChatHandlers(&stubCompleter{err: errors.New("boom")}, nil, rec)
	w = httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"hi"}`)))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	h.HandleChat(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`[`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, 2, rec.chat[metrics.ChatRejected])
	require.Equal(t, 2, rec.chat[metrics.ChatFailed])
}

type fixedStatus struct{ result *build.Result }

func (f fixedStatus) LastBuild() *build.Result { return f.result }

func TestHandleHealthCheck(t *testing.T) {
	h := NewMonitoringHandlers(nil)
	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
	require.NotContains(t, body, "last_build")

	h = NewMonitoringHandlers(fixedStatus{result: &build.Result{Status: build.StatusFailed, Posts: 3}})
	w = httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/healthz?pretty=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\n  \"status\": \"degraded\"")

	body = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	last, ok := body["last_build"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "failed", last["status"])
	require.InDelta(t, 3, last["posts"], 0)
}
