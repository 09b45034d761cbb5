package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Question == "fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"answer": "you asked: " + req.Question + " as " + r.Header.Get("Authorization"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Complete(t *testing.T) {
	srv := echoServer(t)
	c := NewClient(srv.URL, "Bearer cfg", time.Second)

	answer, err := c.Complete(context.Background(), " hi ")
	require.NoError(t, err)
	require.Equal(t, "you asked: hi as Bearer cfg", answer.Text)

	answer, err = c.Complete(WithToken(context.Background(), "Bearer caller"), "hi")
	require.NoError(t, err)
	require.Equal(t, "you asked: hi as Bearer caller", answer.Text)
}

func TestClient_Errors(t *testing.T) {
	srv := echoServer(t)
	c := NewClient(srv.URL, "", time.Second)

	_, err := c.Complete(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = c.Complete(context.Background(), "fail")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryUpstream))
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "quota exceeded", ce.Message())

	srv.Close()
	_, err = c.Complete(context.Background(), "hi")
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}

type blockingCompleter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCompleter) Complete(_ context.Context, q string) (Answer, error) {
	close(b.started)
	<-b.release
	return Answer{Text: "re: " + q}, nil
}

func TestConversation_SingleOutstandingQuestion(t *testing.T) {
	conv := NewConversation()
	bc := &blockingCompleter{started: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := conv.Ask(context.Background(), bc, "first")
		done <- err
	}()
	<-bc.started
	require.True(t, conv.Typing())

	_, err := conv.Ask(context.Background(), bc, "second")
	require.ErrorIs(t, err, ErrBusy)

	close(bc.release)
	require.NoError(t, <-done)
	require.False(t, conv.Typing())

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, RoleUser, msgs[0].Role)
	require.Equal(t, "first", msgs[0].Text)
	require.Equal(t, RoleAssistant, msgs[1].Role)
	require.Equal(t, "re: first", msgs[1].Text)
}

func TestConversation_FailureKeepsQuestion(t *testing.T) {
	srv := echoServer(t)
	conv := NewConversation()
	_, err := conv.Ask(context.Background(), NewClient(srv.URL, "", time.Second), "fail")
	require.Error(t, err)
	require.False(t, conv.Typing())
	require.Len(t, conv.Messages(), 1)
}
