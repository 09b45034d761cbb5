// Package chat talks to a remote question-answering endpoint and keeps the
// transcript of one conversation.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// ErrEmptyQuestion is returned for blank questions.
var ErrEmptyQuestion = ferrors.ValidationError("question must not be empty").Build()

// Answer is the remote endpoint's reply.
type Answer struct {
	Text string `json:"answer"`
}

// Client posts questions to a chat completion endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient returns a Client for endpoint. token, when set, is sent as the
// Authorization header of calls that carry no token of their own.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	return &Client{endpoint: endpoint, token: token, http: &http.Client{Timeout: timeout}}
}

type tokenKey struct{}

// WithToken returns a context whose calls authenticate with token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

type completionRequest struct {
	Question string `json:"question"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Complete asks question and returns the answer. A non-2xx reply becomes an
// upstream error carrying the remote message field when present.
func (c *Client) Complete(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	payload, err := json.Marshal(completionRequest{Question: question})
	if err != nil {
		return Answer{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokenFor(ctx); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Answer{}, ferrors.WrapError(err, ferrors.CategoryNetwork, "chat endpoint unreachable").Build()
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Answer{}, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to read chat answer").Build()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		msg := eb.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Answer{}, ferrors.UpstreamError(msg).WithContext("status", resp.StatusCode).Build()
	}

	var answer Answer
	if err := json.Unmarshal(body, &answer); err != nil {
		return Answer{}, ferrors.WrapError(err, ferrors.CategoryUpstream, "chat endpoint answered with invalid JSON").Build()
	}
	return answer, nil
}

func (c *Client) tokenFor(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey{}).(string); ok && t != "" {
		return t
	}
	return c.token
}
