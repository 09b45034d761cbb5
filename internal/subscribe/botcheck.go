package subscribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// BotChecker classifies a request as human or automated.
type BotChecker interface {
	// Human reports whether the request carrying token from remoteIP was
	// made by a person. Any error counts as automated.
	Human(ctx context.Context, token, remoteIP string) (bool, error)
}

// NoopBotChecker treats every request as human.
type NoopBotChecker struct{}

func (NoopBotChecker) Human(context.Context, string, string) (bool, error) { return true, nil }

// HTTPBotChecker verifies tokens against a siteverify-style endpoint: a form
// POST of secret, response and remoteip answered with {"success": bool}.
type HTTPBotChecker struct {
	endpoint string
	secret   string
	client   *http.Client
}

// NewHTTPBotChecker returns a checker for endpoint.
func NewHTTPBotChecker(endpoint, secret string, timeout time.Duration) *HTTPBotChecker {
	return &HTTPBotChecker{endpoint: endpoint, secret: secret, client: &http.Client{Timeout: timeout}}
}

type verifyResponse struct {
	Success *bool `json:"success"`
}

func (c *HTTPBotChecker) Human(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, nil
	}
	form := url.Values{"secret": {c.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryNetwork, "bot check unreachable").Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, ferrors.UpstreamError("bot check failed").WithContext("status", resp.StatusCode).Build()
	}
	var body verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryUpstream, "bot check answered with invalid JSON").Build()
	}
	if body.Success == nil {
		return false, ferrors.UpstreamError(fmt.Sprintf("bot check answer has no %q field", "success")).Build()
	}
	return *body.Success, nil
}
