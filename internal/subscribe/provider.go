package subscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// Provider hands a subscriber to the email service.
type Provider interface {
	Name() string
	Subscribe(ctx context.Context, email string) error
}

// errorBodyLimit bounds how much of a failed provider response is kept for
// the server log.
const errorBodyLimit = 2048

// Buttondown is a Provider for the Buttondown subscribers API and compatible
// endpoints.
type Buttondown struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewButtondown returns a provider posting to endpoint with apiKey.
func NewButtondown(endpoint, apiKey string, timeout time.Duration) *Buttondown {
	return &Buttondown{endpoint: endpoint, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

func (b *Buttondown) Name() string { return "buttondown" }

type subscriberRequest struct {
	EmailAddress string `json:"email_address"`
}

// Subscribe posts {"email_address": email}. A missing API key, a transport
// failure and any non-2xx answer are errors.
func (b *Buttondown) Subscribe(ctx context.Context, email string) error {
	if b.apiKey == "" {
		return ferrors.ConfigError("subscribe API key is not set").Build()
	}
	payload, err := json.Marshal(subscriberRequest{EmailAddress: email})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "email provider unreachable").Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return ferrors.UpstreamError("email provider rejected subscriber").
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body)).
			Build()
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
