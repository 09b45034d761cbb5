package subscribe

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
)

// InvalidEmailMessage is shown to callers whose address failed validation.
const InvalidEmailMessage = "Please enter a valid email address"

var (
	// ErrInvalidEmail is returned for missing or malformed addresses.
	ErrInvalidEmail = ferrors.ValidationError(InvalidEmailMessage).Build()
	// ErrBot is returned when the bot check did not confirm a person.
	ErrBot = ferrors.UpstreamError("bot check rejected request").Build()
)

// Request is one subscription attempt.
type Request struct {
	Email    string
	BotToken string
	RemoteIP string
}

// Event describes a new subscriber for notification. Only the address'
// domain leaves the service.
type Event struct {
	Domain   string    `json:"domain"`
	Provider string    `json:"provider"`
	At       time.Time `json:"at"`
}

// Notifier is told about successful subscriptions.
type Notifier interface {
	SubscriberCreated(ctx context.Context, e Event) error
}

// NotifyTimeout bounds a single notification. Notifications run after the
// response is decided and never delay it.
const NotifyTimeout = 2 * time.Second

// Service runs subscription attempts.
type Service struct {
	provider Provider
	bots     BotChecker
	notifier Notifier
	recorder metrics.Recorder
	now      func() time.Time
	pending  sync.WaitGroup
}

// Option customizes a Service.
type Option func(*Service)

// WithBotChecker installs a bot check; the default accepts everyone.
func WithBotChecker(b BotChecker) Option { return func(s *Service) { s.bots = b } }

// WithNotifier installs a notifier for successful subscriptions.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(s *Service) { s.recorder = r } }

// NewService returns a Service subscribing through provider.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		bots:     NoopBotChecker{},
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe validates the address, runs the bot check and calls the provider
// once. It returns the terminal outcome together with ErrInvalidEmail, ErrBot
// or the provider's error.
func (s *Service) Subscribe(ctx context.Context, req Request) (metrics.SubscribeOutcome, error) {
	outcome, err := s.subscribe(ctx, req)
	s.recorder.IncSubscribeOutcome(outcome)
	return outcome, err
}

func (s *Service) subscribe(ctx context.Context, req Request) (metrics.SubscribeOutcome, error) {
	email := NormalizeEmail(req.Email)
	if !ValidEmail(email) {
		return metrics.SubscribeInvalid, ErrInvalidEmail
	}

	human, err := s.bots.Human(ctx, req.BotToken, req.RemoteIP)
	if err != nil {
		slog.ErrorContext(ctx, "Bot check failed", logfields.Error(err))
		return metrics.SubscribeBot, ErrBot.Wrap(err)
	}
	if !human {
		slog.WarnContext(ctx, "Subscription rejected by bot check", logfields.RemoteAddr(req.RemoteIP))
		return metrics.SubscribeBot, ErrBot
	}

	if err := s.provider.Subscribe(ctx, email); err != nil {
		attrs := []any{logfields.Provider(s.provider.Name()), logfields.Error(err)}
		if c, ok := ferrors.AsClassified(err); ok && len(c.Context()) > 0 {
			attrs = append(attrs, slog.Any("details", map[string]any(c.Context())))
		}
		slog.ErrorContext(ctx, "Email provider failed", attrs...)
		return metrics.SubscribeProviderError, err
	}

	if s.notifier != nil {
		s.notify(ctx, Event{Domain: domainOf(email), Provider: s.provider.Name(), At: s.now().UTC()})
	}
	return metrics.SubscribeSuccess, nil
}

func (s *Service) notify(ctx context.Context, e Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.notifier.SubscriberCreated(ctx, e); err != nil {
			slog.WarnContext(ctx, "Subscriber notification failed", logfields.Error(err))
		}
	}()
}

// Wait blocks until notifications already started have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func domainOf(email string) string {
	return email[strings.LastIndex(email, "@")+1:]
}
