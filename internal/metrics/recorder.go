package metrics

import "time"

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// SubscribeOutcome is the terminal state of one subscription attempt.
type SubscribeOutcome string

const (
	SubscribeSuccess       SubscribeOutcome = "success"
	SubscribeInvalid       SubscribeOutcome = "invalid"
	SubscribeBot           SubscribeOutcome = "bot"
	SubscribeProviderError SubscribeOutcome = "provider_error"
)

// ChatResult is the result label of a proxied chat request.
type ChatResult string

const (
	ChatAnswered ChatResult = "answered"
	ChatRejected ChatResult = "rejected"
	ChatFailed   ChatResult = "failed"
)

// Recorder defines the observability hooks of the site. Implementations must
// be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetPosts(n int)
	IncSubscribeOutcome(outcome SubscribeOutcome)
	IncChatRequest(result ChatResult)
	IncHTTPRequest(code int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetPosts(int)                               {}
func (NoopRecorder) IncSubscribeOutcome(SubscribeOutcome)       {}
func (NoopRecorder) IncChatRequest(ChatResult)                  {}
func (NoopRecorder) IncHTTPRequest(int)                         {}
