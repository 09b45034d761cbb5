package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Builder runs one build.
type Builder interface {
	Run(ctx context.Context, req build.Request) (*build.Result, error)
}

// Rebuilder serializes rebuilds of one site. Requests arriving while a build
// runs collapse into a single follow-up build.
type Rebuilder struct {
	builder  Builder
	req      build.Request
	debounce time.Duration

	requests chan struct{}
	done     chan struct{}

	timerMu sync.Mutex
	timer   *time.Timer

	mu   sync.RWMutex
	last *build.Result

	// onBuild is called after every build; tests use it to observe progress.
	onBuild func(*build.Result, error)
}

// RebuilderOption configures a Rebuilder.
type RebuilderOption func(*Rebuilder)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) RebuilderOption {
	return func(r *Rebuilder) { r.debounce = d }
}

// WithBuildHook registers fn to run after every build.
func WithBuildHook(fn func(*build.Result, error)) RebuilderOption {
	return func(r *Rebuilder) { r.onBuild = fn }
}

// NewRebuilder returns a Rebuilder that builds req with builder.
func NewRebuilder(builder Builder, req build.Request, opts ...RebuilderOption) *Rebuilder {
	r := &Rebuilder{
		builder:  builder,
		req:      req,
		debounce: DefaultDebounce,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BuildNow runs a build synchronously, used for the initial build.
func (r *Rebuilder) BuildNow(ctx context.Context) (*build.Result, error) {
	res, err := r.builder.Run(ctx, r.req)
	r.record(res, err)
	return res, err
}

// LastBuild returns the result of the most recent build.
func (r *Rebuilder) LastBuild() *build.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Request asks for a rebuild without debouncing.
func (r *Rebuilder) Request() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Trigger asks for a rebuild once no further Trigger calls arrive for the
// debounce period.
func (r *Rebuilder) Trigger() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.Request)
}

// Run processes rebuild requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			r.timerMu.Lock()
			if r.timer != nil {
				r.timer.Stop()
			}
			r.timerMu.Unlock()
			return
		case <-r.requests:
			slog.Info("Change detected; rebuilding site")
			res, err := r.builder.Run(ctx, r.req)
			r.record(res, err)
		}
	}
}

// Done is closed when Run returns.
func (r *Rebuilder) Done() <-chan struct{} { return r.done }

func (r *Rebuilder) record(res *build.Result, err error) {
	if err != nil {
		slog.Warn("Rebuild failed; previous output kept", logfields.Error(err))
	}
	if res != nil {
		r.mu.Lock()
		r.last = res
		r.mu.Unlock()
	}
	if r.onBuild != nil {
		r.onBuild(res, err)
	}
}
