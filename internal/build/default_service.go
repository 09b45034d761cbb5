package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/folio/internal/config"
	"git.home.luguber.info/inful/folio/internal/content"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/git"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/markdown"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/site"
	"git.home.luguber.info/inful/folio/internal/workspace"
)

// Build stage names used for logging and metrics.
const (
	StageSync    = "sync"
	StageLoad    = "load"
	StageRender  = "render"
	StageAssets  = "assets"
	StagePublish = "publish"
)

// Service runs builds. Runs are serialized: a rebuild requested while one is
// in progress waits for it.
type Service struct {
	mu               sync.Mutex
	workspace        *workspace.Manager
	gitClientFactory func(dir string) *git.Client
	recorder         metrics.Recorder
	now              func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the clock used for timestamps and the copyright year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGitClientFactory allows injecting a custom git client factory (for testing).
func WithGitClientFactory(factory func(dir string) *git.Client) Option {
	return func(s *Service) { s.gitClientFactory = factory }
}

// NewService creates a Service with a noop recorder.
func NewService(opts ...Option) *Service {
	s := &Service{
		gitClientFactory: git.NewClient,
		recorder:         metrics.NoopRecorder{},
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close removes an ephemeral clone workspace.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace == nil {
		return nil
	}
	return s.workspace.Cleanup()
}

// Run executes the complete build pipeline: sync → load → render → assets →
// publish. On any error the previous output is left untouched.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &Result{StartTime: s.now()}
	if req.Config == nil {
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return result.finish(StatusFailed, s.now()), ferrors.ConfigError("config required").Build()
	}

	out := req.OutputDir
	if out == "" {
		out = req.Config.Output.Directory
	}
	result.OutputPath = resolve(req.BaseDir, out)

	err := s.run(ctx, req, result)
	switch {
	case err == nil:
		result.finish(StatusSuccess, s.now())
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		s.recorder.ObserveBuildDuration(result.Duration)
		s.recorder.SetPosts(result.Posts)
		slog.Info("Build complete",
			logfields.Path(result.OutputPath),
			logfields.Count(result.Posts),
			slog.Int("pages", result.Pages),
			slog.Int("files", result.Files),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
		return result, nil
	case ctx.Err() != nil:
		result.finish(StatusCancelled, s.now())
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
		return result, ctx.Err()
	default:
		result.finish(StatusFailed, s.now())
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		return result, err
	}
}

func (s *Service) run(ctx context.Context, req Request, result *Result) error {
	cfg := req.Config

	root, err := s.contentRoot(ctx, req, result)
	if err != nil {
		return err
	}

	var index *content.Index
	err = s.stage(StageLoad, func() error {
		var err error
		index, err = content.Load(ctx, os.DirFS(root), loadOptions(cfg, cfg.Build.IncludeDrafts))
		return err
	})
	if err != nil {
		return err
	}
	result.Posts = index.Len()
	result.Pages = index.PageCount()
	result.DraftsSkipped = index.DraftsSkipped()

	highlighter := markdown.NewChromaHighlighter(cfg.Build.HighlightStyle)
	assembler, err := site.NewAssembler(cfg.Site, index, markdown.NewRenderer(highlighter),
		site.WithClock(s.now),
		site.WithSubscribeForm(cfg.Site.ShowSubscribe && cfg.Subscribe.Enabled),
		site.WithBotCheck(cfg.Subscribe.BotCheck))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to prepare templates").Build()
	}

	staging, err := workspace.NewStaging(result.OutputPath)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create staging directory").
			WithContext("path", result.OutputPath).Build()
	}
	defer staging.Abort()

	w := &siteWriter{root: staging.Path()}
	err = s.stage(StageRender, func() error {
		return renderPages(ctx, w, assembler, index, cfg.Build.Concurrency)
	})
	if err != nil {
		return err
	}

	err = s.stage(StageAssets, func() error {
		if err := writeAssets(w, assembler, highlighter, cfg.Build.FeedItems); err != nil {
			return err
		}
		if err := copyStatic(w, filepath.Join(root, cfg.Content.StaticDir)); err != nil {
			return err
		}
		result.BrokenLinks = checkLinks(w.root, index)
		return writeManifest(w, newManifest(index, result.Commit, s.now()))
	})
	if err != nil {
		return err
	}
	result.Files = w.count()

	return s.stage(StagePublish, func() error {
		if !cfg.Output.Clean {
			if err := carryOver(result.OutputPath, w.root); err != nil {
				return err
			}
		}
		if err := staging.Commit(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to publish output").
				WithContext("path", result.OutputPath).Build()
		}
		return nil
	})
}

// Index syncs and loads the content of req without rendering anything.
func (s *Service) Index(ctx context.Context, req Request, includeDrafts bool) (*content.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Config == nil {
		return nil, ferrors.ConfigError("config required").Build()
	}
	root, err := s.contentRoot(ctx, req, &Result{})
	if err != nil {
		return nil, err
	}
	return content.Load(ctx, os.DirFS(root), loadOptions(req.Config, includeDrafts))
}

// contentRoot returns the content directory of req, syncing the content
// repository first when one is configured.
func (s *Service) contentRoot(ctx context.Context, req Request, result *Result) (string, error) {
	cfg := req.Config
	repo := cfg.Content.Repository
	if repo == nil {
		return resolve(req.BaseDir, cfg.Content.Dir), nil
	}
	var root string
	err := s.stage(StageSync, func() error {
		checkout, err := s.sync(ctx, req.BaseDir, *repo)
		if err != nil {
			return err
		}
		result.Commit = checkout.Commit
		root = filepath.Join(checkout.Path, cfg.Content.Dir)
		return nil
	})
	return root, err
}

func loadOptions(cfg *config.Config, includeDrafts bool) content.LoadOptions {
	return content.LoadOptions{
		PostsDir:      cfg.Content.PostsDir,
		PagesDir:      cfg.Content.PagesDir,
		Order:         content.Order(cfg.Build.Order),
		IncludeDrafts: includeDrafts,
	}
}

// sync clones or updates the content repository into the service workspace,
// which is kept across runs so rebuilds only fetch.
func (s *Service) sync(ctx context.Context, baseDir string, repo config.RepositoryConfig) (*git.Checkout, error) {
	if s.workspace == nil {
		if repo.Workspace != "" {
			s.workspace = workspace.NewPersistentManager(resolve(baseDir, repo.Workspace))
		} else {
			s.workspace = workspace.NewManager("")
		}
	}
	if err := s.workspace.Create(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create workspace").Build()
	}
	return s.gitClientFactory(s.workspace.Path()).Sync(ctx, repo)
}

func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	slog.Debug("Build stage started", logfields.Stage(name))
	err := fn()
	s.recorder.ObserveStageDuration(name, time.Since(start))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("Build stage failed", logfields.Stage(name), logfields.Error(err))
		}
		return err
	}
	slog.Debug("Build stage complete", logfields.Stage(name), logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func wrapRender(err error, route string) error {
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	return ferrors.WrapError(err, ferrors.CategoryBuild, fmt.Sprintf("failed to render %s", route)).
		WithContext("route", route).Build()
}
