package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/folio/internal/build"
	"git.home.luguber.info/inful/folio/internal/chat"
	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/notify"
	"git.home.luguber.info/inful/folio/internal/preview"
	"git.home.luguber.info/inful/folio/internal/server/handlers"
	"git.home.luguber.info/inful/folio/internal/server/httpserver"
	"git.home.luguber.info/inful/folio/internal/subscribe"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host   string `help:"Listen host (overrides server.host)"`
	Port   int    `short:"p" help:"Listen port (overrides server.port)"`
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
	Watch  bool   `help:"Rebuild when content changes" default:"true" negatable:""`
	Drafts bool   `help:"Include draft posts"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	s.applyOverrides(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	svc := build.NewService(build.WithRecorder(recorder))
	defer func() { _ = svc.Close() }()

	req := build.Request{Config: cfg, OutputDir: s.Output, BaseDir: root.baseDir()}
	rebuilder := preview.NewRebuilder(svc, req)
	res, err := rebuilder.BuildNow(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Error("Initial build failed; serving previous output", logfields.Error(err))
	}

	opts := httpserver.Options{
		SiteDir:  res.OutputPath,
		Status:   rebuilder,
		Registry: reg,
		Recorder: recorder,
	}
	adapter := ferrors.NewHTTPErrorAdapter(g.Logger)

	if cfg.Subscribe.Enabled {
		subscribeSvc, closeNotifier := newSubscribeService(ctx, cfg, recorder)
		defer func() {
			subscribeSvc.Wait()
			closeNotifier()
		}()
		opts.Subscribe = handlers.NewSubscribeHandlers(subscribeSvc, cfg.Subscribe.BotCheck.TokenHeader)
	}
	if cfg.Chat.Endpoint != "" {
		client := chat.NewClient(cfg.Chat.Endpoint, cfg.Chat.Token, cfg.Chat.Timeout)
		opts.Chat = handlers.NewChatHandlers(client, adapter, recorder)
	}

	srv := httpserver.New(cfg.Server, opts)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Serving %s on http://%s\n", res.OutputPath, srv.Addr())

	go rebuilder.Run(ctx)
	if s.Watch {
		if err := startWatcher(ctx, cfg, req, rebuilder); err != nil {
			slog.Warn("File watching disabled", logfields.Error(err))
		}
	}
	if cfg.Build.RebuildInterval > 0 {
		sched, err := preview.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.Every("rebuild", cfg.Build.RebuildInterval, rebuilder.Request); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	select {
	case <-rebuilder.Done():
	case <-shutdownCtx.Done():
		slog.Warn("Rebuild still running at shutdown")
	}
	return nil
}

func (s *ServeCmd) applyOverrides(cfg *config.Config) {
	if s.Host != "" {
		cfg.Server.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.Drafts {
		cfg.Build.IncludeDrafts = true
	}
}

// newSubscribeService wires the provider, the optional bot check and the
// optional NATS notifier. The returned func releases the notifier.
func newSubscribeService(ctx context.Context, cfg *config.Config, recorder metrics.Recorder) (*subscribe.Service, func()) {
	sc := cfg.Subscribe
	provider := subscribe.NewButtondown(sc.Endpoint, sc.APIKey, sc.Timeout)
	opts := []subscribe.Option{subscribe.WithRecorder(recorder)}
	if sc.BotCheck.Enabled {
		opts = append(opts, subscribe.WithBotChecker(subscribe.NewHTTPBotChecker(sc.BotCheck.Endpoint, sc.BotCheck.Secret, sc.Timeout)))
	}

	release := func() {}
	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(ctx, cfg.Notify)
		if err != nil {
			slog.Warn("Subscriber notifications disabled", logfields.Error(err))
		} else {
			opts = append(opts, subscribe.WithNotifier(n))
			release = func() { _ = n.Close() }
		}
	}
	return subscribe.NewService(provider, opts...), release
}

// startWatcher watches local content. Repository-backed content is refreshed
// by the rebuild interval instead.
func startWatcher(ctx context.Context, cfg *config.Config, req build.Request, rebuilder *preview.Rebuilder) error {
	if cfg.Content.Repository != nil {
		slog.Info("Content comes from a repository; set build.rebuild_interval to pick up changes")
		return nil
	}
	root := cfg.Content.Dir
	if !filepath.IsAbs(root) {
		root = filepath.Join(req.BaseDir, root)
	}
	w, err := preview.NewWatcher(rebuilder.Trigger, root)
	if err != nil {
		return err
	}
	go w.Run(ctx)
	slog.Info("Watching content for changes", logfields.Path(root))
	return nil
}
