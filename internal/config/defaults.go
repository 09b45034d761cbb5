package config

import (
	"strings"
	"time"
)

const (
	DefaultSubscribeEndpoint = "https://api.buttondown.com/v1/subscribers"
	DefaultBotTokenHeader    = "X-Bot-Token"
	DefaultBotScriptURL      = "https://challenges.cloudflare.com/turnstile/v0/api.js"
	DefaultBotWidgetClass    = "cf-turnstile"
	DefaultBotResponseField  = "cf-turnstile-response"
	DefaultNotifySubject     = "folio.subscribers"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

// defaultAppliers run in order; later domains may rely on earlier ones.
var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	outputDefaults{},
	buildDefaults{},
	serverDefaults{},
	subscribeDefaults{},
	chatDefaults{},
	notifyDefaults{},
	loggingDefaults{},
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	s := &cfg.Site
	if s.Title == "" {
		s.Title = "Blog"
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Language == "" {
		s.Language = "en"
	}
	if s.HomePosts < 0 {
		s.HomePosts = 0
	}
	s.Theme = NormalizeColorMode(string(s.Theme))
	if len(s.Nav) == 0 {
		s.Nav = []LinkItem{{Name: "home", URL: "/"}, {Name: "writing", URL: "/blog"}}
	}
	if len(s.Social) == 0 {
		s.Social = []LinkItem{{Name: "rss", URL: "/rss"}}
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) {
	c := &cfg.Content
	if c.Dir == "" {
		c.Dir = "content"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.PagesDir == "" {
		c.PagesDir = "pages"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if r := c.Repository; r != nil {
		if r.Branch == "" {
			r.Branch = "main"
		}
		// Only the current tree is needed.
		if r.Depth <= 0 {
			r.Depth = 1
		}
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./public"
	}
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) {
	b := &cfg.Build
	b.Order = NormalizeSortOrder(string(b.Order))
	if b.HighlightStyle == "" {
		b.HighlightStyle = "github"
	}
	if b.Concurrency <= 0 {
		b.Concurrency = 4
	}
	if b.RebuildInterval < 0 {
		b.RebuildInterval = 0
	}
	if b.FeedItems <= 0 {
		b.FeedItems = 100
	}
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.MetricsPath == "" {
		s.MetricsPath = "/metrics"
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}
}

type subscribeDefaults struct{}

func (subscribeDefaults) Domain() string { return "subscribe" }

func (subscribeDefaults) ApplyDefaults(cfg *Config) {
	s := &cfg.Subscribe
	if s.Endpoint == "" {
		s.Endpoint = DefaultSubscribeEndpoint
	}
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
	if s.BotCheck.TokenHeader == "" {
		s.BotCheck.TokenHeader = DefaultBotTokenHeader
	}
	if s.BotCheck.ScriptURL == "" {
		s.BotCheck.ScriptURL = DefaultBotScriptURL
	}
	if s.BotCheck.WidgetClass == "" {
		s.BotCheck.WidgetClass = DefaultBotWidgetClass
	}
	if s.BotCheck.ResponseField == "" {
		s.BotCheck.ResponseField = DefaultBotResponseField
	}
}

type chatDefaults struct{}

func (chatDefaults) Domain() string { return "chat" }

func (chatDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Chat.Timeout <= 0 {
		cfg.Chat.Timeout = 30 * time.Second
	}
}

type notifyDefaults struct{}

func (notifyDefaults) Domain() string { return "notify" }

func (notifyDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
