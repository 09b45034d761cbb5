package config

import "time"

// Config represents the folio configuration file.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Output    OutputConfig    `yaml:"output"`
	Build     BuildConfig     `yaml:"build"`
	Server    ServerConfig    `yaml:"server"`
	Subscribe SubscribeConfig `yaml:"subscribe"`
	Chat      ChatConfig      `yaml:"chat"`
	Notify    NotifyConfig    `yaml:"notify"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig holds the site-wide chrome and SEO settings.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	// BaseURL is the absolute deployment URL used for canonical links, the
	// sitemap and structured data.
	BaseURL   string     `yaml:"base_url"`
	Author    string     `yaml:"author"`
	Intro     string     `yaml:"intro,omitempty"`
	Twitter   string     `yaml:"twitter,omitempty"` // handle for twitter:site, with @
	Language  string     `yaml:"language,omitempty"`
	HomePosts int        `yaml:"home_posts,omitempty"` // 0 lists every post
	Theme     ColorMode  `yaml:"theme,omitempty"`
	Nav       []LinkItem `yaml:"nav,omitempty"`
	Social    []LinkItem `yaml:"social,omitempty"`
	// ShowSubscribe renders the newsletter form in the page footer.
	ShowSubscribe bool `yaml:"show_subscribe,omitempty"`
}

// LinkItem is a navigation or footer link.
type LinkItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// ContentConfig locates the content store.
type ContentConfig struct {
	Dir      string `yaml:"dir"`
	PostsDir string `yaml:"posts_dir,omitempty"`
	PagesDir string `yaml:"pages_dir,omitempty"`
	// StaticDir is copied verbatim to the output root (images, favicons).
	StaticDir  string            `yaml:"static_dir,omitempty"`
	Repository *RepositoryConfig `yaml:"repository,omitempty"`
}

// RepositoryConfig points at a git repository holding the content directory.
// When set, Dir is interpreted relative to the repository root.
type RepositoryConfig struct {
	URL      string `yaml:"url"`
	Branch   string `yaml:"branch,omitempty"`
	Depth    int    `yaml:"depth,omitempty"`
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
	// Workspace is the directory clones are placed in; a temporary directory
	// is used when empty.
	Workspace string `yaml:"workspace,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// BuildConfig controls how the site is generated.
type BuildConfig struct {
	Order           SortOrder     `yaml:"order,omitempty"`
	IncludeDrafts   bool          `yaml:"include_drafts,omitempty"`
	HighlightStyle  string        `yaml:"highlight_style,omitempty"`
	Concurrency     int           `yaml:"concurrency,omitempty"`
	RebuildInterval time.Duration `yaml:"rebuild_interval,omitempty"`
	FeedItems       int           `yaml:"feed_items,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Host            string        `yaml:"host,omitempty"`
	Port            int           `yaml:"port,omitempty"`
	MetricsPath     string        `yaml:"metrics_path,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// SubscribeConfig configures the newsletter subscription route.
type SubscribeConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint,omitempty"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	BotCheck BotCheck      `yaml:"bot_check,omitempty"`
}

// BotCheck configures the automated-submission verifier. The server side
// posts tokens to Endpoint; the subscribe form loads the widget from
// ScriptURL, renders it with SiteKey and forwards the value of its
// ResponseField input in TokenHeader.
type BotCheck struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint,omitempty"`
	Secret        string `yaml:"secret,omitempty"`
	TokenHeader   string `yaml:"token_header,omitempty"`
	SiteKey       string `yaml:"site_key,omitempty"`
	ScriptURL     string `yaml:"script_url,omitempty"`
	WidgetClass   string `yaml:"widget_class,omitempty"`
	ResponseField string `yaml:"response_field,omitempty"`
}

// ChatConfig configures the chat completion proxy.
type ChatConfig struct {
	Endpoint string        `yaml:"endpoint,omitempty"`
	Token    string        `yaml:"token,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// NotifyConfig configures subscriber event publishing.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}
