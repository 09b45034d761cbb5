package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "folio.yaml"

// Load reads, expands, defaults and validates the configuration at path.
// .env files next to the configuration are loaded first so that ${VAR}
// references can use them.
func Load(path string) (*Config, error) {
	loaded, err := loadEnvFiles(filepath.Dir(path))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load environment file").Build()
	}
	for _, f := range loaded {
		slog.Debug("Loaded environment variables", slog.String("file", f))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().WithContext("path", path).Build()
	}
	return cfg, nil
}

// Parse decodes configuration bytes, expanding ${VAR} references against the
// process environment, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").WithContext("path", path).Build()
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		Site: SiteConfig{
			Title:       "My Blog",
			Description: "Notes on software and other things.",
			BaseURL:     "https://example.com",
			Author:      "Your Name",
			Intro:       "Hi, I write about the things I build.",
			Twitter:     "@example",
			Theme:       ColorModeSystem,
			Nav: []LinkItem{
				{Name: "home", URL: "/"},
				{Name: "writing", URL: "/blog"},
			},
			Social: []LinkItem{
				{Name: "x", URL: "https://x.com/example"},
				{Name: "github", URL: "https://github.com/example"},
				{Name: "rss", URL: "/rss"},
			},
			ShowSubscribe: true,
		},
		Content: ContentConfig{Dir: "content", PostsDir: "posts", PagesDir: "pages"},
		Output:  OutputConfig{Directory: "./public", Clean: true},
		Build:   BuildConfig{Order: OrderDate, HighlightStyle: "github"},
		Server:  ServerConfig{Port: 8080},
		Subscribe: SubscribeConfig{
			Enabled:  true,
			Endpoint: DefaultSubscribeEndpoint,
			APIKey:   "${BUTTONDOWN_API_KEY}",
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}
