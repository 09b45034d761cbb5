package config

import (
	"log/slog"

	"git.home.luguber.info/inful/folio/internal/foundation/normalization"
)

// SortOrder selects the recency comparator of the post index.
type SortOrder string

const (
	OrderDate     SortOrder = "date"     // descending publish date
	OrderSequence SortOrder = "sequence" // descending postNum
)

var sortOrderNormalizer = normalization.NewNormalizer(map[string]SortOrder{
	"date":     OrderDate,
	"sequence": OrderSequence,
	"postnum":  OrderSequence,
}, OrderDate)

func NormalizeSortOrder(raw string) SortOrder { return sortOrderNormalizer.Normalize(raw) }

// ColorMode is the default color scheme of rendered pages.
type ColorMode string

const (
	ColorModeLight  ColorMode = "light"
	ColorModeDark   ColorMode = "dark"
	ColorModeSystem ColorMode = "system"
)

var colorModeNormalizer = normalization.NewNormalizer(map[string]ColorMode{
	"light":  ColorModeLight,
	"dark":   ColorModeDark,
	"system": ColorModeSystem,
}, ColorModeSystem)

func NormalizeColorMode(raw string) ColorMode { return colorModeNormalizer.Normalize(raw) }

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel { return logLevelNormalizer.Normalize(raw) }

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat { return logFormatNormalizer.Normalize(raw) }
