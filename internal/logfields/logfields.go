package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoute      = "route"
	KeyStage      = "stage"
	KeyCommit     = "commit"
	KeyRepo       = "repository"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyResponseSz = "response_size"
	KeyURL        = "url"
	KeyOutcome    = "outcome"
	KeyProvider   = "provider"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func ResponseSize(n int) slog.Attr    { return slog.Int(KeyResponseSz, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Provider(p string) slog.Attr     { return slog.String(KeyProvider, p) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
