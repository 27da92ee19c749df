package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyFile       = "file"
	KeyStage      = "stage"
	KeyStrategy   = "strategy"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyMarker     = "marker"
	KeyVersion    = "marker_version"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Strategy(s string) slog.Attr     { return slog.String(KeyStrategy, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Marker(name string) slog.Attr    { return slog.String(KeyMarker, name) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
