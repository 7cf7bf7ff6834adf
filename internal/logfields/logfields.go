package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyMapping     = "mapping"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyFile        = "file"
	KeyPath        = "path"
	KeySection     = "section"
	KeyAdded       = "added"
	KeyRelinked    = "relinked"
	KeyRemoved     = "removed"
	KeyChanged     = "changed"
	KeyDurationMS  = "duration_ms"
	KeyMode        = "mode"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Mapping(name string) slog.Attr   { return slog.String(KeyMapping, name) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr  { return slog.String(KeyDestination, p) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Added(n int) slog.Attr           { return slog.Int(KeyAdded, n) }
func Relinked(n int) slog.Attr        { return slog.Int(KeyRelinked, n) }
func Removed(n int) slog.Attr         { return slog.Int(KeyRemoved, n) }
func Changed(b bool) slog.Attr        { return slog.Bool(KeyChanged, b) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
