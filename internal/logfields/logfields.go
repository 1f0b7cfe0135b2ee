package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID         = "run_id"
	KeyDocument      = "document"
	KeyExtension     = "extension"
	KeyPlugin        = "plugin"
	KeyPluginVersion = "plugin_version"
	KeyPriority      = "priority"
	KeyStage         = "stage"
	KeyDurationMS    = "duration_ms"
	KeyWorkers       = "workers"
	KeyCount         = "count"
	KeyPath          = "path"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Document(path string) slog.Attr     { return slog.String(KeyDocument, path) }
func Extension(ext string) slog.Attr     { return slog.String(KeyExtension, ext) }
func Plugin(name string) slog.Attr       { return slog.String(KeyPlugin, name) }
func PluginVersion(v string) slog.Attr   { return slog.String(KeyPluginVersion, v) }
func Priority(p int) slog.Attr           { return slog.Int(KeyPriority, p) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Workers(n int) slog.Attr            { return slog.Int(KeyWorkers, n) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
