// Package log wraps [log/slog] with a small leveled API used throughout
// shapescript.
//
// A [Logger] is built once with functional options and is safe for
// concurrent use. Its zero value discards all records, which lets the
// interpreter carry a Logger in its options without requiring callers to
// configure one.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339"))
//
//	logger.Info("rendered", slog.String("file", "star.png"))
//
// Levels extend slog's four with [LevelTrace], which the interpreter uses
// for per-call and cache diagnostics. Every level has a context-free method
// and a Context variant; the former uses [DefaultContextProvider].
//
// Pretty output, enabled by default, colorizes keys and values with
// [github.com/fatih/color]. Color is suppressed automatically when the
// output is not a terminal or NO_COLOR is set.
//
// The package-level functions log through a shared default Logger that
// writes to standard error and may be replaced with [SetDefault] or
// adjusted with [Config].
package log
