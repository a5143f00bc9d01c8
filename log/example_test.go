package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/shapescript/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelInfo))

	logger.Debug("hidden")
	logger.Info("rendered", slog.String("file", "star.png"))
	// Output:
	// level=INFO msg=rendered file=star.png
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatJSON)).
		With(slog.String("script", "panel.shape"))

	logger.Warn("iteration limit near", slog.Int("iterations", 990000))
	// Output:
	// {"level":"WARN","msg":"iteration limit near","script":"panel.shape","iterations":990000}
}
