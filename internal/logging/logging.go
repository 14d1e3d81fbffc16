package logging

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Setup installs a charmbracelet logger as the default slog handler.
func Setup(level slog.Level, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.Level(level),
	})
	log.SetDefault(logger)
	slog.SetDefault(slog.New(logger))
	return logger
}
