package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level and output format of the stdout logger.
type Config struct {
	// Level is one of debug, info, warn, error (slog level syntax, so
	// "warn+2" also works).
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is "json" or "text".
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// SlogLevel parses Level, falling back to info on bad input.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c Config) handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// New creates a JSON logger at info level writing to stdout.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithConfig(Config{}, os.Stdout, extractors...)
}

// NewWithConfig creates a logger writing to w with the configured level and
// format. Extractors run on every record.
func NewWithConfig(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(cfg.handler(w), extractors...))
}
