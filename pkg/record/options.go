package record

import "log/slog"

// Option configures a Mapper.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	liveColumns bool
}

// WithLiveColumns makes every Save re-read the table's live column set and
// intersect it with the manifest. With an empty manifest the live set is
// used as is. This costs one metadata query per save.
func WithLiveColumns() Option {
	return func(c *config) {
		c.liveColumns = true
	}
}

// WithLogger sets the logger used to trace generated SQL at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
