package internal

import "log/slog"

// Option configures the application assembled by Run.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
}

// WithConfig supplies the loaded configuration. Run refuses to start
// without one.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the JSON logger Run would otherwise build from the
// configured log level, for callers that embed the server and own their
// logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}
