package shellopts

import "time"

// GuardLogEvent describes one guard evaluation for logging.
type GuardLogEvent struct {
	Engine   string
	Expr     string
	Option   string
	Class    Class
	Allowed  bool
	Duration time.Duration
	Err      error
}

// GuardLogger records guard evaluations.
type GuardLogger interface {
	LogGuard(GuardLogEvent)
}

// GuardLoggerFunc adapts a function to GuardLogger.
type GuardLoggerFunc func(GuardLogEvent)

// LogGuard implements GuardLogger.
func (f GuardLoggerFunc) LogGuard(event GuardLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopGuardLogger struct{}

func (noopGuardLogger) LogGuard(GuardLogEvent) {}

// WithGuardLogger attaches a guard logger to the registry.
func WithGuardLogger(logger GuardLogger) Option {
	return func(cfg *registryConfig) {
		if logger == nil {
			cfg.logger = noopGuardLogger{}
			return
		}
		cfg.logger = logger
	}
}
