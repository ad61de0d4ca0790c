package audit

import (
	"context"
	"time"
)

// Option configures Logger behavior during initialization
type Option func(*Logger)

// Context extractors enable automatic population of audit events from request context.
// If extraction fails, the corresponding event field will remain empty.

func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Logger) {
		l.requestIDExtractor = fn
	}
}

func WithIPExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Logger) {
		l.ipExtractor = fn
	}
}

// WithClock overrides the time source. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}
