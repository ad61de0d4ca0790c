package audit

import (
	"context"
	"time"
)

// contextExtractor extracts string values from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

// Logger records upload outcomes.
type Logger struct {
	storage            Writer
	requestIDExtractor contextExtractor
	ipExtractor        contextExtractor
	now                func() time.Time
}

// NewLogger creates a new audit logger
func NewLogger(storage Writer, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{
		storage: storage,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Record stores one event. Request id, IP and timestamp are filled from the
// context and clock when the caller left them empty.
//
// Callers treat the returned error as informational: audit is best-effort
// and must never change the response.
func (l *Logger) Record(ctx context.Context, event Event) error {
	l.fillFromContext(ctx, &event)
	if event.Time.IsZero() {
		event.Time = l.now()
	}
	event.Time = event.Time.UTC()

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Store(ctx, event)
}

func (l *Logger) fillFromContext(ctx context.Context, event *Event) {
	if event.RequestID == "" && l.requestIDExtractor != nil {
		if requestID, ok := l.requestIDExtractor(ctx); ok {
			event.RequestID = requestID
		}
	}

	if event.IP == "" && l.ipExtractor != nil {
		if ip, ok := l.ipExtractor(ctx); ok {
			event.IP = ip
		}
	}
}
