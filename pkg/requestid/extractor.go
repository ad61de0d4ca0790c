package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor adds the request id to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}

// Extractor adapts FromContext to the (value, ok) shape used by audit.
func Extractor(ctx context.Context) (string, bool) {
	id := FromContext(ctx)
	return id, id != ""
}
