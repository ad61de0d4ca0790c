package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/printdrop/pkg/logger"
	"github.com/dmitrymomot/printdrop/pkg/requestid"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	OK           bool   `json:"ok"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id,omitempty"`
}

func determineLogLevel(status int) slog.Level {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// LogLevel maps a response status to the level it is logged at: info below
// 400, warn for client errors, error otherwise.
func LogLevel(status int) slog.Level {
	if status < http.StatusBadRequest {
		return slog.LevelInfo
	}
	return determineLogLevel(status)
}

// NewErrorHandler logs the error and renders an ErrorBody. HTTPError values
// keep their status and key; anything else becomes a 500. A nil logger
// discards logs.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(ctx Context, err error) {
		httpErr := ErrInternalServerError
		errors.As(err, &httpErr)

		r := ctx.Request()
		id := requestid.FromContext(r.Context())
		log.LogAttrs(r.Context(), determineLogLevel(httpErr.Code), "request error",
			logger.Error(err),
			logger.Status(httpErr.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		// Headers may already be out when rendering failed midway.
		_ = JSON(ErrorBody{
			ErrorCode:    httpErr.Key,
			ErrorMessage: http.StatusText(httpErr.Code),
			RequestID:    id,
		}, WithJSONStatus(httpErr.Code)).Render(ctx.ResponseWriter(), r)
	}
}

// NotFound and MethodNotAllowed render router misses in the same JSON shape.
func NotFound(log *slog.Logger) http.HandlerFunc {
	h := NewErrorHandler(log)
	return func(w http.ResponseWriter, r *http.Request) { h(NewContext(w, r), ErrNotFound) }
}

func MethodNotAllowed(log *slog.Logger) http.HandlerFunc {
	h := NewErrorHandler(log)
	return func(w http.ResponseWriter, r *http.Request) { h(NewContext(w, r), ErrMethodNotAllowed) }
}
