package handler

import "net/http"

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// HandlerFunc handles a request and returns what to render.
type HandlerFunc func(ctx Context) Response

// ErrorHandler handles errors returned while rendering.
type ErrorHandler func(ctx Context, err error)

type wrapConfig struct {
	errorHandler ErrorHandler
}

type WrapOption func(*wrapConfig)

func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Wrap converts h into an http.HandlerFunc.
//
//	r.Post("/upload", handler.Wrap(svc.upload,
//		handler.WithErrorHandler(handler.NewErrorHandler(log)),
//	))
func Wrap(h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{errorHandler: NewErrorHandler(nil)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r)
		resp := h(ctx)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
