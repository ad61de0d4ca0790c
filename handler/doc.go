// Package handler adapts functions returning a Response to net/http.
//
// A HandlerFunc receives a Context carrying the request, its context and the
// response writer, and returns a Response that renders itself. Rendering
// failures go to an ErrorHandler, by default NewErrorHandler, which logs the
// failure and writes a JSON ErrorBody.
//
//	r.Post("/upload", handler.Wrap(func(ctx handler.Context) handler.Response {
//		return handler.JSON(body, handler.WithJSONStatus(http.StatusOK))
//	}))
package handler
