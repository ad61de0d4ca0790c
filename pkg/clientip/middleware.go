package clientip

import "net/http"

// Middleware stores the client IP in the request context, trusting proxy
// headers.
func Middleware(next http.Handler) http.Handler {
	return New(true)(next)
}

// New returns middleware that resolves the client IP once per request.
func New(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetIPToContext(r.Context(), Resolve(r, trustProxy))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
