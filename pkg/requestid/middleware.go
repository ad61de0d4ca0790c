package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

var validIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type options struct {
	trustHeader bool
	generate    func() string
}

// Option configures the request id middleware.
type Option func(*options)

// WithTrustHeader reuses a well-formed incoming X-Request-ID instead of
// generating a new id. Enable only behind a proxy that sets the header.
func WithTrustHeader(trust bool) Option {
	return func(o *options) { o.trustHeader = trust }
}

// WithGenerator replaces the uuid generator.
func WithGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.generate = fn
		}
	}
}

// New returns middleware that assigns every request an id, stores it in the
// request context and echoes it in the response header.
func New(opts ...Option) func(http.Handler) http.Handler {
	o := options{generate: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if o.trustHeader {
				if h := r.Header.Get(Header); isValidRequestID(h) {
					id = h
				}
			}
			if id == "" {
				id = o.generate()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

// Middleware always generates a fresh id.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
