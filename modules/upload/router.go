package upload

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/printdrop/handler"
	"github.com/dmitrymomot/printdrop/pkg/clientip"
	"github.com/dmitrymomot/printdrop/pkg/httpserver"
	"github.com/dmitrymomot/printdrop/pkg/requestid"
)

const readinessTimeout = 5 * time.Second

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures the public router. Only Ingest is required.
type RouterOptions struct {
	Ingest     Mountable
	IngestPath string

	// Files serves stored uploads under FilesPrefix when set.
	Files       http.Handler
	FilesPrefix string

	Ready []httpserver.Check

	RequestTimeout    time.Duration
	TrustProxyHeaders bool
	Logger            *slog.Logger
}

// Router builds the HTTP surface of the service.
//
//	r := upload.Router(upload.RouterOptions{
//		Ingest:         ingest.NewHandler(svc, log),
//		IngestPath:     ingest.Path,
//		Ready:          []httpserver.Check{projects.Check, storage.Ping},
//		RequestTimeout: cfg.HTTP.RequestTimeout,
//	})
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.New(requestid.WithTrustHeader(opts.TrustProxyHeaders)))
	r.Use(clientip.New(opts.TrustProxyHeaders))
	r.NotFound(handler.NotFound(log))
	r.MethodNotAllowed(handler.MethodNotAllowed(log))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, readinessTimeout, opts.Ready...))

	if opts.Ingest != nil {
		path := opts.IngestPath
		if path == "" {
			path = "/upload"
		}
		r.Group(func(r chi.Router) {
			if opts.RequestTimeout > 0 {
				r.Use(middleware.Timeout(opts.RequestTimeout))
			}
			r.Mount(path, opts.Ingest.Handle())
		})
	}

	if opts.Files != nil {
		prefix := "/" + strings.Trim(opts.FilesPrefix, "/")
		if prefix == "/" {
			prefix = "/files"
		}
		r.Mount(prefix, http.StripPrefix(prefix, opts.Files))
	}

	return r
}

// Files serves regular files below root. Directory listings are refused.
func Files(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}
