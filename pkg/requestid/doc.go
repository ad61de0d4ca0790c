// Package requestid assigns a correlation id to every HTTP request.
//
// The middleware stores the id in the request context, so the logger, the
// audit trail and the JSON response all report the same value, and echoes it
// in the X-Request-ID response header. Ids are random UUIDs unless
// WithTrustHeader is set, in which case a well-formed incoming header
// (at most 128 characters of letters, digits, '-' and '_') is reused.
//
//	r := chi.NewRouter()
//	r.Use(requestid.New(requestid.WithTrustHeader(cfg.TrustProxyHeaders)))
package requestid
