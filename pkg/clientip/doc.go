// Package clientip resolves the address of the caller for logging and audit.
//
// Proxy headers (CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For and
// X-Real-IP) are spoofable and are only read when the service runs behind a
// proxy that rewrites them; otherwise RemoteAddr is used.
//
//	r.Use(clientip.New(cfg.TrustProxyHeaders))
//	ip := clientip.GetIPFromContext(r.Context())
package clientip
