// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown.
//
// Run blocks until its context is canceled or SIGINT/SIGTERM arrives, then
// calls http.Server.Shutdown with the configured deadline so in-flight
// uploads can finish. Stop hooks run after shutdown; the upload service uses
// one to flush the audit writer.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(*slog.Logger) { _ = closeAudit(ctx) }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler back the /health/live and
// /health/ready probes.
package httpserver
