// Package logger builds slog loggers for the upload service.
//
// New returns a *slog.Logger configured by functional options. The handler is
// wrapped with LogHandlerDecorator so that request-scoped values, such as the
// request id, are attached to every record logged with a context.
//
//	log := logger.New(
//		logger.FromConfig(cfg),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "upload stored",
//		logger.Status(201),
//		logger.ErrorCode("ok"),
//		logger.StoredFile("Order7/Order7_s01of05.png"),
//	)
//
// Development uses text output at debug level. Staging and production write
// JSON at info level. LOG_LEVEL and LOG_FORMAT override either default.
//
// Attribute helpers in attr.go keep key names consistent between the access
// log and the audit trail. Helpers taking optional values return an empty
// Attr, which slog drops, so callers need no nil checks.
package logger
