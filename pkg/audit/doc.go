// Package audit records one structured line per upload request.
//
// Every terminal outcome, success or failure, is written as a JSON object to
// an append-only file kept apart from the upload tree:
//
//	{"ts":"2026-01-02T15:04:05Z","request_id":"...","ip":"203.0.113.7","status":201,
//	 "code":"ok","mode":"production","auth_mode":"project","order_id":"Order7_s01of05",
//	 "order_dir":"Order7","file_base":"Order7_s01of05","token":"TES***23",
//	 "stored_file":"Order7/Order7_s01of05.png","bytes":48213,"mime":"image/png","json_saved":false}
//
// Tokens must be masked before they reach the logger.
//
// # Usage
//
//	fw, _ := audit.NewFileWriter("./logs/upload_audit.log")
//	aw, closeAudit := audit.NewAsyncWriter(fw, audit.AsyncOptions{Logger: log})
//	defer closeAudit(context.Background())
//
//	auditLog := audit.NewLogger(aw,
//		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
//			id := requestid.FromContext(ctx)
//			return id, id != ""
//		}),
//	)
//
//	_ = auditLog.Record(ctx, audit.Event{Status: 403, Code: "upload_requires_token"})
//
// # Failure policy
//
// Auditing is best-effort. AsyncWriter never blocks the caller: a full
// buffer drops the event with ErrBufferFull and batch write failures are
// reported to the configured slog logger only.
package audit
