package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrymomot/printdrop/modules/upload"
	"github.com/dmitrymomot/printdrop/pkg/audit"
	"github.com/dmitrymomot/printdrop/pkg/auth"
	"github.com/dmitrymomot/printdrop/pkg/clientip"
	"github.com/dmitrymomot/printdrop/pkg/config"
	"github.com/dmitrymomot/printdrop/pkg/file"
	"github.com/dmitrymomot/printdrop/pkg/httpserver"
	"github.com/dmitrymomot/printdrop/pkg/logger"
	"github.com/dmitrymomot/printdrop/pkg/projects"
	"github.com/dmitrymomot/printdrop/pkg/requestid"
	"github.com/dmitrymomot/printdrop/svc/ingest"
)

const auditFlushTimeout = 5 * time.Second

type appConfig struct {
	Log     logger.Config
	HTTP    httpserver.Config
	Ingest  ingest.Config
	Auth    auth.Config
	Storage file.Config

	ProjectsFile      string `env:"PROJECTS_FILE,required"`
	AuditLogPath      string `env:"AUDIT_LOG_PATH" envDefault:"./logs/upload_audit.log"`
	TrustProxyHeaders bool   `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.FromConfig(cfg.Log),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	storage, err := file.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	store, err := projects.NewFileStore(cfg.ProjectsFile)
	if err != nil {
		return fmt.Errorf("projects: %w", err)
	}
	// The map is re-read on every lookup, so a broken file only fails uploads
	// and readiness until it is fixed.
	if err := store.Check(ctx); err != nil {
		log.Warn("project map is not usable", logger.Error(err), slog.String("path", store.Path()))
	}

	fw, err := audit.NewFileWriter(cfg.AuditLogPath)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	aw, closeAudit := audit.NewAsyncWriter(fw, audit.AsyncOptions{Logger: log})
	flushAudit := func(l *slog.Logger) {
		ctx, cancel := context.WithTimeout(context.Background(), auditFlushTimeout)
		defer cancel()
		if err := closeAudit(ctx); err != nil {
			l.Error("audit flush incomplete", logger.Error(err))
		}
	}
	defer flushAudit(log)

	svc := ingest.NewService(cfg.Ingest, auth.NewFromConfig(store, cfg.Auth), storage,
		ingest.WithLogger(log),
		ingest.WithAuditor(audit.NewLogger(aw,
			audit.WithRequestIDExtractor(requestid.Extractor),
			audit.WithIPExtractor(clientip.Extractor),
		)),
	)

	opts := upload.RouterOptions{
		Ingest:            ingest.NewHandler(svc, log),
		IngestPath:        ingest.Path,
		Ready:             []httpserver.Check{store.Check, storage.Ping},
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Logger:            log,
	}
	if cfg.Storage.ServeUploads {
		local, ok := storage.(*file.LocalStorage)
		switch {
		case !ok:
			log.Warn("SERVE_UPLOADS ignored: only the local storage driver can be served")
		case !strings.HasPrefix(cfg.Storage.PublicBaseURL, "/"):
			log.Warn("SERVE_UPLOADS ignored: PUBLIC_BASE_URL must be a path", slog.String("public_base_url", cfg.Storage.PublicBaseURL))
		default:
			opts.Files = upload.Files(local.BaseDir())
			opts.FilesPrefix = cfg.Storage.PublicBaseURL
		}
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(flushAudit),
	)
	if err := srv.Run(ctx, upload.Router(opts)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
