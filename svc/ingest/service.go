package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/printdrop/handler"
	"github.com/dmitrymomot/printdrop/pkg/audit"
	"github.com/dmitrymomot/printdrop/pkg/auth"
	"github.com/dmitrymomot/printdrop/pkg/basename"
	"github.com/dmitrymomot/printdrop/pkg/binder"
	"github.com/dmitrymomot/printdrop/pkg/file"
	"github.com/dmitrymomot/printdrop/pkg/logger"
	"github.com/dmitrymomot/printdrop/pkg/sanitizer"
)

const jsonContentType = "application/json"

// Authorizer decides whether a request may upload.
type Authorizer interface {
	Authorize(r *http.Request) (auth.Decision, error)
}

// Auditor records the outcome of every request.
type Auditor interface {
	Record(ctx context.Context, event audit.Event) error
}

// UploadRequest holds the form fields of an upload.
type UploadRequest struct {
	OrderID  string                `form:"order_id"`
	FileBase string                `form:"file_base"`
	JSON     string                `form:"json"`
	Image    *multipart.FileHeader `file:"image,file"`
	JSONFile *multipart.FileHeader `file:"json_file"`
}

// Result describes a stored upload.
type Result struct {
	ID         string
	OrderDir   string
	ImageURL   string
	JSONURL    *string
	StoredFile string
	Bytes      int64
	MIME       string
	Mode       string
	AuthMode   auth.Mode
}

// Form is an upload request whose body was parsed under the size limit.
// Close removes spooled multipart files.
type Form struct {
	r   *http.Request
	err error
}

func (f *Form) Request() *http.Request { return f.r }

func (f *Form) Close() error {
	if f.r.MultipartForm != nil {
		return f.r.MultipartForm.RemoveAll()
	}
	return nil
}

// Service runs the upload pipeline: authorize, resolve the order directory,
// validate the image, commit it under a unique base name, then store the
// optional sidecar.
type Service struct {
	cfg     Config
	authz   Authorizer
	storage file.Storage
	names   *basename.Allocator
	audit   Auditor
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		if a != nil {
			s.audit = a
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAllocator replaces the allocator built from Config.
func WithAllocator(a *basename.Allocator) Option {
	return func(s *Service) {
		if a != nil {
			s.names = a
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, audit.Event) error { return nil }

// NewService panics when authz or storage is nil.
func NewService(cfg Config, authz Authorizer, storage file.Storage, opts ...Option) *Service {
	if authz == nil || storage == nil {
		panic("ingest: authorizer and storage are required")
	}
	cfg = cfg.withDefaults()

	s := &Service{
		cfg:     cfg,
		authz:   authz,
		storage: storage,
		audit:   nopAuditor{},
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.names == nil {
		s.names = basename.New(storage,
			basename.WithSuffixLength(cfg.NameSuffixLength),
			basename.WithAttempts(cfg.NameAttempts),
		)
	}
	s.log = s.log.With(logger.Component("ingest"))
	return s
}

// ParseForm reads the request body, refusing bodies larger than one image,
// one sidecar and some form overhead. A parse failure is kept and reported
// by Handle after authorization. A non-multipart body is not an error; the
// upload then fails with missing_image.
//
// When the body is over the limit, text fields that arrived before the
// oversized part are still recovered, so the token and mode they carry are
// honored.
func (s *Service) ParseForm(w http.ResponseWriter, r *http.Request) *Form {
	body := http.MaxBytesReader(w, r.Body, s.cfg.bodyLimit())
	head := &headRecorder{r: body, max: formOverhead}
	r.Body = struct {
		io.Reader
		io.Closer
	}{head, body}

	err := r.ParseMultipartForm(s.cfg.MultipartMemory)
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		err = nil
	case errors.As(err, &maxErr) && r.MultipartForm == nil:
		r.MultipartForm = &multipart.Form{
			Value: leadingFields(head.buf.Bytes(), r.Header.Get("Content-Type")),
			File:  map[string][]*multipart.FileHeader{},
		}
	}
	return &Form{r: r, err: err}
}

// headRecorder keeps a copy of the first max bytes read through it.
type headRecorder struct {
	r   io.Reader
	buf bytes.Buffer
	max int
}

func (h *headRecorder) Read(p []byte) (int, error) {
	n, err := h.r.Read(p)
	if room := h.max - h.buf.Len(); room > 0 && n > 0 {
		h.buf.Write(p[:min(n, room)])
	}
	return n, err
}

// leadingFields decodes the complete text parts at the start of a truncated
// multipart body. It stops at the first part it cannot read in full.
func leadingFields(head []byte, contentType string) map[string][]string {
	values := map[string][]string{}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["boundary"] == "" {
		return values
	}

	mr := multipart.NewReader(bytes.NewReader(head), params["boundary"])
	for {
		p, err := mr.NextPart()
		if err != nil {
			return values
		}
		name := p.FormName()
		if name == "" || p.FileName() != "" {
			continue
		}
		data, err := io.ReadAll(p)
		if err != nil {
			return values
		}
		values[name] = append(values[name], string(data))
	}
}

// RequestContext builds the context for a parsed request.
func (s *Service) RequestContext(f *Form) RequestContext {
	return newRequestContext(f.r, s.now())
}

// Handle runs the pipeline for a parsed request. Every outcome is audited
// and logged. Failures after the image is committed leave the image stored.
func (s *Service) Handle(ctx context.Context, rc RequestContext, f *Form) (*Result, *Error) {
	ev := audit.Event{
		Time:      rc.Time,
		RequestID: rc.RequestID,
		IP:        rc.IP,
		Mode:      rc.Mode,
		AuthMode:  string(auth.ModeNone),
	}

	res, e := s.handle(ctx, f, rc, &ev)
	s.finish(ctx, ev, e)
	return res, e
}

func (s *Service) handle(ctx context.Context, f *Form, rc RequestContext, ev *audit.Event) (*Result, *Error) {
	decision, err := s.authz.Authorize(f.r)
	if err != nil {
		ev.Token = auth.MaskToken(auth.ExtractToken(f.r))
		return nil, authError(err)
	}
	ev.AuthMode = string(decision.Mode)
	ev.Token = decision.MaskedToken()

	if f.err != nil {
		return nil, s.formError(f)
	}

	var req UploadRequest
	if err := binder.Form(f.r, &req); err != nil {
		return nil, NewError(CodeInvalidForm).wrap(err)
	}

	orderID := sanitizer.Identifier(req.OrderID, sanitizer.MaxOrderIDLength)
	orderDir := sanitizer.OrderDirectory(orderID)
	fileBase := sanitizer.Identifier(req.FileBase, sanitizer.MaxFileBaseLength)
	ev.OrderID, ev.OrderDir, ev.FileBase = orderID, orderDir, fileBase

	if err := s.storage.EnsureDir(ctx, orderDir); err != nil {
		return nil, storageError(CodeCannotCreateDir, err)
	}

	data, e := s.readImage(req.Image)
	if e != nil {
		return nil, e
	}

	imageType, err := file.DetectImageType(data)
	if err != nil {
		e := NewError(CodeUnsupportedMedia).wrap(err)
		var ute *file.UnsupportedTypeError
		if errors.As(err, &ute) {
			e.with("mime", ute.MIME)
		}
		return nil, e
	}

	preferred := fileBase
	if preferred == "" {
		preferred = orderID
	}

	base, err := s.names.Commit(ctx, orderDir, preferred, imageType.Ext, data, imageType.MIME)
	if err != nil {
		return nil, storageError(CodeCannotSaveImage, err)
	}

	stored := file.Join(orderDir, base+"."+imageType.Ext)
	ev.FileBase = base
	ev.StoredFile = stored
	ev.Bytes = int64(len(data))
	ev.MIME = imageType.MIME

	res := &Result{
		ID:         base,
		OrderDir:   orderDir,
		ImageURL:   s.storage.URL(stored),
		StoredFile: stored,
		Bytes:      int64(len(data)),
		MIME:       imageType.MIME,
		Mode:       rc.Mode,
		AuthMode:   decision.Mode,
	}

	sidecar, e := s.readSidecar(req)
	if e != nil {
		return nil, e
	}
	if sidecar != nil {
		p := file.Join(orderDir, base+".json")
		if err := s.storage.Create(ctx, p, sidecar, jsonContentType); err != nil {
			return nil, storageError(CodeCannotSaveJSON, err)
		}
		u := s.storage.URL(p)
		res.JSONURL = &u
		ev.JSONSaved = true
	}

	return res, nil
}

func (s *Service) formError(f *Form) *Error {
	var maxErr *http.MaxBytesError
	if errors.As(f.err, &maxErr) {
		return tooLarge(CodeImageTooLarge, s.cfg.MaxImageBytes, f.r.ContentLength).wrap(f.err)
	}
	return NewError(CodeInvalidForm).wrap(f.err)
}

func (s *Service) readImage(fh *multipart.FileHeader) ([]byte, *Error) {
	if fh == nil {
		return nil, NewError(CodeMissingImage)
	}

	if err := file.ValidateSize(fh, s.cfg.MaxImageBytes); err != nil {
		if errors.Is(err, file.ErrEmptyFile) {
			return nil, NewError(CodeEmptyImage)
		}
		return nil, tooLarge(CodeImageTooLarge, s.cfg.MaxImageBytes, fh.Size)
	}

	data, err := file.ReadAll(fh, s.cfg.MaxImageBytes)
	switch {
	case errors.Is(err, file.ErrFileTooLarge):
		return nil, tooLarge(CodeImageTooLarge, s.cfg.MaxImageBytes, fh.Size)
	case err != nil:
		return nil, NewError(CodeCannotSaveImage).wrap(err)
	case len(data) == 0:
		return nil, NewError(CodeEmptyImage)
	}
	return data, nil
}

// readSidecar returns the validated sidecar bytes, or nil when none was
// sent. A non-blank inline json field wins over an uploaded json_file; an
// empty json_file part counts as absent.
func (s *Service) readSidecar(req UploadRequest) ([]byte, *Error) {
	if strings.TrimSpace(req.JSON) != "" {
		data := []byte(req.JSON)
		if int64(len(data)) > s.cfg.MaxJSONBytes {
			return nil, tooLarge(CodeJSONTooLarge, s.cfg.MaxJSONBytes, int64(len(data)))
		}
		if err := validJSON(data); err != nil {
			return nil, NewError(CodeInvalidJSON).with("json_error", err.Error())
		}
		return data, nil
	}

	fh := req.JSONFile
	if fh == nil || fh.Size == 0 {
		return nil, nil
	}
	if err := file.ValidateSize(fh, s.cfg.MaxJSONBytes); err != nil {
		return nil, tooLarge(CodeJSONFileTooLarge, s.cfg.MaxJSONBytes, fh.Size)
	}
	data, err := file.ReadAll(fh, s.cfg.MaxJSONBytes)
	switch {
	case errors.Is(err, file.ErrFileTooLarge):
		return nil, tooLarge(CodeJSONFileTooLarge, s.cfg.MaxJSONBytes, fh.Size)
	case err != nil:
		return nil, NewError(CodeCannotSaveJSON).wrap(err)
	}
	if err := validJSON(data); err != nil {
		return nil, NewError(CodeInvalidJSONFile).with("json_error", err.Error())
	}
	return data, nil
}

func validJSON(data []byte) error {
	if json.Valid(data) {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}

// finish audits and logs the outcome. Audit failures never change the
// response.
func (s *Service) finish(ctx context.Context, ev audit.Event, e *Error) {
	ev.Status, ev.Code = http.StatusOK, audit.CodeOK
	if e != nil {
		ev.Status, ev.Code = e.Status, string(e.Code)
		ev.Error = e.Message
		if e.Err != nil {
			ev.Error = e.Err.Error()
		}
	}

	if err := s.audit.Record(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "audit record dropped", logger.Error(err), logger.ErrorCode(ev.Code))
	}

	msg := "upload stored"
	if e != nil {
		msg = "upload rejected"
	}
	s.log.LogAttrs(ctx, handler.LogLevel(ev.Status), msg,
		logger.Status(ev.Status),
		logger.ErrorCode(ev.Code),
		logger.AuthMode(ev.AuthMode),
		logger.OrderDir(ev.OrderDir),
		logger.FileBase(ev.FileBase),
		logger.StoredFile(ev.StoredFile),
		logger.Token(ev.Token),
		logger.Error(errorCause(e)),
	)
}

func errorCause(e *Error) error {
	if e == nil {
		return nil
	}
	return e.Err
}
