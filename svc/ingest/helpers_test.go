package ingest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/printdrop/pkg/audit"
	"github.com/dmitrymomot/printdrop/pkg/auth"
	"github.com/dmitrymomot/printdrop/pkg/file"
	"github.com/dmitrymomot/printdrop/pkg/projects"
	"github.com/dmitrymomot/printdrop/pkg/requestid"
	"github.com/dmitrymomot/printdrop/svc/ingest"
)

var (
	pngData  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0x01}, 64)...)
	jpegData = append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), bytes.Repeat([]byte{0x02}, 64)...)
	gifData  = append([]byte("GIF89a"), bytes.Repeat([]byte{0x03}, 64)...)

	fixedTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	testProjects = projects.MapStore{
		"TEST123": projects.Config{"name": "Test shop"},
	}
)

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (r *recorder) Record(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) last(t *testing.T) audit.Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

type env struct {
	root    string
	storage *file.LocalStorage
	audit   *recorder
	handler http.Handler
}

type envOption struct {
	cfg     ingest.Config
	authz   ingest.Authorizer
	storage file.Storage
}

func newEnv(t *testing.T, opts ...func(*envOption)) *env {
	t.Helper()
	root := filepath.Join(t.TempDir(), "uploads")
	local, err := file.NewLocalStorage(root, "/files/")
	require.NoError(t, err)

	o := envOption{
		cfg:     ingest.DefaultConfig(),
		authz:   auth.NewAuthorizer(testProjects, auth.WithLegacySecret("legacy-secret")),
		storage: local,
	}
	for _, opt := range opts {
		opt(&o)
	}

	rec := &recorder{}
	svc := ingest.NewService(o.cfg, o.authz, o.storage,
		ingest.WithAuditor(rec),
		ingest.WithClock(func() time.Time { return fixedTime }),
	)
	return &env{
		root:    root,
		storage: local,
		audit:   rec,
		handler: requestid.Middleware(ingest.NewHandler(svc, nil).Handle()),
	}
}

type part struct {
	field    string
	filename string
	data     []byte
}

func uploadRequest(t *testing.T, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set(auth.HeaderProjectToken, token)
	return req
}

func (e *env) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestid.Header))
	return rec.Code, body
}

// files lists every regular file below the upload root, relative and sorted.
func (e *env) files(t *testing.T) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(e.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(e.root, p)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func (e *env) dirs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.root)
	require.NoError(t, err)
	var out []string
	for _, en := range entries {
		out = append(out, en.Name())
	}
	return out
}
