package ingest

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/printdrop/pkg/auth"
	"github.com/dmitrymomot/printdrop/pkg/clientip"
	"github.com/dmitrymomot/printdrop/pkg/requestid"
)

// Declared request modes.
const (
	ModeProduction = "production"
	ModeDemo       = "demo"
)

// RequestContext describes one upload request. It is built once, after the
// form is parsed, and passed by value through every step.
type RequestContext struct {
	RequestID string
	Mode      string
	IP        string
	Time      time.Time
}

func newRequestContext(r *http.Request, now time.Time) RequestContext {
	ctx := r.Context()

	id := requestid.FromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	mode := ModeProduction
	if strings.EqualFold(auth.DeclaredMode(r), auth.DemoMode) {
		mode = ModeDemo
	}

	ip := clientip.GetIPFromContext(ctx)
	if ip == "" {
		ip = clientip.Resolve(r, false)
	}

	return RequestContext{RequestID: id, Mode: mode, IP: ip, Time: now.UTC()}
}

// ServerTS is the request timestamp as reported to clients.
func (rc RequestContext) ServerTS() string {
	return rc.Time.Format(time.RFC3339)
}
