package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/printdrop/pkg/projects"
)

// Request parameter names.
const (
	HeaderProjectToken = "X-Project-Token"
	HeaderLegacyToken  = "X-Legacy-Token"
	ParamToken         = "token"
	ParamLegacyToken   = "legacy_token"
	ParamMode          = "mode"

	DemoMode = "demo"
)

// Mode records how a request was authorized.
type Mode string

const (
	ModeNone    Mode = "none"
	ModeProject Mode = "project"
	ModeLegacy  Mode = "legacy"
)

// Decision is the outcome of a successful authorization.
// Token must never be logged in clear text, use MaskedToken.
type Decision struct {
	Mode    Mode
	Token   string
	Project projects.Config
}

// MaskedToken returns the token in a form safe for logs.
func (d Decision) MaskedToken() string {
	return MaskToken(d.Token)
}

// Config holds authorizer settings.
type Config struct {
	// LegacySecret enables legacy provenance tagging when non-empty.
	LegacySecret string `env:"LEGACY_UPLOAD_SECRET"`
}

// Authorizer classifies upload requests against the project map.
type Authorizer struct {
	projects     projects.Store
	legacySecret string
}

// Option configures an Authorizer.
type Option func(*Authorizer)

// WithLegacySecret enables the legacy token check. Empty disables it.
func WithLegacySecret(secret string) Option {
	return func(a *Authorizer) {
		a.legacySecret = secret
	}
}

// NewAuthorizer creates an Authorizer backed by store.
func NewAuthorizer(store projects.Store, opts ...Option) *Authorizer {
	a := &Authorizer{projects: store}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an Authorizer from Config.
func NewFromConfig(store projects.Store, cfg Config) *Authorizer {
	return NewAuthorizer(store, WithLegacySecret(cfg.LegacySecret))
}

// Authorize decides whether r may upload. Form values are only read if the
// caller already parsed the form; Authorize never consumes the body.
//
// Checks run in a fixed order and stop at the first failure: demo veto,
// token presence, project map availability, token membership. A matching
// legacy token only relabels an already authorized request.
func (a *Authorizer) Authorize(r *http.Request) (Decision, error) {
	if strings.EqualFold(DeclaredMode(r), DemoMode) {
		return Decision{Mode: ModeNone}, ErrDemoUploadDisabled
	}

	token := ExtractToken(r)
	if token == "" {
		return Decision{Mode: ModeNone}, ErrTokenRequired
	}

	cfg, err := a.lookup(r.Context(), token)
	if err != nil {
		return Decision{Mode: ModeNone}, err
	}

	d := Decision{Mode: ModeProject, Token: token, Project: cfg}
	if a.legacyMatch(r) {
		d.Mode = ModeLegacy
	}
	return d, nil
}

func (a *Authorizer) lookup(ctx context.Context, token string) (projects.Config, error) {
	if a.projects == nil {
		return nil, ErrMisconfigured
	}
	cfg, err := a.projects.Lookup(ctx, token)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, projects.ErrUnknownToken):
		return nil, ErrUnknownProjectToken
	default:
		return nil, errors.Join(ErrMisconfigured, err)
	}
}

// legacyMatch is best-effort: any problem just means "no match".
func (a *Authorizer) legacyMatch(r *http.Request) bool {
	if a.legacySecret == "" {
		return false
	}
	presented := strings.TrimSpace(r.Header.Get(HeaderLegacyToken))
	if presented == "" {
		presented = formValue(r, ParamLegacyToken)
	}
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(a.legacySecret)) == 1
}

// DeclaredMode returns the client-declared mode from the form or query.
// Demo wins whenever either source declares it; otherwise the form value is
// preferred.
func DeclaredMode(r *http.Request) string {
	form := formValue(r, ParamMode)
	query := strings.TrimSpace(r.URL.Query().Get(ParamMode))
	switch {
	case strings.EqualFold(query, DemoMode):
		return query
	case form != "":
		return form
	default:
		return query
	}
}

// ExtractToken returns the first non-empty project token from, in order:
// the X-Project-Token header, an Authorization bearer, the token query
// parameter and the token form field.
func ExtractToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(HeaderProjectToken)); t != "" {
		return t
	}
	if t := bearerToken(r.Header.Get("Authorization")); t != "" {
		return t
	}
	if t := strings.TrimSpace(r.URL.Query().Get(ParamToken)); t != "" {
		return t
	}
	return formValue(r, ParamToken)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// formValue reads an already parsed body field without triggering parsing.
func formValue(r *http.Request, key string) string {
	if r.MultipartForm != nil {
		if vs := r.MultipartForm.Value[key]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
	}
	if r.PostForm != nil {
		return strings.TrimSpace(r.PostForm.Get(key))
	}
	return ""
}

// MaskToken keeps a short prefix and suffix of token for correlation.
// Tokens too short to mask safely are fully hidden.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	runes := []rune(token)
	if len(runes) <= 6 {
		return "***"
	}
	return string(runes[:3]) + "***" + string(runes[len(runes)-2:])
}
