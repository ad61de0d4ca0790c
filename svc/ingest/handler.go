package ingest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/printdrop/handler"
)

// Path is where uploads are accepted.
const Path = "/upload"

type successBody struct {
	OK        bool    `json:"ok"`
	ID        string  `json:"id"`
	OrderDir  string  `json:"order_dir"`
	ImageURL  string  `json:"image_url"`
	JSONURL   *string `json:"json_url"`
	RequestID string  `json:"request_id"`
	ServerTS  string  `json:"server_ts"`
	Mode      string  `json:"mode"`
	AuthMode  string  `json:"auth_mode"`
}

func successResponse(rc RequestContext, res *Result) handler.Response {
	return handler.JSON(successBody{
		OK:        true,
		ID:        res.ID,
		OrderDir:  res.OrderDir,
		ImageURL:  res.ImageURL,
		JSONURL:   res.JSONURL,
		RequestID: rc.RequestID,
		ServerTS:  rc.ServerTS(),
		Mode:      res.Mode,
		AuthMode:  string(res.AuthMode),
	})
}

func errorResponse(rc RequestContext, e *Error) handler.Response {
	body := make(map[string]any, 5+len(e.Extra))
	for k, v := range e.Extra {
		body[k] = v
	}
	body["ok"] = false
	body["error_code"] = e.Code
	body["error_message"] = e.Message
	body["request_id"] = rc.RequestID
	body["server_ts"] = rc.ServerTS()
	return handler.JSON(body, handler.WithJSONStatus(e.Status))
}

// Handler exposes Service over HTTP.
type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, log: log}
}

// Handle returns the upload route, meant to be mounted at Path.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/", handler.Wrap(h.upload,
		handler.WithErrorHandler(handler.NewErrorHandler(h.log)),
	))
	return r
}

func (h *Handler) upload(ctx handler.Context) handler.Response {
	form := h.svc.ParseForm(ctx.ResponseWriter(), ctx.Request())
	defer func() { _ = form.Close() }()

	rc := h.svc.RequestContext(form)
	res, e := h.svc.Handle(ctx, rc, form)
	if e != nil {
		return errorResponse(rc, e)
	}
	return successResponse(rc, res)
}
