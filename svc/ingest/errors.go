package ingest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/printdrop/pkg/auth"
	"github.com/dmitrymomot/printdrop/pkg/file"
)

// Code is the stable machine-readable outcome of a failed upload.
type Code string

const (
	CodeDemoUploadDisabled  Code = "demo_upload_disabled"
	CodeTokenRequired       Code = "upload_requires_token"
	CodeUnknownProjectToken Code = "unauthorized_unknown_project_token"
	CodeServerMisconfig     Code = "server_misconfig"
	CodeCannotCreateDir     Code = "server_cannot_create_dir"
	CodeInvalidForm         Code = "invalid_form"
	CodeMissingImage        Code = "missing_image"
	CodeEmptyImage          Code = "empty_image"
	CodeImageTooLarge       Code = "image_too_large"
	CodeUnsupportedMedia    Code = "unsupported_media_type"
	CodeCannotSaveImage     Code = "cannot_save_image"
	CodeJSONTooLarge        Code = "json_too_large"
	CodeJSONFileTooLarge    Code = "json_file_too_large"
	CodeInvalidJSON         Code = "invalid_json"
	CodeInvalidJSONFile     Code = "invalid_json_file"
	CodeCannotSaveJSON      Code = "cannot_save_json"
)

var codes = map[Code]struct {
	status  int
	message string
}{
	CodeDemoUploadDisabled:  {http.StatusForbidden, "uploads are disabled in demo mode"},
	CodeTokenRequired:       {http.StatusForbidden, "a project token is required to upload"},
	CodeUnknownProjectToken: {http.StatusUnauthorized, "unknown project token"},
	CodeServerMisconfig:     {http.StatusInternalServerError, "server is misconfigured"},
	CodeCannotCreateDir:     {http.StatusInternalServerError, "could not create the upload directory"},
	CodeInvalidForm:         {http.StatusBadRequest, "request is not a valid multipart form"},
	CodeMissingImage:        {http.StatusBadRequest, "no image uploaded, send it in the image or file field"},
	CodeEmptyImage:          {http.StatusBadRequest, "uploaded image is empty"},
	CodeImageTooLarge:       {http.StatusRequestEntityTooLarge, "image exceeds the size limit"},
	CodeUnsupportedMedia:    {http.StatusUnsupportedMediaType, "only PNG and JPEG images are accepted"},
	CodeCannotSaveImage:     {http.StatusInternalServerError, "could not save the image"},
	CodeJSONTooLarge:        {http.StatusRequestEntityTooLarge, "json field exceeds the size limit"},
	CodeJSONFileTooLarge:    {http.StatusRequestEntityTooLarge, "json file exceeds the size limit"},
	CodeInvalidJSON:         {http.StatusBadRequest, "json field is not valid JSON"},
	CodeInvalidJSONFile:     {http.StatusBadRequest, "json file is not valid JSON"},
	CodeCannotSaveJSON:      {http.StatusInternalServerError, "could not save the json sidecar"},
}

// Error is a terminal upload failure. Extra holds context fields merged into
// the response body; Err is the internal cause and is only logged.
type Error struct {
	Status  int
	Code    Code
	Message string
	Extra   map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error with the status and message registered for code.
func NewError(code Code) *Error {
	c, ok := codes[code]
	if !ok {
		c = codes[CodeServerMisconfig]
	}
	return &Error{Status: c.status, Code: code, Message: c.message}
}

func (e *Error) with(key string, value any) *Error {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 2)
	}
	e.Extra[key] = value
	return e
}

func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}

func tooLarge(code Code, maxBytes, size int64) *Error {
	e := NewError(code).with("max_bytes", maxBytes)
	if size > 0 {
		e.with("bytes", size)
	}
	return e
}

func authError(err error) *Error {
	switch {
	case errors.Is(err, auth.ErrDemoUploadDisabled):
		return NewError(CodeDemoUploadDisabled)
	case errors.Is(err, auth.ErrTokenRequired):
		return NewError(CodeTokenRequired)
	case errors.Is(err, auth.ErrUnknownProjectToken):
		return NewError(CodeUnknownProjectToken)
	default:
		return NewError(CodeServerMisconfig).wrap(err)
	}
}

// storageError maps a storage failure to code, except that an expired or
// canceled request context is reported as server_misconfig.
func storageError(code Code, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, file.ErrOperationTimeout) || errors.Is(err, file.ErrOperationCanceled) {
		return NewError(CodeServerMisconfig).wrap(err)
	}
	return NewError(code).wrap(err)
}
