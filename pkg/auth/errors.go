package auth

import "errors"

var (
	// ErrDemoUploadDisabled vetoes every demo-mode request, token or not.
	ErrDemoUploadDisabled = errors.New("uploads are disabled in demo mode")
	// ErrTokenRequired means no credential was presented at all.
	ErrTokenRequired = errors.New("upload requires a project token")
	// ErrUnknownProjectToken means a credential was presented but is not a known project.
	ErrUnknownProjectToken = errors.New("unknown project token")
	// ErrMisconfigured means the project map could not be consulted.
	ErrMisconfigured = errors.New("project configuration unavailable")
)
