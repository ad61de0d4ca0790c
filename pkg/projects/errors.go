package projects

import "errors"

var (
	ErrUnknownToken = errors.New("unknown project token")
	ErrUnavailable  = errors.New("project map unavailable")
	ErrMalformed    = errors.New("malformed project map")
	ErrMissingPath  = errors.New("project map path is required")
)
