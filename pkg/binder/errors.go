package binder

import "errors"

var (
	ErrInvalidTarget  = errors.New("binder: target must be a non-nil pointer to struct")
	ErrFormNotParsed  = errors.New("binder: request form has not been parsed")
	ErrUnsupportedTag = errors.New("binder: unsupported field type")
	ErrInvalidValue   = errors.New("binder: invalid field value")
)
