package audit

import "errors"

var (
	// ErrStorageNotAvailable indicates the storage backend is unavailable
	ErrStorageNotAvailable = errors.New("storage backend is unavailable")

	// ErrEventValidation indicates event validation failed
	ErrEventValidation = errors.New("event validation failed")

	// ErrBufferFull indicates the async buffer is full and the event was dropped
	ErrBufferFull = errors.New("async buffer is full")

	// ErrFailedToWrite indicates the audit line could not be appended
	ErrFailedToWrite = errors.New("failed to write audit event")
)
