package audit

import (
	"context"
	"fmt"
	"time"
)

// CodeOK marks a successful upload in the code field.
const CodeOK = "ok"

// Event is one line of the upload audit log.
// Token must already be masked when the event is recorded.
type Event struct {
	Time      time.Time `json:"ts"`
	RequestID string    `json:"request_id"`
	IP        string    `json:"ip,omitempty"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Error     string    `json:"error,omitempty"`
	Mode      string    `json:"mode"`
	AuthMode  string    `json:"auth_mode"`
	OrderID   string    `json:"order_id"`
	OrderDir  string    `json:"order_dir"`
	FileBase  string    `json:"file_base"`
	Token     string    `json:"token"`

	// Set on success only
	StoredFile string `json:"stored_file,omitempty"`
	Bytes      int64  `json:"bytes,omitempty"`
	MIME       string `json:"mime,omitempty"`
	JSONSaved  bool   `json:"json_saved"`
}

// Success reports whether the event records a stored upload.
func (e Event) Success() bool {
	return e.Code == CodeOK
}

// Validate checks if the event has all required fields
func (e *Event) Validate() error {
	if e.Code == "" {
		return fmt.Errorf("%w: code is required", ErrEventValidation)
	}
	if e.Status == 0 {
		return fmt.Errorf("%w: status is required", ErrEventValidation)
	}
	return nil
}

// Writer persists audit events.
type Writer interface {
	Store(ctx context.Context, event Event) error
}

// batchWriter provides efficient bulk storage for audit events.
type batchWriter interface {
	StoreBatch(ctx context.Context, events []Event) error
}
