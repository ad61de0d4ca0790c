package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileWriter appends events as JSON lines to a file outside the upload tree.
// The file is opened per write, so external log rotation needs no signal.
type FileWriter struct {
	path string
	mu   sync.Mutex
}

// NewFileWriter creates a writer for path. The parent directory is created
// lazily on first write.
func NewFileWriter(path string) (*FileWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty audit log path", ErrStorageNotAvailable)
	}
	return &FileWriter{path: path}, nil
}

// Path returns the audit log location.
func (w *FileWriter) Path() string {
	return w.path
}

// Store appends a single event.
func (w *FileWriter) Store(ctx context.Context, event Event) error {
	return w.StoreBatch(ctx, []Event{event})
}

// StoreBatch appends events in one write.
func (w *FileWriter) StoreBatch(ctx context.Context, events []Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, e := range events {
		// Encode terminates each value with a newline
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}

	f, err := os.OpenFile(w.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWrite, err)
	}
	return nil
}
