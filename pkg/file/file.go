package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
)

// Storage is the persistence backend for uploaded assets.
// Paths are slash-separated and relative to the storage root.
type Storage interface {
	// EnsureDir creates dir if it does not exist yet. Safe to race.
	EnsureDir(ctx context.Context, dir string) error
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool
	// Create writes data to path only if nothing exists there.
	// Returns ErrFileExists when the path is already taken.
	Create(ctx context.Context, path string, data []byte, contentType string) error
	// Remove deletes the file at path. Missing files are not an error.
	Remove(ctx context.Context, path string) error
	// URL returns the public URL for a file.
	URL(path string) string
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Join builds a storage path from its elements.
func Join(elem ...string) string {
	return strings.TrimPrefix(path.Join(elem...), "/")
}

// ValidateSize checks if the file size is within the allowed limit.
// FileHeader.Size is the size of the stored part, so this is exact for parsed
// multipart forms.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", fh.Size, maxBytes, ErrFileTooLarge)
	}
	return nil
}

// ReadAll reads the file content into memory, refusing to read more than
// maxBytes. A non-positive maxBytes disables the limit.
func ReadAll(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes limit: %w", maxBytes, ErrFileTooLarge)
	}

	return data, nil
}
