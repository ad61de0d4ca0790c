package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the per-project configuration. Its schema (product dimensions,
// asset paths, UI strings) is opaque to this service.
type Config map[string]any

// Name returns the optional "name" entry.
func (c Config) Name() string {
	if v, ok := c["name"].(string); ok {
		return v
	}
	return ""
}

// Store resolves project tokens. Lookups are exact-match and read-only.
type Store interface {
	// Lookup returns the config for token, ErrUnknownToken when the token is
	// not a key, or ErrUnavailable when the map cannot be read.
	Lookup(ctx context.Context, token string) (Config, error)
}

// FileStore reads a token -> config map from a JSON or YAML file.
// The file is read on every lookup so edits apply without a restart and no
// state is shared between requests.
type FileStore struct {
	path string
}

// NewFileStore creates a store for path. The format follows the extension:
// .yaml and .yml are YAML, everything else is JSON.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingPath
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Lookup reads the map and looks up token.
func (s *FileStore) Lookup(ctx context.Context, token string) (Config, error) {
	m, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return m.Lookup(ctx, token)
}

// Check verifies the map is readable and well-formed.
func (s *FileStore) Check(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *FileStore) load(ctx context.Context) (MapStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m, err := Parse(data, filepath.Ext(s.path))
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return m, nil
}

// Parse decodes a token map. ext selects the format (".yaml"/".yml" or JSON).
func Parse(data []byte, ext string) (MapStore, error) {
	var raw map[string]Config

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Join(ErrMalformed, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Join(ErrMalformed, err)
		}
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: empty project map", ErrMalformed)
	}

	m := make(MapStore, len(raw))
	for token, cfg := range raw {
		if cfg == nil {
			cfg = Config{}
		}
		m[token] = cfg
	}
	return m, nil
}

// MapStore is an in-memory Store.
type MapStore map[string]Config

// Lookup implements Store.
func (m MapStore) Lookup(_ context.Context, token string) (Config, error) {
	if token == "" {
		return nil, ErrUnknownToken
	}
	cfg, ok := m[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return cfg, nil
}
