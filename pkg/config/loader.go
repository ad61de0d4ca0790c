package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

type options struct {
	envFiles []string
	prefix   string
	environ  map[string]string
}

// Option adjusts a single Load call.
type Option func(*options)

// WithEnvFiles reads variables from the given dotenv files instead of the
// default .env. Values already present in the process environment win, and
// the process environment is not modified.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = append(o.envFiles, files...) }
}

// WithPrefix prepends prefix to every env tag of the target struct.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment replaces the process environment as the variable source.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) { o.environ = environ }
}

// Load populates v from environment variables using its env struct tags.
//
// The default .env file in the working directory is loaded into the
// process environment once, on the first call without WithEnvFiles or
// WithEnvironment. A missing file is not an error.
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	environ := o.environ
	switch {
	case environ != nil:
	case len(o.envFiles) > 0:
		fileVars, err := godotenv.Read(o.envFiles...)
		if err != nil {
			return errors.Join(ErrReadingEnvFile, err)
		}
		environ = mergeEnviron(fileVars)
	default:
		defaultEnvLoaded.Do(func() {
			_ = godotenv.Load()
		})
	}

	envOpts := env.Options{Prefix: o.prefix}
	if environ != nil {
		envOpts.Environment = environ
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func mergeEnviron(fileVars map[string]string) map[string]string {
	merged := make(map[string]string, len(fileVars))
	for k, v := range fileVars {
		merged[k] = v
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			merged[k] = v
		}
	}
	return merged
}
