package file

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the storage backend.
type Config struct {
	Driver        string        `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadRoot    string        `env:"UPLOAD_ROOT" envDefault:"./uploads"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"/files/"`
	ServeUploads  bool          `env:"SERVE_UPLOADS" envDefault:"false"`
	WriteTimeout  time.Duration `env:"STORAGE_WRITE_TIMEOUT" envDefault:"0s"`
	S3            S3Config
}

// New builds the backend named by cfg.Driver.
func New(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverLocal:
		var local []LocalOption
		if cfg.WriteTimeout > 0 {
			local = append(local, WithLocalUploadTimeout(cfg.WriteTimeout))
		}
		return NewLocalStorage(cfg.UploadRoot, cfg.PublicBaseURL, local...)
	case DriverS3:
		if cfg.WriteTimeout > 0 {
			opts = append([]S3Option{WithS3UploadTimeout(cfg.WriteTimeout)}, opts...)
		}
		return NewS3Storage(ctx, cfg.S3, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, cfg.Driver)
	}
}
