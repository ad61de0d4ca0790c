package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups non-nil errors under "errors". Returns an empty Attr when
// every error is nil.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.String(strconv.Itoa(i), err.Error()))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Status records an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// ErrorCode records the machine-readable outcome code of a request.
func ErrorCode(code string) slog.Attr {
	return slog.String("code", code)
}

func AuthMode(mode string) slog.Attr {
	return slog.String("auth_mode", mode)
}

func OrderDir(dir string) slog.Attr {
	if dir == "" {
		return slog.Attr{}
	}
	return slog.String("order_dir", dir)
}

func FileBase(base string) slog.Attr {
	if base == "" {
		return slog.Attr{}
	}
	return slog.String("file_base", base)
}

// StoredFile records the relative path of a saved file.
func StoredFile(path string) slog.Attr {
	if path == "" {
		return slog.Attr{}
	}
	return slog.String("stored_file", path)
}

func Bytes(n int64) slog.Attr {
	return slog.Int64("bytes", n)
}

// Token records an already masked credential.
func Token(masked string) slog.Attr {
	if masked == "" {
		return slog.Attr{}
	}
	return slog.String("token", masked)
}
