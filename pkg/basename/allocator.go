package basename

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dmitrymomot/printdrop/pkg/file"
)

const (
	// Alphabet excludes I, O, 0 and 1 so ids can be read aloud.
	// 32 symbols divide 256 evenly, so byte-mod sampling is unbiased.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	DefaultSuffixLength = 5
	DefaultAttempts     = 20

	// fallbackExtra is added to the suffix length of the last-resort candidate.
	fallbackExtra = 3
)

// TrackedExtensions share one base name: the image and its sidecar.
var TrackedExtensions = []string{"png", "jpg", "json"}

// Store is the subset of file.Storage the allocator needs.
type Store interface {
	Exists(ctx context.Context, path string) bool
	Create(ctx context.Context, path string, data []byte, contentType string) error
	Remove(ctx context.Context, path string) error
}

// Allocator picks base names that no tracked file uses yet.
type Allocator struct {
	store     Store
	suffixLen int
	attempts  int
	suffix    func(n int) string
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithSuffixLength sets the random suffix length. Non-positive values are ignored.
func WithSuffixLength(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.suffixLen = n
		}
	}
}

// WithAttempts sets how many random candidates are tried before the fallback.
func WithAttempts(n int) Option {
	return func(a *Allocator) {
		if n >= 0 {
			a.attempts = n
		}
	}
}

// WithSuffixFunc replaces the random suffix source. Useful for tests.
func WithSuffixFunc(fn func(n int) string) Option {
	return func(a *Allocator) {
		if fn != nil {
			a.suffix = fn
		}
	}
}

// New creates an Allocator backed by store.
func New(store Store, opts ...Option) *Allocator {
	a := &Allocator{
		store:     store,
		suffixLen: DefaultSuffixLength,
		attempts:  DefaultAttempts,
		suffix:    RandomSuffix,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RandomSuffix returns n characters drawn from Alphabet using crypto/rand.
func RandomSuffix(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b) // never fails since Go 1.24
	for i := range b {
		b[i] = Alphabet[int(b[i])%len(Alphabet)]
	}
	return string(b)
}

// candidates lists names in the order they are tried. The last entry is
// always the longer-suffix fallback.
func (a *Allocator) candidates(preferred string) []string {
	join := func(n int) string {
		if preferred == "" {
			return a.suffix(n)
		}
		return preferred + "_" + a.suffix(n)
	}

	list := make([]string, 0, a.attempts+2)
	if preferred != "" {
		list = append(list, preferred)
	}
	for range a.attempts {
		list = append(list, join(a.suffixLen))
	}
	return append(list, join(a.suffixLen+fallbackExtra))
}

// taken reports whether any tracked file other than skipExt exists for base.
func (a *Allocator) taken(ctx context.Context, dir, base, skipExt string) bool {
	for _, ext := range TrackedExtensions {
		if ext == skipExt {
			continue
		}
		if a.store.Exists(ctx, file.Join(dir, base+"."+ext)) {
			return true
		}
	}
	return false
}

// Allocate returns the first candidate with no tracked file in dir. When every
// random candidate collides, the longer fallback is returned unchecked.
// Allocate never returns an empty string.
//
// The result is only free at the moment of the probe; use Commit to reserve
// a name atomically.
func (a *Allocator) Allocate(ctx context.Context, dir, preferred string) string {
	list := a.candidates(preferred)
	for _, base := range list[:len(list)-1] {
		if !a.taken(ctx, dir, base, "") {
			return base
		}
	}
	return list[len(list)-1]
}

// Commit allocates a base name and writes data to <dir>/<base>.<ext> with an
// exclusive create, so two concurrent requests can never end up with the same
// base. A candidate that loses the create race, or whose sibling extension
// appears right after the create, is released and the next one is tried.
// Returns the committed base name.
func (a *Allocator) Commit(ctx context.Context, dir, preferred, ext string, data []byte, contentType string) (string, error) {
	list := a.candidates(preferred)
	last := len(list) - 1

	for i, base := range list {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fallback := i == last
		if !fallback && a.taken(ctx, dir, base, "") {
			continue
		}

		p := file.Join(dir, base+"."+ext)
		err := a.store.Create(ctx, p, data, contentType)
		if errors.Is(err, file.ErrFileExists) {
			continue
		}
		if err != nil {
			return "", err
		}

		// A concurrent request may have claimed the same stem with another extension.
		if !fallback && a.taken(ctx, dir, base, ext) {
			_ = a.store.Remove(ctx, p)
			continue
		}

		return base, nil
	}

	return "", fmt.Errorf("%w: %d candidates in %q", ErrExhausted, len(list), dir)
}
