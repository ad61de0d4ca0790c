package basename_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/printdrop/pkg/basename"
	"github.com/dmitrymomot/printdrop/pkg/file"
)

var png = []byte("\x89PNG\r\n\x1a\n")

func newStorage(t *testing.T) *file.LocalStorage {
	t.Helper()
	storage, err := file.NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)
	require.NoError(t, storage.EnsureDir(context.Background(), "o"))
	return storage
}

// sequence returns unique suffixes "SSSS1", "SSSS2", ... of the requested length.
func sequence() func(n int) string {
	var (
		mu sync.Mutex
		i  int
	)
	return func(n int) string {
		mu.Lock()
		defer mu.Unlock()
		i++
		return fmt.Sprintf("%s%d", strings.Repeat("S", n-1), i)
	}
}

func TestRandomSuffix(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 5, 8, 64} {
		s := basename.RandomSuffix(n)
		assert.Len(t, s, n)
		for _, r := range s {
			assert.Contains(t, basename.Alphabet, string(r))
		}
		assert.NotContains(t, s, "I")
		assert.NotContains(t, s, "O")
		assert.NotContains(t, s, "0")
		assert.NotContains(t, s, "1")
	}
}

func TestAllocator_Allocate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("preferred base when free", func(t *testing.T) {
		t.Parallel()
		alloc := basename.New(newStorage(t))
		assert.Equal(t, "order7", alloc.Allocate(ctx, "o", "order7"))
	})

	t.Run("random suffix when preferred is taken", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		require.NoError(t, storage.Create(ctx, "o/order7.png", png, ""))

		base := basename.New(storage).Allocate(ctx, "o", "order7")
		require.True(t, strings.HasPrefix(base, "order7_"), base)
		assert.Len(t, strings.TrimPrefix(base, "order7_"), basename.DefaultSuffixLength)
	})

	for _, ext := range basename.TrackedExtensions {
		t.Run("any tracked extension blocks the base: "+ext, func(t *testing.T) {
			t.Parallel()
			storage := newStorage(t)
			require.NoError(t, storage.Create(ctx, "o/order7."+ext, []byte("x"), ""))

			assert.NotEqual(t, "order7", basename.New(storage).Allocate(ctx, "o", "order7"))
		})
	}

	t.Run("untracked extension does not block", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		require.NoError(t, storage.Create(ctx, "o/order7.txt", []byte("x"), ""))

		assert.Equal(t, "order7", basename.New(storage).Allocate(ctx, "o", "order7"))
	})

	t.Run("bare suffix without preferred base", func(t *testing.T) {
		t.Parallel()
		base := basename.New(newStorage(t)).Allocate(ctx, "o", "")
		assert.Len(t, base, basename.DefaultSuffixLength)
	})

	t.Run("configurable suffix length", func(t *testing.T) {
		t.Parallel()
		base := basename.New(newStorage(t), basename.WithSuffixLength(8)).Allocate(ctx, "o", "")
		assert.Len(t, base, 8)
	})

	t.Run("second allocation sees the first one's files", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		alloc := basename.New(storage)

		first := alloc.Allocate(ctx, "o", "order7")
		require.NoError(t, storage.Create(ctx, file.Join("o", first+".png"), png, ""))
		second := alloc.Allocate(ctx, "o", "order7")

		assert.NotEqual(t, first, second)
	})

	t.Run("falls back to longer suffix when everything collides", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		// Constant suffix makes every regular candidate identical.
		alloc := basename.New(storage,
			basename.WithAttempts(3),
			basename.WithSuffixFunc(func(n int) string { return strings.Repeat("Z", n) }),
		)
		require.NoError(t, storage.Create(ctx, "o/order7.png", png, ""))
		require.NoError(t, storage.Create(ctx, "o/order7_ZZZZZ.jpg", png, ""))

		assert.Equal(t, "order7_ZZZZZZZZ", alloc.Allocate(ctx, "o", "order7"))
	})
}

func TestAllocator_Commit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes under preferred base", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)

		base, err := basename.New(storage).Commit(ctx, "o", "order7", "png", png, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "order7", base)
		assert.True(t, storage.Exists(ctx, "o/order7.png"))
	})

	t.Run("two commits yield two names", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		alloc := basename.New(storage)

		first, err := alloc.Commit(ctx, "o", "order7", "png", png, "image/png")
		require.NoError(t, err)
		second, err := alloc.Commit(ctx, "o", "order7", "jpg", png, "image/jpeg")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, storage.Exists(ctx, file.Join("o", first+".png")))
		assert.True(t, storage.Exists(ctx, file.Join("o", second+".jpg")))
	})

	t.Run("concurrent commits never share a base", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		alloc := basename.New(storage, basename.WithSuffixFunc(sequence()))

		const writers = 12
		bases := make([]string, writers)
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ext := "png"
				if i%2 == 1 {
					ext = "jpg"
				}
				base, err := alloc.Commit(ctx, "o", "order7", ext, png, "")
				assert.NoError(t, err)
				bases[i] = base
			}()
		}
		wg.Wait()

		seen := make(map[string]bool, writers)
		for _, b := range bases {
			assert.False(t, seen[b], "duplicate base %q", b)
			seen[b] = true
		}
	})

	t.Run("releases candidate when sibling appears", func(t *testing.T) {
		t.Parallel()
		store := &racingStore{LocalStorage: newStorage(t), sibling: "o/order7.jpg"}
		alloc := basename.New(store, basename.WithSuffixFunc(sequence()))

		base, err := alloc.Commit(ctx, "o", "order7", "png", png, "image/png")
		require.NoError(t, err)
		assert.NotEqual(t, "order7", base)
		assert.False(t, store.Exists(ctx, "o/order7.png"), "losing candidate must be removed")
		assert.True(t, store.Exists(ctx, file.Join("o", base+".png")))
	})

	t.Run("exhausted when fallback is taken too", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)
		alloc := basename.New(storage,
			basename.WithAttempts(1),
			basename.WithSuffixFunc(func(n int) string { return strings.Repeat("Z", n) }),
		)
		for _, p := range []string{"o/order7.png", "o/order7_ZZZZZ.png", "o/order7_ZZZZZZZZ.png"} {
			require.NoError(t, storage.Create(ctx, p, png, ""))
		}

		_, err := alloc.Commit(ctx, "o", "order7", "png", png, "")
		assert.ErrorIs(t, err, basename.ErrExhausted)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		t.Parallel()
		storage := newStorage(t)

		_, err := basename.New(storage).Commit(ctx, "missing-dir", "order7", "png", png, "")
		assert.ErrorIs(t, err, file.ErrFailedToCreateFile)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := basename.New(newStorage(t)).Commit(cctx, "o", "order7", "png", png, "")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

// racingStore simulates a concurrent request that claims a sibling extension
// right after the first successful create.
type racingStore struct {
	*file.LocalStorage
	sibling string
	once    sync.Once
}

func (s *racingStore) Create(ctx context.Context, path string, data []byte, contentType string) error {
	if err := s.LocalStorage.Create(ctx, path, data, contentType); err != nil {
		return err
	}
	s.once.Do(func() {
		_ = s.LocalStorage.Create(ctx, s.sibling, []byte("other"), "")
	})
	return nil
}
