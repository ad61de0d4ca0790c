package file_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/printdrop/pkg/file"
)

func TestNewLocalStorage(t *testing.T) {
	t.Parallel()

	t.Run("creates base directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "nested", "uploads")

		storage, err := file.NewLocalStorage(dir, "/files")
		require.NoError(t, err)
		assert.Equal(t, dir, storage.BaseDir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty base directory", func(t *testing.T) {
		t.Parallel()
		_, err := file.NewLocalStorage("", "/files/")
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
	})
}

func TestLocalStorage_EnsureDir(t *testing.T) {
	t.Parallel()
	storage, err := file.NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("creates and tolerates existing", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.EnsureDir(ctx, "order7"))
		require.NoError(t, storage.EnsureDir(ctx, "order7"))
		assert.DirExists(t, filepath.Join(storage.BaseDir(), "order7"))
	})

	t.Run("root", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, storage.EnsureDir(ctx, ""))
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()
		err := storage.EnsureDir(ctx, "../escape")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("fails when a file blocks the path", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.Create(ctx, "blocker", []byte("x"), ""))
		err := storage.EnsureDir(ctx, "blocker")
		assert.ErrorIs(t, err, file.ErrFailedToCreateDirectory)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, storage.EnsureDir(cctx, "never"), context.Canceled)
	})
}

func TestLocalStorage_Create(t *testing.T) {
	t.Parallel()
	storage, err := file.NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, storage.EnsureDir(ctx, "o"))

	t.Run("writes verbatim bytes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.Create(ctx, "o/a.png", pngHeader, "image/png"))

		data, err := os.ReadFile(filepath.Join(storage.BaseDir(), "o", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)

		info, err := os.Stat(filepath.Join(storage.BaseDir(), "o", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.Create(ctx, "o/b.png", []byte("first"), ""))

		err := storage.Create(ctx, "o/b.png", []byte("second"), "")
		assert.ErrorIs(t, err, file.ErrFileExists)

		data, err := os.ReadFile(filepath.Join(storage.BaseDir(), "o", "b.png"))
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), data)
	})

	t.Run("writes large payload", func(t *testing.T) {
		t.Parallel()
		payload := make([]byte, 100*1024+7)
		for i := range payload {
			payload[i] = byte(i)
		}
		require.NoError(t, storage.Create(ctx, "o/large.bin", payload, ""))

		data, err := os.ReadFile(filepath.Join(storage.BaseDir(), "o", "large.bin"))
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("missing directory is a create failure", func(t *testing.T) {
		t.Parallel()
		err := storage.Create(ctx, "missing/c.png", pngHeader, "")
		assert.ErrorIs(t, err, file.ErrFailedToCreateFile)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()
		err := storage.Create(ctx, "../../etc/passwd", []byte("x"), "")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := storage.Create(cctx, "o/canceled.png", pngHeader, "")
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, storage.Exists(ctx, "o/canceled.png"))
	})

	t.Run("concurrent writers get exactly one winner", func(t *testing.T) {
		t.Parallel()
		const writers = 16

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := storage.Create(ctx, "o/race.png", pngHeader, ""); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, file.ErrFileExists)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})
}

func TestLocalStorage_ExistsAndRemove(t *testing.T) {
	t.Parallel()
	storage, err := file.NewLocalStorage(t.TempDir(), "/files/", file.WithLocalUploadTimeout(time.Second))
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, storage.Exists(ctx, "x.png"))
	require.NoError(t, storage.Create(ctx, "x.png", pngHeader, ""))
	assert.True(t, storage.Exists(ctx, "x.png"))
	assert.False(t, storage.Exists(ctx, "../x.png"))

	require.NoError(t, storage.Remove(ctx, "x.png"))
	assert.False(t, storage.Exists(ctx, "x.png"))

	// Removing twice is fine
	require.NoError(t, storage.Remove(ctx, "x.png"))

	require.NoError(t, storage.EnsureDir(ctx, "dir"))
	assert.ErrorIs(t, storage.Remove(ctx, "dir"), file.ErrIsDirectory)
}

func TestLocalStorage_URL(t *testing.T) {
	t.Parallel()

	storage, err := file.NewLocalStorage(t.TempDir(), "https://cdn.example.com/uploads")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/uploads/order7/a.png", storage.URL("order7/a.png"))
	assert.Equal(t, "/absolute/a.png", storage.URL("/absolute/a.png"))
}

func TestLocalStorage_Ping(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage, err := file.NewLocalStorage(dir, "/files/")
	require.NoError(t, err)
	require.NoError(t, storage.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.ErrorIs(t, storage.Ping(context.Background()), file.ErrFailedToStatPath)
}
