package file_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/printdrop/pkg/file"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("local", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "uploads")
		s, err := file.New(context.Background(), file.Config{Driver: "LOCAL", UploadRoot: root, PublicBaseURL: "/files"})
		require.NoError(t, err)

		local, ok := s.(*file.LocalStorage)
		require.True(t, ok)
		assert.Equal(t, root, local.BaseDir())
		assert.Equal(t, "/files/o/a.png", s.URL("o/a.png"))
	})

	t.Run("s3", func(t *testing.T) {
		t.Parallel()
		s, err := file.New(context.Background(),
			file.Config{Driver: file.DriverS3, S3: file.S3Config{Bucket: "prints", Region: "eu-west-1", BaseURL: "https://cdn.example.com"}},
			file.WithS3Client(&MockS3Client{}),
		)
		require.NoError(t, err)
		assert.IsType(t, &file.S3Storage{}, s)
		assert.Equal(t, "https://cdn.example.com/o/a.png", s.URL("o/a.png"))
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Parallel()
		_, err := file.New(context.Background(), file.Config{Driver: file.DriverS3})
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()
		_, err := file.New(context.Background(), file.Config{Driver: "ftp"})
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
	})
}
