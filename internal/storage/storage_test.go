package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	n, err := s.Put(ctx, "exports/register-2025-01-10.xlsx", "application/octet-stream", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = s.Put(ctx, "exports/register-2025-01-11.xlsx", "application/octet-stream", strings.NewReader("second"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "other/readme.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		rc, err := s.Get(ctx, "exports/register-2025-01-10.xlsx")
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "first", string(body))
	})

	t.Run("overwrite", func(t *testing.T) {
		_, err := s.Put(ctx, "exports/register-2025-01-10.xlsx", "application/octet-stream", strings.NewReader("replaced"))
		require.NoError(t, err)
		rc, err := s.Get(ctx, "exports/register-2025-01-10.xlsx")
		require.NoError(t, err)
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		assert.Equal(t, "replaced", string(body))
	})

	t.Run("list by prefix", func(t *testing.T) {
		objects, err := s.List(ctx, "exports/")
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "exports/register-2025-01-10.xlsx", objects[0].Key)
		assert.Equal(t, int64(6), objects[1].Size)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := s.Get(ctx, "exports/nope.xlsx")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "other/readme.txt"))
		require.NoError(t, s.Delete(ctx, "other/readme.txt"))
		_, err := s.Get(ctx, "other/readme.txt")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("keys cannot escape the base path", func(t *testing.T) {
		_, err := s.Put(ctx, "../escape.txt", "text/plain", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
		_, err = s.Get(ctx, "exports/../../etc/passwd")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})
}

func TestCleanKey(t *testing.T) {
	key, err := storage.CleanKey("/exports\\a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "exports/a.xlsx", key)

	for _, bad := range []string{"", "a//b", "./a", "a/.."} {
		_, err := storage.CleanKey(bad)
		assert.ErrorIs(t, err, storage.ErrInvalidKey, bad)
	}
}

func TestNewStorage(t *testing.T) {
	s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
