package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader(`{"ok":true}`), "backup-1.json")
	require.NoError(t, err)
	assert.Equal(t, "backup-1.json", path)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, err = s.Upload(ctx, strings.NewReader("x"), "notes.txt")
	require.NoError(t, err)

	files, err := s.List(ctx, ".", ".json")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "backup-1.json", files[0].Name)
	assert.Equal(t, int64(11), files[0].Size)

	require.NoError(t, s.Delete(ctx, path))
	exists, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_Download_Missing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "nope.json")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../escape.json")
	assert.True(t, errors.Is(err, ErrInvalidPath))
}
