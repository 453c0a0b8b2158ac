package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	fsStore, err := NewFS(t.TempDir())
	require.NoError(t, err)
	return map[string]Storage{
		"fs":     fsStore,
		"memory": NewMemory(),
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			info, err := s.Put(ctx, "abc_document.pdf", strings.NewReader("hello"), PutObjectOptions{Size: 5})
			require.NoError(t, err)
			assert.Equal(t, int64(5), info.Size)

			ok, err := s.Exists(ctx, "abc_document.pdf")
			require.NoError(t, err)
			assert.True(t, ok)

			rc, st, err := s.Get(ctx, "abc_document.pdf")
			require.NoError(t, err)
			body, _ := io.ReadAll(rc)
			rc.Close()
			assert.Equal(t, "hello", string(body))
			assert.Equal(t, int64(5), st.Size)

			// overwrite
			_, err = s.Put(ctx, "abc_document.pdf", strings.NewReader("bye"), PutObjectOptions{Size: -1})
			require.NoError(t, err)
			rc, _, err = s.Get(ctx, "abc_document.pdf")
			require.NoError(t, err)
			body, _ = io.ReadAll(rc)
			rc.Close()
			assert.Equal(t, "bye", string(body))
		})
	}
}

func TestStorage_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "x_image.png", strings.NewReader("png"), PutObjectOptions{Size: 3})
			require.NoError(t, err)

			require.NoError(t, s.Delete(ctx, "x_image.png"))
			require.NoError(t, s.Delete(ctx, "x_image.png"))

			ok, err := s.Exists(ctx, "x_image.png")
			require.NoError(t, err)
			assert.False(t, ok)

			_, _, err = s.Get(ctx, "x_image.png")
			assert.ErrorIs(t, err, ErrObjectNotFound)
		})
	}
}

func TestStorage_SizeMismatchLeavesNothing(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(ctx, "y_audio.wav", strings.NewReader("short"), PutObjectOptions{Size: 100})
			assert.ErrorIs(t, err, ErrSizeMismatch)

			ok, err := s.Exists(ctx, "y_audio.wav")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

type failingReader struct{ n int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errors.New("connection reset")
	}
	f.n--
	p[0] = 'x'
	return 1, nil
}

func TestFS_InterruptedUploadLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "z_material.zip", &failingReader{n: 3}, PutObjectOptions{Size: -1})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file must be removed")
}

func TestFS_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Put(ctx, "c_image.gif", strings.NewReader("gif"), PutObjectOptions{Size: 3})
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "c_image.gif"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidateKey(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "../etc/passwd", "a/b", `a\b`} {
		assert.ErrorIs(t, ValidateKey(bad), ErrInvalidKey, bad)
	}
	assert.NoError(t, ValidateKey("0b7c_document.pdf"))

	s, err := NewFS(t.TempDir())
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "../escape.pdf", strings.NewReader("x"), PutObjectOptions{Size: 1})
	assert.ErrorIs(t, err, ErrInvalidKey)
}
