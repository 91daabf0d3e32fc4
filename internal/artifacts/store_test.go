package artifacts_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"qrcatalog/internal/artifacts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *artifacts.FileStore {
	t.Helper()
	s, err := artifacts.NewFileStore(filepath.Join(t.TempDir(), "qr-codes"))
	require.NoError(t, err)
	return s
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product_42.png", artifacts.Key(42))
}

func TestWriteReadDelete(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Write(context.Background(), 7, []byte("png-bytes")))
	assert.FileExists(t, filepath.Join(s.Dir(), "product_7.png"))

	got, err := s.Read(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)

	ok, err := s.Exists(7)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(7))
	ok, err = s.Exists(7)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	require.NoError(t, s.Delete(7))
}

func TestWriteReplacesExisting(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Write(context.Background(), 1, []byte("old")))
	require.NoError(t, s.Write(context.Background(), 1, []byte("new")))

	got, err := s.Read(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestWriteCancelledLeavesNothing(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Write(ctx, 3, []byte("data"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, artifacts.ErrWrite))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "no final or temp file may remain")
}

func TestWriteIntoMissingDirFails(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.RemoveAll(s.Dir()))

	err := s.Write(context.Background(), 1, []byte("x"))
	assert.ErrorIs(t, err, artifacts.ErrWrite)
}

func TestEncodeQRPayload(t *testing.T) {
	a, err := artifacts.EncodeQRPayload("http://shop.test/view/5", 128)
	require.NoError(t, err)
	b, err := artifacts.EncodeQRPayload("http://shop.test/view/5", 128)
	require.NoError(t, err)
	assert.Equal(t, a, b, "encoding is deterministic")

	img, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestTargetURL(t *testing.T) {
	assert.Equal(t, "http://shop.test/view/9", artifacts.TargetURL("http://shop.test/view", 9))
	assert.Equal(t, "http://shop.test/view/9", artifacts.TargetURL("http://shop.test/view/", 9))
}
