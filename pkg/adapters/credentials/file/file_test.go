package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFileFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  abc.def.ghi\n"), 0o600))

	src := NewTokenFile(path)
	assert.Equal(t, path, src.Path())
	assert.True(t, src.Available())

	token, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestTokenFileRereadsOnEveryFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))

	src := NewTokenFile(path)
	token, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	require.NoError(t, os.WriteFile(path, []byte("rotated"), 0o600))

	token, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated", token)
}

func TestTokenFileMissing(t *testing.T) {
	src := NewTokenFile(filepath.Join(t.TempDir(), "missing"))

	assert.False(t, src.Available())

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTokenFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(" \n"), 0o600))

	src := NewTokenFile(path)
	assert.True(t, src.Available())

	_, err := src.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestTokenFileDirectory(t *testing.T) {
	// exists, but is not readable as a file
	src := NewTokenFile(t.TempDir())

	assert.True(t, src.Available())

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestTokenFileCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTokenFile("/nonexistent").Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
