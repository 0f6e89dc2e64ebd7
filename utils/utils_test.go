package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// already existing is fine
	require.NoError(t, EnsureDir(path))

	// a file in the way is not
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, EnsureDir(file))
}

func TestUnixToString(t *testing.T) {
	assert.Equal(t, "never", UnixToString(0))
	assert.NotEqual(t, "never", UnixToString(1700000000))
}

func TestUint8Len(t *testing.T) {
	assert.Equal(t, uint8(3), Uint8Len([]byte("abc")))
	assert.Equal(t, uint8(0), Uint8Len(nil))
}
