// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesSkipsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.txt")
	content := "  first ref  \n\n\t\nsecond ref\r\nthird ref"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first ref", "second ref", "third ref"}, lines)
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, filepath.Join("pdfs", "003.pdf"), ArtifactPath("pdfs", 3))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001.pdf")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, Exists(path))
}

func TestLockDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	unlock, err := LockDir(dir)
	require.NoError(t, err)

	_, err = LockDir(dir)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())

	unlock2, err := LockDir(dir)
	require.NoError(t, err)
	require.NoError(t, unlock2())
}
