package tmpwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_CreatesOldAndNewDirs(t *testing.T) {
	base := t.TempDir()
	w := New(base)

	oldDir, newDir, err := w.Prepare("root_abcdef1")
	require.NoError(t, err)
	assert.DirExists(t, oldDir)
	assert.DirExists(t, newDir)
	assert.Equal(t, filepath.Join(base, "root_abcdef1", "old"), oldDir)
}

func TestPrepare_WipesExistingContent(t *testing.T) {
	base := t.TempDir()
	w := New(base)

	oldDir, _, err := w.Prepare("p1")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(oldDir, "stale.txt"), []byte("x"), 0o644))

	oldDir2, _, err := w.Prepare("p1")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(oldDir2, "stale.txt"))
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	base := t.TempDir()
	err := WriteFile(base, "a/b/c.go", []byte("package a\n"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(base, "a", "b", "c.go"))
}

func TestCleanup_RemovesPairDir(t *testing.T) {
	base := t.TempDir()
	w := New(base)
	_, _, err := w.Prepare("p2")
	require.NoError(t, err)

	require.NoError(t, w.Cleanup("p2"))
	assert.NoDirExists(t, w.PairDir("p2"))
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	c := ContentHash([]byte("world"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
