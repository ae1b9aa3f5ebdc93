package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok := FindGitRoot(nested)
	assert.True(t, ok)
	assert.Equal(t, root, got)
}

func TestFindGitRootNotARepo(t *testing.T) {
	_, ok := FindGitRoot(t.TempDir())
	assert.False(t, ok)
}

func TestFindGitRootIgnoresGitFile(t *testing.T) {
	// A .git *file* (worktrees, submodules) is not treated as a root here.
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: elsewhere"), 0o644))

	_, ok := FindGitRoot(root)
	assert.False(t, ok)
}
