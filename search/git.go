package search

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks up from startPath looking for a .git directory and
// returns the repository root if one is found.
func FindGitRoot(startPath string) (string, bool) {
	dir := startPath
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// GetCurrentGitRoot finds the git repository root from the current working
// directory.
func GetCurrentGitRoot() (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return FindGitRoot(wd)
}
