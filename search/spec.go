package search

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy selects how Spec.Extensions is interpreted.
type Policy int

const (
	// PolicyDeny scans every file except those with a listed extension.
	PolicyDeny Policy = iota
	// PolicyAllow scans only files with a listed extension.
	PolicyAllow
)

// DefaultPreviewLen bounds the preview text of a line-level match.
const DefaultPreviewLen = 100

// DefaultIgnoreDirs are directory names that are never descended into.
var DefaultIgnoreDirs = []string{"node_modules", ".next", ".git", ".vscode"}

// DefaultIgnoreExts are binary/media extensions skipped under PolicyDeny.
var DefaultIgnoreExts = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg",
	".woff", ".woff2", ".ttf", ".eot",
	".mp4", ".webm", ".map",
}

// SourceExtensions is the allow-list preset for JS/TS source trees.
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Spec describes one search: what to look for and which files to visit.
// It is constructed once and never mutated by a scan.
type Spec struct {
	Terms      []string
	IgnoreDirs []string
	Policy     Policy
	Extensions []string
	// Mask is an optional doublestar glob matched against the slash-separated
	// relative path. A mask without a separator matches base names, like
	// ripgrep's --glob.
	Mask       string
	PreviewLen int
}

// DefaultSpec returns a deny-list spec with the default ignore sets.
func DefaultSpec(terms ...string) Spec {
	return Spec{
		Terms:      terms,
		IgnoreDirs: DefaultIgnoreDirs,
		Policy:     PolicyDeny,
		Extensions: DefaultIgnoreExts,
		PreviewLen: DefaultPreviewLen,
	}
}

// SourceSpec returns an allow-list spec admitting only JS/TS source files.
func SourceSpec(terms ...string) Spec {
	s := DefaultSpec(terms...)
	s.Policy = PolicyAllow
	s.Extensions = SourceExtensions
	return s
}

// Validate checks that the spec can drive a scan.
func (s *Spec) Validate() error {
	if len(s.Terms) == 0 {
		return errors.New("no search terms")
	}
	for _, term := range s.Terms {
		if term == "" {
			return errors.New("empty search term")
		}
	}
	if s.Mask != "" && !doublestar.ValidatePattern(s.Mask) {
		return fmt.Errorf("invalid file mask %q", s.Mask)
	}
	return nil
}

func (s *Spec) previewLen() int {
	if s.PreviewLen > 0 {
		return s.PreviewLen
	}
	return DefaultPreviewLen
}

// ignoresDir reports whether a directory with the given base name is pruned.
func (s *Spec) ignoresDir(name string) bool {
	for _, d := range s.IgnoreDirs {
		if name == d {
			return true
		}
	}
	return false
}

// admits reports whether the file at relPath passes the extension policy and
// the optional mask. relPath uses forward slashes.
func (s *Spec) admits(relPath string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	switch s.Policy {
	case PolicyAllow:
		if !containsExt(s.Extensions, ext) {
			return false
		}
	case PolicyDeny:
		if containsExt(s.Extensions, ext) {
			return false
		}
	}

	if s.Mask == "" {
		return true
	}
	target := relPath
	if !strings.Contains(s.Mask, "/") {
		target = path.Base(relPath)
	}
	ok, err := doublestar.Match(s.Mask, target)
	return err == nil && ok
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
