package search

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Scanner walks a directory tree once and reports every literal occurrence
// of the configured terms. The walk is sequential: one file is read at a
// time, and a read failure on one file never aborts the traversal.
type Scanner struct {
	fs   billy.Filesystem
	spec Spec
}

// New returns a Scanner rooted at dir. A missing or non-directory root is a
// startup error, not a per-file failure.
func New(dir string, spec Spec) (*Scanner, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("search root %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("search root %q is not a directory", dir)
	}
	return &Scanner{fs: osfs.New(dir), spec: spec}, nil
}

// NewFS returns a Scanner over an arbitrary filesystem, rooted at its top.
func NewFS(fsys billy.Filesystem, spec Spec) (*Scanner, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{fs: fsys, spec: spec}, nil
}

// Run performs one full traversal and returns the collected report.
//
// Ignored directories are pruned before descent, so their contents are never
// opened. Symlinked directories are not followed (the walk is lstat-based),
// which also rules out link cycles. ctx is checked between files; a
// cancelled context abandons the scan and returns ctx.Err().
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	err := util.Walk(s.fs, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			// Unreadable entry mid-walk: record it, keep walking.
			report.Failures = append(report.Failures, FileError{File: filepath.ToSlash(p), Err: err})
			return nil
		}

		if info.IsDir() {
			if p != "." && s.spec.ignoresDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel := filepath.ToSlash(p)
		if !s.spec.admits(rel) {
			return nil
		}

		content, err := util.ReadFile(s.fs, p)
		if err != nil {
			report.Failures = append(report.Failures, FileError{File: rel, Err: err})
			return nil
		}
		report.FilesScanned++
		s.scanContent(rel, content, report)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// scanContent tests whole-file containment for each term and, on a hit,
// enumerates the matching lines. The containment check runs on raw bytes, so
// a term spanning a line boundary still yields its file-level record even
// when no single line contains it.
func (s *Scanner) scanContent(file string, content []byte, report *Report) {
	var lines [][]byte // split once, shared across terms

	for _, term := range s.spec.Terms {
		needle := []byte(term)
		if !bytes.Contains(content, needle) {
			continue
		}
		report.Matches = append(report.Matches, Match{File: file, Term: term})

		if lines == nil {
			lines = splitLines(content)
		}
		for i, line := range lines {
			col := bytes.Index(line, needle)
			if col < 0 {
				continue
			}
			report.Matches = append(report.Matches, Match{
				File:   file,
				Term:   term,
				Line:   i + 1,
				Column: col + 1,
				Text:   previewText(line, s.spec.previewLen()),
			})
		}
	}
}

// splitLines splits on '\n'; a trailing newline does not produce an empty
// final line.
func splitLines(content []byte) [][]byte {
	lines := bytes.Split(content, []byte{'\n'})
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	return lines
}

// previewText renders a line as a trimmed, bounded, valid-UTF-8 string.
// Truncation happens before sanitizing so a rune cut at the boundary is
// dropped rather than kept as a replacement character.
func previewText(line []byte, max int) string {
	text := strings.TrimSpace(string(line))
	if len(text) > max {
		text = text[:max]
	}
	return strings.ToValidUTF8(text, "")
}
