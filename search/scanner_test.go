package search

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys billy.Filesystem, name, content string) {
	t.Helper()
	if dir := path.Dir(name); dir != "." {
		require.NoError(t, fsys.MkdirAll(dir, 0o755))
	}
	require.NoError(t, util.WriteFile(fsys, name, []byte(content), 0o644))
}

func runScan(t *testing.T, fsys billy.Filesystem, spec Spec) *Report {
	t.Helper()
	scanner, err := NewFS(fsys, spec)
	require.NoError(t, err)
	report, err := scanner.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestScannerPrunesIgnoredDirs(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "a/b.tsx", "line one\nline two\nimport X from \"next/document\"\n")
	writeFile(t, fsys, "node_modules/c.tsx", "import X from \"next/document\"\n")

	report := runScan(t, fsys, SourceSpec("next/document"))

	require.Len(t, report.Matches, 2)
	assert.Equal(t, Match{File: "a/b.tsx", Term: "next/document"}, report.Matches[0])
	assert.Equal(t, "a/b.tsx", report.Matches[1].File)
	assert.Equal(t, 3, report.Matches[1].Line)
	assert.Equal(t, `import X from "next/document"`, report.Matches[1].Text)
	assert.Equal(t, 1, report.FilesScanned, "pruned file must never be opened")
}

func TestScannerAllowListPolicy(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "app.tsx", "<Html lang=\"en\">\n")
	writeFile(t, fsys, "notes.txt", "<Html lang=\"en\">\n")

	report := runScan(t, fsys, SourceSpec("<Html"))

	for _, m := range report.Matches {
		assert.Equal(t, "app.tsx", m.File)
	}
	assert.Equal(t, 1, report.FilesScanned)
}

func TestScannerDenyListPolicy(t *testing.T) {
	fsys := memfs.New()
	// A "binary" file containing the literal term bytes: the extension
	// policy must keep it from being scanned at all.
	writeFile(t, fsys, "logo.png", "\x89PNG<Html\x00")
	writeFile(t, fsys, "page.html", "<Html>\n")

	report := runScan(t, fsys, DefaultSpec("<Html"))

	require.Len(t, report.Matches, 2)
	assert.Equal(t, "page.html", report.Matches[0].File)
	assert.Equal(t, 1, report.FilesScanned)
}

func TestScannerFileMask(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "a/main.go", "package main // TODO\n")
	writeFile(t, fsys, "a/main.ts", "// TODO\n")

	spec := DefaultSpec("TODO")
	spec.Mask = "*.go"
	report := runScan(t, fsys, spec)

	for _, m := range report.Matches {
		assert.Equal(t, "a/main.go", m.File)
	}
	require.NotEmpty(t, report.Matches)
}

func TestScannerLineAndColumn(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.js", "nothing here\n  const d = require('next/document')\n")

	report := runScan(t, fsys, DefaultSpec("next/document"))

	require.Len(t, report.Matches, 2)
	hit := report.Matches[1]
	assert.Equal(t, 2, hit.Line)
	assert.Equal(t, 22, hit.Column)
	assert.Equal(t, "const d = require('next/document')", hit.Text, "preview is whitespace-trimmed")
}

func TestScannerNoMatchNoRecord(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.js", "nothing to see\n")

	report := runScan(t, fsys, DefaultSpec("next/document"))

	assert.Empty(t, report.Matches)
	assert.Equal(t, 1, report.FilesScanned)
}

func TestScannerTermAcrossLineBoundary(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.txt", "foo\nbar\n")

	report := runScan(t, fsys, DefaultSpec("foo\nbar"))

	// Whole-file containment catches the term, but no single line does.
	require.Len(t, report.Matches, 1)
	assert.True(t, report.Matches[0].IsFileLevel())
}

func TestScannerOverlappingTermsIndependent(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.tsx", "<Html lang=\"en\">\n")

	report := runScan(t, fsys, DefaultSpec("<Html", "Html"))

	// One file-level and one line-level record per term, no deduplication.
	require.Len(t, report.Matches, 4)
	assert.Equal(t, "<Html", report.Matches[0].Term)
	assert.Equal(t, "Html", report.Matches[2].Term)
	assert.Equal(t, 1, report.Matches[1].Column)
	assert.Equal(t, 2, report.Matches[3].Column)
}

func TestScannerInvalidUTF8Preview(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.txt", "x \xff\xfe needle \xff y\n")

	report := runScan(t, fsys, DefaultSpec("needle"))

	// Matching runs on raw bytes, so the undecodable content still hits;
	// only the preview is sanitized.
	require.Len(t, report.Matches, 2)
	hit := report.Matches[1]
	assert.Equal(t, 1, hit.Line)
	assert.Equal(t, 6, hit.Column)
	assert.Equal(t, "x  needle  y", hit.Text)
}

func TestScannerSymlinkedDirNotFollowed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("needle\n"), 0o644))
	// A link cycle: root/loop points back at root.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	scanner, err := New(root, DefaultSpec("needle"))
	require.NoError(t, err)
	report, err := scanner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesScanned)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "a.go", report.Matches[0].File)
	assert.Empty(t, report.Failures)
}

func TestScannerCaseSensitive(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.txt", "HTML html\n")

	report := runScan(t, fsys, DefaultSpec("Html"))
	assert.Empty(t, report.Matches)
}

func TestScannerIdempotent(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "a/x.js", "next/document\n")
	writeFile(t, fsys, "b/y.js", "next/document here\nand next/document there\n")

	first := runScan(t, fsys, DefaultSpec("next/document"))
	second := runScan(t, fsys, DefaultSpec("next/document"))

	assert.Equal(t, first, second)
}

func TestScannerPreviewBounded(t *testing.T) {
	long := "  x := \"" + strings.Repeat("a", 200) + "next/document\""
	fsys := memfs.New()
	writeFile(t, fsys, "x.go", long+"\n")

	report := runScan(t, fsys, DefaultSpec("next/document"))

	require.Len(t, report.Matches, 2)
	assert.Len(t, report.Matches[1].Text, DefaultPreviewLen)
}

// failingFS simulates a file that exists in the tree but cannot be opened.
type failingFS struct {
	billy.Filesystem
	fail string
}

func (f *failingFS) Open(name string) (billy.File, error) {
	if name == f.fail {
		return nil, errors.New("permission denied")
	}
	return f.Filesystem.Open(name)
}

func TestScannerReadFailureIsolated(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "bad.js", "next/document\n")
	writeFile(t, mem, "good.js", "next/document\n")

	report := runScan(t, &failingFS{Filesystem: mem, fail: "bad.js"}, DefaultSpec("next/document"))

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad.js", report.Failures[0].File)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "good.js", report.Matches[0].File)
	assert.Equal(t, 1, report.FilesScanned)
}

// failingDirFS simulates a directory whose entries cannot be listed.
type failingDirFS struct {
	billy.Filesystem
	dir string
}

func (f *failingDirFS) ReadDir(name string) ([]os.FileInfo, error) {
	if name == f.dir {
		return nil, errors.New("permission denied")
	}
	return f.Filesystem.ReadDir(name)
}

func TestScannerDirReadFailureRecorded(t *testing.T) {
	mem := memfs.New()
	writeFile(t, mem, "sub/hidden.js", "needle\n")
	writeFile(t, mem, "top.js", "needle\n")

	report := runScan(t, &failingDirFS{Filesystem: mem, dir: "sub"}, DefaultSpec("needle"))

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "sub", report.Failures[0].File)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "top.js", report.Matches[0].File)
}

func TestScannerCancellation(t *testing.T) {
	fsys := memfs.New()
	writeFile(t, fsys, "x.js", "next/document\n")

	scanner, err := NewFS(fsys, DefaultSpec("next/document"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = scanner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := New(t.TempDir()+"/nope", DefaultSpec("x"))
	assert.Error(t, err)
}

func TestNewRejectsEmptySpec(t *testing.T) {
	_, err := New(t.TempDir(), Spec{})
	assert.Error(t, err)
}

func TestScannerOsfsRoot(t *testing.T) {
	dir := t.TempDir()
	scanner, err := New(dir, DefaultSpec("needle"))
	require.NoError(t, err)

	report, err := scanner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Matches)
}
