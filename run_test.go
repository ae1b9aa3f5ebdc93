package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awahara/sif/config"
	"github.com/awahara/sif/search"
)

func TestPrintReport(t *testing.T) {
	report := &search.Report{
		Matches: []search.Match{
			{File: "a/b.tsx", Term: "next/document"},
			{File: "a/b.tsx", Term: "next/document", Line: 3, Column: 16, Text: `import X from "next/document"`},
		},
		Failures: []search.FileError{
			{File: "c.tsx", Err: os.ErrPermission},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, []string{"next/document"}, report)

	out := buf.String()
	assert.Contains(t, out, "Searching for [next/document]...\n")
	assert.Contains(t, out, "MATCH: 'next/document' in a/b.tsx\n")
	assert.Contains(t, out, "  Line 3: import X from \"next/document\"\n")
	assert.Contains(t, out, "Error reading c.tsx:")
}

func TestRunScanEndToEnd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "a", "b.tsx"),
		[]byte("one\ntwo\nimport X from \"next/document\"\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "node_modules", "c.tsx"),
		[]byte("import X from \"next/document\"\n"), 0o644))

	cfg, err := config.Parse([]string{"-root", root, "-source", "next/document"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runScan(&buf, cfg))

	out := buf.String()
	assert.Contains(t, out, "MATCH: 'next/document' in a/b.tsx")
	assert.Contains(t, out, "Line 3:")
	assert.NotContains(t, out, "node_modules")
}

func TestRunScanMissingRoot(t *testing.T) {
	cfg, err := config.Parse([]string{"-root", filepath.Join(t.TempDir(), "nope"), "term"})
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, runScan(&buf, cfg))
}
