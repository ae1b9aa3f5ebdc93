package config

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/awahara/sif/editor"
	"github.com/awahara/sif/search"
)

// Config holds the fully resolved invocation options.
type Config struct {
	Root    string
	Spec    search.Spec
	Editor  editor.Editor
	LogFile string
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse builds a Config from argv (without the program name). Positional
// arguments are the search terms; with no terms the caller starts the TUI.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("sif", flag.ContinueOnError)

	var (
		root       = fs.String("root", ".", "directory to search")
		mask       = fs.String("mask", "", `file mask glob, e.g. "**/*.go"`)
		editorFlag = fs.String("editor", "", "editor to use (cursor or code)")
		logFile    = fs.String("log", "", "write a debug log to this file")
		source     = fs.Bool("source", false, "restrict to JS/TS source files (.ts .tsx .js .jsx)")

		ignoreDirs stringList
		exts       stringList
		ignoreExts stringList
	)
	fs.Var(&ignoreDirs, "ignore-dir", "directory name to prune (repeatable)")
	fs.Var(&exts, "ext", "extension allow-list entry (repeatable)")
	fs.Var(&ignoreExts, "ignore-ext", "extension deny-list entry (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	exclusive := 0
	for _, set := range []bool{len(exts) > 0, len(ignoreExts) > 0, *source} {
		if set {
			exclusive++
		}
	}
	if exclusive > 1 {
		return nil, errors.New("-ext, -ignore-ext and -source are mutually exclusive")
	}

	spec := search.DefaultSpec(fs.Args()...)
	switch {
	case *source:
		spec.Policy = search.PolicyAllow
		spec.Extensions = search.SourceExtensions
	case len(exts) > 0:
		spec.Policy = search.PolicyAllow
		spec.Extensions = normalizeExts(exts)
	case len(ignoreExts) > 0:
		spec.Extensions = normalizeExts(ignoreExts)
	}
	if len(ignoreDirs) > 0 {
		spec.IgnoreDirs = ignoreDirs
	}
	spec.Mask = *mask

	cfg := &Config{
		Root:    *root,
		Spec:    spec,
		LogFile: *logFile,
	}

	switch {
	case *editorFlag != "":
		cfg.Editor = editor.Editor(*editorFlag)
	case os.Getenv("SIF_EDITOR") != "":
		cfg.Editor = editor.Editor(os.Getenv("SIF_EDITOR"))
	default:
		// The editor is only needed by the TUI; a detection failure
		// surfaces there, not here.
		ed, _ := editor.DetectEditor()
		cfg.Editor = ed
	}

	return cfg, nil
}

// normalizeExts ensures a leading dot so "go" and ".go" are equivalent.
func normalizeExts(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out[i] = strings.ToLower(e)
	}
	return out
}
