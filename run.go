package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/awahara/sif/config"
	"github.com/awahara/sif/search"
)

// runScan performs a single scan and prints the report. A completed
// traversal exits zero whether or not anything matched; per-file read
// failures are part of the report, not an error.
func runScan(w io.Writer, cfg *config.Config) error {
	scanner, err := search.New(cfg.Root, cfg.Spec)
	if err != nil {
		return err
	}

	report, err := scanner.Run(context.Background())
	if err != nil {
		return err
	}

	printReport(w, cfg.Spec.Terms, report)
	log.Printf("scanned %d files: %d matches, %d read failures",
		report.FilesScanned, len(report.Matches), len(report.Failures))
	return nil
}

// printReport writes the classic line-oriented report: a MATCH header for
// each file-level hit, indented line records below it, read failures last.
func printReport(w io.Writer, terms []string, report *search.Report) {
	fmt.Fprintf(w, "Searching for %v...\n", terms)
	for _, m := range report.Matches {
		if m.IsFileLevel() {
			fmt.Fprintf(w, "MATCH: '%s' in %s\n", m.Term, m.File)
			continue
		}
		fmt.Fprintf(w, "  Line %d: %s\n", m.Line, m.Text)
	}
	for _, fe := range report.Failures {
		fmt.Fprintf(w, "Error reading %s: %v\n", fe.File, fe.Err)
	}
}
