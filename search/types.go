package search

import "fmt"

// Match is a single reported occurrence of a term. A Line of 0 marks the
// file-level record emitted when the term occurs anywhere in the file's
// content; line-level records follow with 1-based line and column.
type Match struct {
	File   string // slash-separated path relative to the scan root
	Term   string
	Line   int
	Column int    // 1-based byte offset of the term within the line
	Text   string // trimmed, length-bounded preview of the line
}

// IsFileLevel reports whether m is a whole-file containment record rather
// than a line-level one.
func (m Match) IsFileLevel() bool { return m.Line == 0 }

// FileError records a file that could not be read during a scan. Read
// failures are isolated per file and never abort the traversal.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// Report is the outcome of one scan invocation.
type Report struct {
	Matches      []Match
	Failures     []FileError
	FilesScanned int
}

// LineMatches returns only the line-level records, which is what interactive
// consumers care about.
func (r *Report) LineMatches() []Match {
	var out []Match
	for _, m := range r.Matches {
		if !m.IsFileLevel() {
			out = append(out, m)
		}
	}
	return out
}
