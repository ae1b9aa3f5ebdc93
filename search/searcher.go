package search

import "context"

// Searcher runs scans on behalf of the TUI. Each search delivers a single
// ResultMsg on its channel, tagged with a monotonically increasing ID so a
// consumer can discard messages from superseded searches.
type Searcher struct {
	searchID int64
}

// NewSearcher creates a new Searcher instance.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// ResultMsg carries the outcome of one search. A zero SearchID means the
// search was cancelled before producing a result.
type ResultMsg struct {
	SearchID int64
	Results  []Match
	Error    error
}

// Search scans dir for query, honoring the optional file mask. The scan runs
// in a goroutine; cancel ctx to abandon it. Only line-level matches are
// delivered. The returned ID tags the eventual ResultMsg so the consumer can
// drop results of searches it has since superseded.
func (s *Searcher) Search(ctx context.Context, query, mask, dir string) (int64, <-chan ResultMsg) {
	s.searchID++
	id := s.searchID
	resultChan := make(chan ResultMsg, 1)

	spec := DefaultSpec(query)
	spec.Mask = mask

	go func() {
		defer close(resultChan)

		scanner, err := New(dir, spec)
		if err != nil {
			resultChan <- ResultMsg{SearchID: id, Error: err}
			return
		}

		report, err := scanner.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// Superseded search; nobody is listening for this result.
				return
			}
			resultChan <- ResultMsg{SearchID: id, Error: err}
			return
		}

		resultChan <- ResultMsg{SearchID: id, Results: report.LineMatches()}
	}()

	return id, resultChan
}
