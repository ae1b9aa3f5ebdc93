package preview

import (
	"bufio"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	contextBefore = 5
	contextAfter  = 10
	cacheSize     = 128
)

// Loader reads preview windows, caching file lines so that stepping through
// several hits in the same file reads it once.
type Loader struct {
	cache *lru.Cache[string, []string]
}

// NewLoader creates a Loader with an empty cache.
func NewLoader() *Loader {
	cache, _ := lru.New[string, []string](cacheSize)
	return &Loader{cache: cache}
}

// Invalidate drops a cached file, forcing a re-read on the next Load.
func (l *Loader) Invalidate(file string) {
	l.cache.Remove(file)
}

// Load returns a preview window around lineNum (1-based) of file.
func (l *Loader) Load(file string, lineNum int) (*Preview, error) {
	lines, ok := l.cache.Get(file)
	if !ok {
		var err error
		lines, err = readLines(file)
		if err != nil {
			return nil, err
		}
		l.cache.Add(file, lines)
	}

	if len(lines) == 0 {
		return &Preview{File: file, StartLine: 1, HitLine: 1}, nil
	}

	start := lineNum - contextBefore
	if start < 1 {
		start = 1
	}
	end := lineNum + contextAfter
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		start = end
	}

	window := make([]string, 0, end-start+1)
	for i := start - 1; i < end; i++ {
		window = append(window, lines[i])
	}

	return &Preview{
		File:      file,
		StartLine: start,
		Lines:     window,
		HitLine:   lineNum - start + 1,
	}, nil
}

func readLines(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	// Minified assets can carry very long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return lines, nil
}
