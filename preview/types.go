package preview

// Preview represents a window of file lines around a hit line.
type Preview struct {
	File      string
	StartLine int // 1-based line number of Lines[0] in the file
	Lines     []string
	HitLine   int // hit position relative to StartLine, 1-based
}
