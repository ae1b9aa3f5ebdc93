package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/awahara/sif/editor"
	"github.com/awahara/sif/preview"
	"github.com/awahara/sif/search"
)

const (
	debounceDuration = 250 * time.Millisecond
	visibleResults   = 5
)

// inputField identifies which text field receives keystrokes.
type inputField int

const (
	fieldQuery inputField = iota
	fieldMask
)

// scope identifies where a search runs.
type scope int

const (
	scopeDirectory scope = iota
	scopeProject
)

// Model holds the interactive search state.
type Model struct {
	// Input fields
	query string
	mask  string
	field inputField

	// Search state
	searcher       *search.Searcher
	searchCancel   context.CancelFunc
	activeSearchID int64
	results        []search.Match
	selected     int
	offset       int // scroll offset for the results list
	searching    bool
	searchErr    error

	// Preview state
	previews   *preview.Loader
	preview    *preview.Preview
	previewErr error

	// Editor
	editor editor.Editor

	// Search scope
	searchScope scope
	gitRoot     string
	currentDir  string

	// UI dimensions
	width  int
	height int
}

// New creates a model that searches under dir by default and under the git
// root when the project scope is active.
func New(dir string) *Model {
	gitRoot, inRepo := search.GetCurrentGitRoot()
	sc := scopeDirectory
	if inRepo {
		sc = scopeProject
	}

	if dir == "" || dir == "." {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	return &Model{
		searcher:    search.NewSearcher(),
		previews:    preview.NewLoader(),
		selected:    -1,
		searchScope: sc,
		gitRoot:     gitRoot,
		currentDir:  dir,
	}
}

// SetEditor sets the editor used when a result is opened.
func (m *Model) SetEditor(ed editor.Editor) {
	m.editor = ed
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startSearchMsg:
		return m.startSearch(msg)

	case search.ResultMsg:
		return m.handleResult(msg)

	case previewLoadedMsg:
		return m.handlePreviewLoaded(msg)
	}

	return m, nil
}

func (m *Model) View() string { return renderView(m) }

// searchDir resolves the directory for the active scope.
func (m *Model) searchDir() string {
	if m.searchScope == scopeProject && m.gitRoot != "" {
		return m.gitRoot
	}
	return m.currentDir
}

// absolutePath turns a root-relative match path into one the preview loader
// and editor can open.
func (m *Model) absolutePath(rel string) string {
	return filepath.Join(m.searchDir(), filepath.FromSlash(rel))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.searchCancel != nil {
			m.searchCancel()
		}
		return m, tea.Quit

	case "tab":
		if m.field == fieldQuery {
			m.field = fieldMask
		} else {
			m.field = fieldQuery
		}
		return m, nil

	case "alt+p":
		if m.gitRoot != "" && m.searchScope != scopeProject {
			m.searchScope = scopeProject
			return m, m.triggerSearch()
		}
		return m, nil

	case "alt+d":
		if m.searchScope != scopeDirectory {
			m.searchScope = scopeDirectory
			return m, m.triggerSearch()
		}
		return m, nil

	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
			m.adjustScroll()
			return m, m.loadPreview()
		}
		return m, nil

	case "down", "ctrl+n":
		if m.selected < len(m.results)-1 {
			m.selected++
			m.adjustScroll()
			return m, m.loadPreview()
		}
		return m, nil

	case "enter":
		if m.selected >= 0 && m.selected < len(m.results) {
			hit := m.results[m.selected]
			file := m.absolutePath(hit.File)
			if err := editor.OpenFile(m.editor, file, hit.Line, hit.Column); err == nil {
				return m, tea.Quit
			}
		}
		return m, nil

	default:
		return m.handleTextInput(msg)
	}
}

// handleTextInput appends or deletes characters in the active field.
func (m *Model) handleTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := &m.query
	if m.field == fieldMask {
		field = &m.mask
	}

	switch msg.String() {
	case "backspace":
		if len(*field) == 0 {
			return m, nil
		}
		*field = (*field)[:len(*field)-1]
	case " ":
		*field += " "
	default:
		if msg.Alt || len(msg.Runes) == 0 {
			return m, nil
		}
		*field += string(msg.Runes)
	}

	return m, m.triggerSearch()
}

// startSearchMsg is sent after the debounce interval.
type startSearchMsg struct {
	query string
	mask  string
}

// triggerSearch cancels any running search and schedules a new one.
func (m *Model) triggerSearch() tea.Cmd {
	if m.searchCancel != nil {
		m.searchCancel()
		m.searchCancel = nil
	}

	m.selected = -1
	m.offset = 0
	m.preview = nil
	m.previewErr = nil

	if m.query == "" {
		m.results = nil
		m.searching = false
		m.searchErr = nil
		return nil
	}

	query, mask := m.query, m.mask
	return tea.Tick(debounceDuration, func(time.Time) tea.Msg {
		return startSearchMsg{query: query, mask: mask}
	})
}

// startSearch kicks off the scan once the debounce fires, unless the input
// changed in the meantime.
func (m *Model) startSearch(msg startSearchMsg) (tea.Model, tea.Cmd) {
	if m.query != msg.query || m.mask != msg.mask {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.searchCancel = cancel
	m.searching = true
	m.searchErr = nil

	dir := m.searchDir()
	id, results := m.searcher.Search(ctx, msg.query, msg.mask, dir)
	m.activeSearchID = id
	return m, func() tea.Msg {
		return <-results
	}
}

func (m *Model) handleResult(msg search.ResultMsg) (tea.Model, tea.Cmd) {
	if msg.SearchID != m.activeSearchID {
		// Cancelled or superseded search; a newer one owns the state.
		return m, nil
	}

	m.searching = false
	m.searchCancel = nil

	if msg.Error != nil {
		m.searchErr = msg.Error
		m.results = nil
		return m, nil
	}

	m.results = msg.Results
	m.searchErr = nil

	if len(m.results) > 0 && m.selected < 0 {
		m.selected = 0
		m.offset = 0
		return m, m.loadPreview()
	}
	return m, nil
}

// adjustScroll keeps the selected result inside the visible window.
func (m *Model) adjustScroll() {
	if len(m.results) <= visibleResults {
		m.offset = 0
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visibleResults {
		m.offset = m.selected - visibleResults + 1
	}
	if max := len(m.results) - visibleResults; m.offset > max {
		m.offset = max
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// previewLoadedMsg is sent when a preview is ready.
type previewLoadedMsg struct {
	preview *preview.Preview
	err     error
}

func (m *Model) loadPreview() tea.Cmd {
	if m.selected < 0 || m.selected >= len(m.results) {
		return nil
	}
	hit := m.results[m.selected]
	file := m.absolutePath(hit.File)
	return func() tea.Msg {
		p, err := m.previews.Load(file, hit.Line)
		return previewLoadedMsg{preview: p, err: err}
	}
}

func (m *Model) handlePreviewLoaded(msg previewLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.previewErr = msg.err
		m.preview = nil
	} else {
		m.preview = msg.preview
		m.previewErr = nil
	}
	return m, nil
}
