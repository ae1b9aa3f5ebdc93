package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/awahara/sif/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	scopeActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("62")).
				Bold(true).
				Padding(0, 1)

	scopeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Background(lipgloss.Color("236")).
			Bold(true)

	fileInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			PaddingLeft(1)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	previewHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Bold(true)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(6).
			Align(lipgloss.Right)

	hitLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// renderView renders the entire UI.
func renderView(m *Model) string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	headerHeight := 4
	previewHeight := m.height - headerHeight - visibleResults - 2
	if previewHeight < 5 {
		previewHeight = 5
	}

	sections := []string{
		renderHeader(m),
		renderResults(m),
		renderPreview(m, previewHeight),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the query and mask inputs, the scope tabs, and the
// status line.
func renderHeader(m *Model) string {
	query := m.query
	if m.field == fieldQuery {
		query += "█"
	}
	mask := m.mask
	if m.field == fieldMask {
		mask += "█"
	} else if mask == "" {
		mask = "*"
	}

	directoryTab := scopeStyle.Render("In Directory")
	if m.searchScope == scopeDirectory {
		directoryTab = scopeActiveStyle.Render("In Directory")
	}
	tabs := directoryTab
	if m.gitRoot != "" {
		projectTab := scopeStyle.Render("In Project")
		if m.searchScope == scopeProject {
			projectTab = scopeActiveStyle.Render("In Project")
		}
		tabs = lipgloss.JoinHorizontal(lipgloss.Left, projectTab, " ", directoryTab)
	}

	inputLine := lipgloss.JoinHorizontal(lipgloss.Left,
		promptStyle.Render("Search "),
		inputStyle.Render(query),
		"  ",
		labelStyle.Render("File mask: "),
		inputStyle.Render(mask),
		"  ",
		tabs,
	)
	statusLine := labelStyle.Render(renderStatus(m))

	header := lipgloss.JoinVertical(lipgloss.Left, inputLine, statusLine)
	return headerStyle.Width(m.width - 2).Render(header)
}

func renderStatus(m *Model) string {
	if m.searching {
		return "Searching..."
	}
	if m.searchErr != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %s", m.searchErr))
	}
	if len(m.results) == 0 {
		if m.query == "" {
			return "Type to search..."
		}
		return "No matches found"
	}

	files := make(map[string]struct{})
	for _, hit := range m.results {
		files[hit.File] = struct{}{}
	}
	if len(files) == 1 {
		return fmt.Sprintf("%d matches in 1 file", len(m.results))
	}
	return fmt.Sprintf("%d matches in %d files", len(m.results), len(files))
}

// renderResults renders the visible slice of the results list.
func renderResults(m *Model) string {
	if len(m.results) == 0 {
		return ""
	}

	width := m.width - 4
	end := m.offset + visibleResults
	if end > len(m.results) {
		end = len(m.results)
	}

	var lines []string
	for i := m.offset; i < end; i++ {
		line := formatResult(m, m.results[i], width)
		if i == m.selected {
			line = selectedStyle.Render(line)
		} else {
			line = resultStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// formatResult lays out one result as "snippet … filename line".
func formatResult(m *Model, hit search.Match, width int) string {
	fileInfo := fmt.Sprintf("%s:%d", path.Base(hit.File), hit.Line)

	infoWidth := 30
	if infoWidth > width/3 {
		infoWidth = width / 3
	}
	codeWidth := width - infoWidth
	if codeWidth < 10 {
		codeWidth = 10
	}

	snippet := highlightTerm(hit.Term, hit.Text, codeWidth)
	code := lipgloss.NewStyle().Width(codeWidth).MaxHeight(1).Render(snippet)
	info := fileInfoStyle.Width(infoWidth).Align(lipgloss.Right).Render(fileInfo)
	return lipgloss.JoinHorizontal(lipgloss.Left, code, info)
}

// highlightTerm emphasizes occurrences of term in a truncated snippet.
func highlightTerm(term, text string, width int) string {
	text = truncate(strings.TrimSpace(text), width)
	if term == "" || !strings.Contains(text, term) {
		return text
	}
	parts := strings.Split(text, term)
	return strings.Join(parts, highlightStyle.Render(term))
}

// renderPreview renders the preview pane for the selected result.
func renderPreview(m *Model, height int) string {
	box := previewStyle.Width(m.width - 2)

	if m.previewErr != nil {
		return box.Render(errorStyle.Render(fmt.Sprintf("Preview error: %s", m.previewErr)))
	}
	if m.preview == nil {
		return box.Render(labelStyle.Render("No preview"))
	}

	p := m.preview
	header := previewHeaderStyle.Render(fmt.Sprintf("%s:%d", p.File, p.StartLine+p.HitLine-1))

	maxLines := height - 3 // border and header
	if maxLines < 1 {
		maxLines = 1
	}

	lines := []string{header}
	for i, text := range p.Lines {
		if i >= maxLines {
			break
		}
		num := lineNumberStyle.Render(fmt.Sprintf("%d", p.StartLine+i))
		text = truncate(text, m.width-12)
		row := num + " " + text
		if i+1 == p.HitLine {
			row = num + " " + hitLineStyle.Render(text)
		}
		lines = append(lines, row)
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// truncate bounds s to max display bytes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
