// Package panel renders the entry detail pane of the journal browser.
package panel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/runner/tea/internal/theme"
)

// Model renders an information panel with a title and body lines.
type Model struct {
	title      string
	lines      []string
	width      int
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	bodyStyle  lipgloss.Style
}

// New returns a panel model with sensible defaults.
func New() Model {
	return Model{
		frameStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().Bold(true),
		bodyStyle:  lipgloss.NewStyle(),
	}
}

// SetContent updates the panel title and body lines.
func (m *Model) SetContent(title string, lines []string) {
	m.title = title
	m.lines = lines
}

// SetWidth bounds body lines; zero disables wrapping.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.lines = nil
}

// Title is the current panel title.
func (m Model) Title() string { return m.title }

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	for _, line := range m.lines {
		if m.width > 0 {
			line = wordwrap.String(line, m.width)
		}
		content = append(content, m.bodyStyle.Render(line))
	}
	view := m.frameStyle.Render(strings.Join(content, "\n"))
	height := strings.Count(view, "\n") + 1
	return view, height
}

// EntryLines lays out e for the detail pane. Responses follow question
// order; answers to questions that no longer exist come last, by id.
func EntryLines(e *entry.Entry, questions []entry.Question, loc *time.Location, th theme.EntryTheme) []string {
	if e == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	meta := fmt.Sprintf("%s · %s · %s", e.DateLabel, e.Category.Label(), e.Time(loc).Format("Mon Jan 2 15:04"))
	lines := []string{th.Meta.Render(meta)}

	var flags []string
	if e.IsPrivate {
		flags = append(flags, "private")
	}
	if e.IsFavorite {
		flags = append(flags, "favorite")
	}
	if e.IsTrashed {
		flags = append(flags, "trashed")
	}
	if len(flags) > 0 {
		lines = append(lines, th.Flag.Render(strings.Join(flags, " ")))
	}

	if e.Mood != "" {
		lines = append(lines, "Mood: "+e.Mood)
	}
	if e.Location != "" {
		lines = append(lines, "Location: "+e.Location)
	}
	if e.Weather != nil {
		lines = append(lines, fmt.Sprintf("Weather: %s %.0f°", e.Weather.Condition, e.Weather.Temp))
	}
	if len(e.Tags) > 0 {
		lines = append(lines, "Tags: #"+strings.Join(e.Tags, " #"))
	}
	if n := len(e.AllPhotos()); n > 0 {
		lines = append(lines, fmt.Sprintf("Photos: %d", n))
	}

	if e.Mode() == entry.Free {
		if text := strings.TrimSpace(e.FreeTextContent); text != "" {
			lines = append(lines, "", th.Answer.Render(text))
		}
		return lines
	}

	seen := make(map[string]bool, len(e.Responses))
	for _, q := range questions {
		answer, ok := e.Responses[q.ID]
		seen[q.ID] = true
		if !ok || strings.TrimSpace(answer) == "" {
			continue
		}
		lines = append(lines, "", th.Question.Render(q.Text), th.Answer.Render(answer))
	}
	var orphans []string
	for id, answer := range e.Responses {
		if !seen[id] && strings.TrimSpace(answer) != "" {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		lines = append(lines, "", th.Question.Render(id), th.Answer.Render(e.Responses[id]))
	}
	return lines
}
