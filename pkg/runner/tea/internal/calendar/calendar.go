// Package calendar renders the activity calendar of the journal browser.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

// Options controls calendar styling.
type Options struct {
	HeaderStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
	EntryStyle  lipgloss.Style
	ShowHeader  bool
}

// Render produces a multi-line calendar for the month containing today.
// activity is keyed by YYYY-MM-DD; days with a count are highlighted.
func Render(today time.Time, activity map[string]int, opts Options) string {
	if today.IsZero() {
		return ""
	}

	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	daysInMonth := DaysIn(today)

	var lines []string
	if opts.ShowHeader {
		title := first.Format("January 2006")
		pad := (20 - len(title)) / 2
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Repeat(" ", pad)+title))
		lines = append(lines, opts.HeaderStyle.Render("Su Mo Tu We Th Fr Sa"))
	}

	startOffset := int(first.Weekday())
	rows := (startOffset + daysInMonth + 6) / 7

	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			day := row*7 + col - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			key := first.AddDate(0, 0, day-1).Format("2006-01-02")
			cells = append(cells, renderDay(day, activity[key] > 0, day == today.Day(), opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(day int, hasEntry, isToday bool, opts Options) string {
	style := opts.EmptyStyle
	if hasEntry {
		style = opts.EntryStyle
	}
	if isToday {
		style = style.Underline(true)
	}
	return style.Render(fmt.Sprintf("%2d", day))
}

// DaysIn is the number of days in t's month.
func DaysIn(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}
