package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the journal browser.
type Theme struct {
	Footer   FooterTheme
	Entry    EntryTheme
	Calendar CalendarTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Mode   lipgloss.Style
}

// EntryTheme styles the entry detail panel.
type EntryTheme struct {
	Title    lipgloss.Style
	Meta     lipgloss.Style
	Question lipgloss.Style
	Answer   lipgloss.Style
	Flag     lipgloss.Style
}

// CalendarTheme styles the activity calendar.
type CalendarTheme struct {
	Header lipgloss.Style
	Empty  lipgloss.Style
	Entry  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	faint := lipgloss.Color("244")

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(faint),
			Mode: lipgloss.NewStyle().
				Foreground(accent).
				Bold(true),
		},
		Entry: EntryTheme{
			Title:    lipgloss.NewStyle().Bold(true),
			Meta:     lipgloss.NewStyle().Foreground(faint),
			Question: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Answer:   lipgloss.NewStyle(),
			Flag:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Calendar: CalendarTheme{
			Header: lipgloss.NewStyle().Foreground(faint),
			Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Entry:  lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true),
		},
	}
}
