package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	// Help content
	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"ctrl+d/u", "Half page down/up"},
				{"enter", "Show recipe"},
				{"tab", "Switch list/detail"},
				{"esc", "Close detail"},
			},
		},
		{
			title: "Recipes",
			items: []helpItem{
				{"n", "New recipe"},
				{"e", "Edit recipe"},
				{"d", "Delete recipe"},
				{"y", "Copy to clipboard"},
				{"r", "Refresh"},
			},
		},
		{
			title: "Search & Filter",
			items: []helpItem{
				{"/", "Search"},
				{"x", "Clear search"},
				{"f", "Filter panel"},
				{"space/a/c", "Select/Apply/Clear"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"L", "Diagnostics log"},
				{"w", "Log level (in log)"},
				{"v", "Toggle split detail"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	// Build help content
	var b strings.Builder

	// Title
	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		// Section title
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			// Key
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			// Description
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	// Footer
	footer := help.New()
	footer.Styles.ShortKey = styles.AccentText
	footer.Styles.ShortDesc = styles.MutedText
	footer.Styles.ShortSeparator = styles.FaintText
	b.WriteString("\n")
	b.WriteString(footer.ShortHelpView(m.keys.ShortHelp()))

	return renderModalBox(m.theme, b.String(), 44, m.width, m.height)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
