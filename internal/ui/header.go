package ui

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/state"
)

// barSegment is one piece of a one-line bar. Segments with drop 0 always
// stay; the others are dropped, highest drop first, until the bar fits.
type barSegment struct {
	text string
	drop int
}

// fitBar joins segments with sep into a single line no wider than width.
func fitBar(segments []barSegment, sep string, width int) string {
	segs := slices.Clone(segments)
	for {
		parts := make([]string, len(segs))
		for i, seg := range segs {
			parts[i] = seg.text
		}
		line := strings.Join(parts, sep)
		if lipgloss.Width(line) <= width {
			return line
		}
		victim := -1
		for i, seg := range segs {
			if seg.drop > 0 && (victim < 0 || seg.drop >= segs[victim].drop) {
				victim = i
			}
		}
		if victim < 0 {
			return ansi.Truncate(line, max(width, 0), "")
		}
		segs = slices.Delete(segs, victim, victim+1)
	}
}

// renderHeader renders the status bar: logo, backend, count, mode, activity
// and the last error or notice. It is always exactly one line; the error
// outranks everything but the logo.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().On(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	segs := []barSegment{{text: bg.Render("ladle", styles.Brand)}}
	if host := m.apiHost(); host != "" {
		segs = append(segs, barSegment{text: bg.Render(host, styles.FaintText), drop: 6})
	}
	segs = append(segs,
		barSegment{
			text: bg.Render("Recipes:", styles.MutedText) + bg.Space() +
				bg.Render(fmt.Sprintf("%d", len(m.snapshot.Recipes)), styles.Text),
			drop: 1,
		},
		barSegment{
			text: bg.Render(truncate(m.snapshot.Mode.Label(), 40), modeStyle(styles, m.snapshot.Mode)),
			drop: 2,
		},
	)
	if m.snapshot.Loading {
		segs = append(segs, barSegment{
			text: bg.Render(m.spinner.View(), styles.WarningText) + bg.Space() + bg.Render("Loading", styles.WarningText),
			drop: 3,
		})
	}

	switch {
	case m.snapshot.Error != "":
		segs = append(segs, barSegment{text: bg.Render("● "+m.snapshot.Error, styles.DangerText)})
		if cause := errorSummary(m.snapshot.Cause); cause != "" {
			segs = append(segs, barSegment{text: bg.Render(truncate(cause, 40), styles.MutedText), drop: 5})
		}
	case m.notice != "":
		segs = append(segs, barSegment{text: bg.Render(m.notice, styles.SuccessText)})
	case !m.snapshot.LastUpdated.IsZero():
		segs = append(segs, barSegment{text: bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText), drop: 5})
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(fitBar(segs, bg.Spaces(2), m.width))
}

// renderCommandBar renders the context-sensitive key hints, or the search
// prompt while searching. Low-priority hints go first on narrow terminals.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().On(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	inner := max(m.width-2, 0) // Header style pads one cell each side

	if m.search.active {
		segs := []barSegment{
			{text: bg.Render("/", styles.AccentText) + bg.Space() + m.search.input.View()},
			{text: bg.Render("enter", styles.AccentText) + bg.Sep(":") + bg.Render("Search", styles.MutedText), drop: 1},
			{text: bg.Render("esc", styles.AccentText) + bg.Sep(":") + bg.Render("Cancel", styles.MutedText), drop: 2},
		}
		return styles.Header.Width(m.width).Render(fitBar(segs, bg.Spaces(2), inner))
	}

	type hint struct {
		key, desc string
		drop      int
	}
	var hints []hint

	switch m.currentView {
	case ViewLogs:
		hints = []hint{
			{"j/k", "Scroll", 1},
			{"r", "Reload", 0},
			{"w", levelLabel(m.logState.minLevel), 0},
			{"L", "Recipes", 0},
			{"?", "More", 0},
		}
	default:
		hints = []hint{
			{"/", "Search", 0},
			{"f", "Filters", 0},
			{"n", "New", 0},
			{"e", "Edit", 1},
			{"d", "Delete", 2},
			{"enter", "Show", 3},
			{"r", "Refresh", 4},
			{"L", "Log", 5},
			{"?", "More", 0},
		}
		if m.snapshot.Mode.Kind() == state.ModeSearched {
			hints = append([]hint{{"x", "Clear search", 0}}, hints...)
		}
	}

	colon := bg.Sep(":")
	segs := make([]barSegment, 0, len(hints)+1)
	for _, h := range hints {
		segs = append(segs, barSegment{
			text: bg.Render(h.key, styles.AccentText) + colon + bg.Render(h.desc, styles.MutedText),
			drop: h.drop,
		})
	}
	segs = append(segs, barSegment{
		text: bg.Render("T", styles.AccentText) + colon + bg.Render(m.theme.Name, styles.FaintText),
		drop: 6,
	})

	return styles.Header.Width(m.width).Render(fitBar(segs, bg.Spaces(2), inner))
}

// apiHost returns the configured backend host for display.
func (m Model) apiHost() string {
	if m.config == nil {
		return ""
	}
	u, err := url.Parse(m.config.APIURL)
	if err != nil || u.Host == "" {
		return m.config.APIURL
	}
	return u.Host
}

func modeStyle(styles Styles, mode state.Mode) lipgloss.Style {
	switch mode.Kind() {
	case state.ModeSearched:
		return styles.AccentText.Bold(true)
	case state.ModeFiltered:
		return styles.InfoText.Bold(true)
	default:
		return styles.Text
	}
}

// errorSummary condenses a controller failure cause for the status bar.
func errorSummary(err error) string {
	if err == nil {
		return ""
	}
	if recipes.IsNetwork(err) {
		return "backend unreachable"
	}
	if status := recipes.StatusCode(err); status > 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	return err.Error()
}
