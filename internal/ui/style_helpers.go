package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// BgStyle paints text runs on a pane background. Lipgloss resets the
// background after every rendered segment, so words are rendered one by one
// and rejoined with spaces that carry the background themselves.
type BgStyle struct {
	bg   lipgloss.Color
	fill lipgloss.Style
}

// NewBgStyle returns a painter for the given hex color.
func NewBgStyle(color string) BgStyle {
	bg := lipgloss.Color(color)
	return BgStyle{bg: bg, fill: lipgloss.NewStyle().Background(bg)}
}

// Render styles text on the background, spaces included.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.Space())
}

// Space is one background-colored space.
func (b BgStyle) Space() string { return b.fill.Render(" ") }

// Spaces is n background-colored spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.fill.Render(strings.Repeat(" ", n))
}

// Sep renders a plain separator on the background.
func (b BgStyle) Sep(sep string) string { return b.fill.Render(sep) }

// Join joins rendered parts with a background-colored separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// truncate shortens s to max display cells, marking the cut with "...".
func truncate(s string, max int) string {
	switch {
	case max <= 0:
		return ""
	case ansi.StringWidth(s) <= max:
		return s
	case max <= 3:
		return ansi.Truncate(s, max, "")
	default:
		return ansi.Truncate(s, max, "...")
	}
}
