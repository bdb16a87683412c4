package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings so they can be handed to
// both lipgloss and BgStyle.
type Theme struct {
	Name string

	Background string // behind overlays
	Surface    string // header and command bar
	SurfaceAlt string // unfocused panes
	FocusBg    string // focused pane

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// MealTypeColors is keyed by lowercase meal type.
	MealTypeColors map[string]string
}

// MealTypeColor returns the badge color for a meal type, or the muted color
// for meal types the palette does not know.
func (t Theme) MealTypeColor(mealType string) string {
	if color, ok := t.MealTypeColors[strings.ToLower(strings.TrimSpace(mealType))]; ok {
		return color
	}
	return t.Muted
}

// Styles builds the text styles for the theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Brand:       fg(t.Warning).Bold(true),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Selected:    fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
		theme:       t,
	}
}

// Styles holds the lipgloss styles views render with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Brand    lipgloss.Style
	Header   lipgloss.Style
	Selected lipgloss.Style

	theme Theme
}

// On returns a copy whose styles all paint the given background, so styled
// runs inside a pane do not punch through to the terminal background.
func (s Styles) On(color string) Styles {
	bg := lipgloss.Color(color)
	out := s
	for _, style := range out.all() {
		*style = style.Background(bg)
	}
	return out
}

func (s *Styles) all() []*lipgloss.Style {
	return []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Brand, &s.Header, &s.Selected,
	}
}

// MealTypeStyle returns the badge style for a meal type.
func (s Styles) MealTypeStyle(mealType string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.MealTypeColor(mealType))).
		Padding(0, 1)
}

// themes is in cycle order; the first entry is the default.
var themes = []Theme{nightfox, kanagawa, slate}

// GetTheme returns the named theme, or the default for unknown names.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the theme name after current, wrapping around.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// https://github.com/EdenEast/nightfox.nvim
var nightfox = Theme{
	Name:          "Nightfox",
	Background:    "#131a24",
	Surface:       "#192330",
	SurfaceAlt:    "#212e3f",
	FocusBg:       "#29394f",
	SelectionBg:   "#2b3b51",
	SelectionText: "#cdcecf",
	Border:        "#39506d",
	BorderFocus:   "#719cd6",
	Text:          "#cdcecf",
	Muted:         "#738091",
	Faint:         "#71839b",
	Accent:        "#719cd6",
	Success:       "#81b29a",
	Warning:       "#dbc074",
	Danger:        "#c94f6d",
	Info:          "#63cdcf",
	MealTypeColors: map[string]string{
		"breakfast": "#dbc074",
		"brunch":    "#f4a261",
		"lunch":     "#81b29a",
		"dinner":    "#719cd6",
		"dessert":   "#d67ad2",
		"snack":     "#63cdcf",
		"drink":     "#9d79d6",
	},
}

// https://github.com/rebelot/kanagawa.nvim
var kanagawa = Theme{
	Name:          "Kanagawa",
	Background:    "#16161D",
	Surface:       "#1F1F28",
	SurfaceAlt:    "#2A2A37",
	FocusBg:       "#2A2A37",
	SelectionBg:   "#2D4F67",
	SelectionText: "#DCD7BA",
	Border:        "#54546D",
	BorderFocus:   "#7E9CD8",
	Text:          "#DCD7BA",
	Muted:         "#C8C093",
	Faint:         "#727169",
	Accent:        "#7E9CD8",
	Success:       "#98BB6C",
	Warning:       "#E6C384",
	Danger:        "#E46876",
	Info:          "#7FB4CA",
	MealTypeColors: map[string]string{
		"breakfast": "#E6C384",
		"brunch":    "#FFA066",
		"lunch":     "#98BB6C",
		"dinner":    "#7E9CD8",
		"dessert":   "#D27E99",
		"snack":     "#7FB4CA",
		"drink":     "#957FB8",
	},
}

// Tailwind slate and sky scales.
var slate = Theme{
	Name:          "Slate",
	Background:    "#020617",
	Surface:       "#0f172a",
	SurfaceAlt:    "#1e293b",
	FocusBg:       "#283548",
	SelectionBg:   "#0284c7",
	SelectionText: "#f8fafc",
	Border:        "#334155",
	BorderFocus:   "#38bdf8",
	Text:          "#f1f5f9",
	Muted:         "#94a3b8",
	Faint:         "#64748b",
	Accent:        "#38bdf8",
	Success:       "#22c55e",
	Warning:       "#f59e0b",
	Danger:        "#ef4444",
	Info:          "#06b6d4",
	MealTypeColors: map[string]string{
		"breakfast": "#f59e0b",
		"brunch":    "#fb923c",
		"lunch":     "#22c55e",
		"dinner":    "#38bdf8",
		"dessert":   "#f472b6",
		"snack":     "#06b6d4",
		"drink":     "#a78bfa",
	},
}
