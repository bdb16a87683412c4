package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ladle/internal/recipes"
)

// detailRecipe returns the recipe shown in the detail pane: the opened one,
// or the highlighted entry in split mode.
func (m Model) detailRecipe() (recipes.Recipe, bool) {
	if m.snapshot.Detail != nil {
		return *m.snapshot.Detail, true
	}
	if m.split {
		return m.selectedRecipe()
	}
	return recipes.Recipe{}, false
}

// detailWidth returns the outer width of the detail box.
func (m Model) detailWidth() int {
	if !m.split {
		return m.width
	}
	listWidth := m.width * 40 / 100
	if m.width >= 160 {
		listWidth = m.width * 30 / 100
	}
	return m.width - listWidth
}

// updateDetailViewport sizes the viewport and re-renders its content.
func (m *Model) updateDetailViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	width := max(m.detailWidth()-4, 10)   // borders + padding
	height := max(m.contentHeight()-2, 1) // borders
	if m.detailViewport.Width == 0 {
		m.detailViewport = viewport.New(width, height)
	}
	m.detailViewport.Width = width
	m.detailViewport.Height = height

	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 || !m.split {
		bgColor = m.theme.FocusBg
	}
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(bgColor))

	r, ok := m.detailRecipe()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(r, width, bgColor))
}

// renderDetailPane renders the detail box.
func (m Model) renderDetailPane(width, height int, focused bool) string {
	title := "Details"
	content := ""
	if r, ok := m.detailRecipe(); ok {
		title = r.DisplayTitle()
		content = m.detailViewport.View()
		content = lipgloss.NewStyle().PaddingLeft(1).Render(content)
	} else {
		bgColor := m.theme.SurfaceAlt
		if focused {
			bgColor = m.theme.FocusBg
		}
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render("Select a recipe")
	}
	return m.renderTitledBox(title, content, width, height, focused)
}

// handleDetailKey scrolls the detail viewport.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.detailViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.detailViewport.PageUp()
	}
	return m, nil
}

// renderDetailContent renders a recipe's sections for the viewport.
func (m Model) renderDetailContent(r recipes.Recipe, width int, bgColor string) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	wrap := lipgloss.NewStyle().Width(width).Background(lipgloss.Color(bgColor))

	var b strings.Builder

	// Title line with badges
	b.WriteString(bg.Render(r.DisplayTitle(), styles.Text.Bold(true)))
	b.WriteString("\n")
	meta := []string{bg.Render(fmt.Sprintf("#%d", r.ID), styles.MutedText)}
	if r.MealType != "" {
		meta = append(meta, styles.MealTypeStyle(r.MealType).Render(r.MealType))
	}
	if r.Cuisine != "" {
		meta = append(meta, bg.Render(r.Cuisine, styles.InfoText))
	}
	b.WriteString(bg.Join(meta, "  "))
	b.WriteString("\n\n")

	// Ingredients
	b.WriteString(bg.Render("Ingredients", styles.AccentText.Bold(true)))
	b.WriteString("\n")
	items := r.IngredientList()
	if len(items) == 0 {
		b.WriteString(bg.Render("None listed", styles.FaintText))
		b.WriteString("\n")
	}
	for _, item := range items {
		b.WriteString(wrap.Render(bg.Render("• ", styles.FaintText) + bg.Render(item, styles.Text)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Instructions
	b.WriteString(bg.Render("Instructions", styles.AccentText.Bold(true)))
	b.WriteString("\n")
	if strings.TrimSpace(r.Instructions) == "" {
		b.WriteString(bg.Render("None given", styles.FaintText))
		b.WriteString("\n")
	} else {
		for _, line := range strings.Split(strings.TrimSpace(r.Instructions), "\n") {
			b.WriteString(wrap.Render(styles.Text.Background(lipgloss.Color(bgColor)).Render(line)))
			b.WriteString("\n")
		}
	}

	// Server fields this client does not model
	if len(r.Extra) > 0 {
		b.WriteString("\n")
		b.WriteString(bg.Render("Other fields", styles.AccentText.Bold(true)))
		b.WriteString("\n")
		for _, k := range sortedKeys(r.Extra) {
			b.WriteString(bg.Render(k+":", styles.MutedText) + bg.Space() + bg.Render(string(r.Extra[k]), styles.FaintText))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// recipeText is the plain-text form copied to the clipboard.
func recipeText(r recipes.Recipe) string {
	var b strings.Builder
	b.WriteString(r.DisplayTitle())
	b.WriteString("\n")
	if tags := recipeTags(r); len(tags) > 0 {
		b.WriteString(strings.Join(tags, " · "))
		b.WriteString("\n")
	}
	b.WriteString("\nIngredients\n")
	for _, item := range r.IngredientList() {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("\nInstructions\n")
	b.WriteString(strings.TrimSpace(r.Instructions))
	b.WriteString("\n")
	return b.String()
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
