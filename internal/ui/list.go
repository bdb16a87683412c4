package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/state"
)

// syncSelection keeps the highlighted recipe stable across list changes.
func (m *Model) syncSelection() {
	list := m.snapshot.Recipes
	if len(list) == 0 {
		m.selectedRow = 0
		m.selectedID = 0
		if m.snapshot.Detail == nil {
			m.focusedPane = 0
		}
		return
	}

	if m.selectedID > 0 {
		for i, r := range list {
			if r.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}

	// Recipe gone or list replaced: clamp to valid range
	if m.selectedRow >= len(list) {
		m.selectedRow = len(list) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.selectedID = list[m.selectedRow].ID
}

// selectedRecipe returns the highlighted list entry.
func (m Model) selectedRecipe() (recipes.Recipe, bool) {
	list := m.snapshot.Recipes
	if m.selectedRow < 0 || m.selectedRow >= len(list) {
		return recipes.Recipe{}, false
	}
	return list[m.selectedRow], true
}

// currentRecipe is the recipe actions apply to: the open detail if any,
// otherwise the highlighted entry.
func (m Model) currentRecipe() (recipes.Recipe, bool) {
	if m.snapshot.Detail != nil {
		return *m.snapshot.Detail, true
	}
	return m.selectedRecipe()
}

// handleListKey moves the selection.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Recipes)
	if count == 0 {
		return m, nil
	}

	page := max(m.listHeight(), 1)
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow = min(m.selectedRow+page, count-1)
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow = max(m.selectedRow-page, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = min(m.selectedRow+page/2, count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = max(m.selectedRow-page/2, 0)
	default:
		return m, nil
	}

	m.selectedID = m.snapshot.Recipes[m.selectedRow].ID
	m.updateDetailViewport()
	return m, nil
}

// contentHeight is what is left of the terminal below the header and the
// command bar.
func (m Model) contentHeight() int {
	chrome := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderCommandBar())
	return max(m.height-chrome, 0)
}

// listHeight is the number of rows visible inside the list box.
func (m Model) listHeight() int {
	return max(m.contentHeight()-2, 0) // top and bottom borders
}

// renderRecipes renders the list with the detail pane beside it (split) or
// the list and detail one at a time.
func (m Model) renderRecipes() string {
	styles := m.theme.Styles()
	contentHeight := m.contentHeight()

	if m.snapshot.Loading && len(m.snapshot.Recipes) == 0 {
		msg := styles.MutedText.Render(m.spinner.View() + " Loading recipes...")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if len(m.snapshot.Recipes) == 0 && m.snapshot.Detail == nil {
		lines := []string{
			styles.Text.Bold(true).Render("No recipes found."),
			styles.MutedText.Render(emptyStateHint(m.snapshot.Mode)),
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, lines...))
	}

	if !m.split {
		if m.snapshot.Detail != nil {
			return m.renderDetailPane(m.width, contentHeight, true)
		}
		return m.renderListPane(m.width, contentHeight, true)
	}

	// Extra wide (>= 160): 30% list, 70% detail
	// Default: 40% list, 60% detail
	listWidth := m.width * 40 / 100
	if m.width >= 160 {
		listWidth = m.width * 30 / 100
	}
	detailWidth := m.width - listWidth

	listPane := m.renderListPane(listWidth, contentHeight, m.focusedPane == 0)
	detailPane := m.renderDetailPane(detailWidth, contentHeight, m.focusedPane == 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) renderListPane(width, height int, focused bool) string {
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	content := m.renderRecipeRows(width-2, height-2, bgColor)
	return m.renderTitledBox(listTitle(m.snapshot), content, width, height, focused)
}

// renderRecipeRows renders the visible window of rows around the selection.
func (m Model) renderRecipeRows(width, rows int, bgColor string) string {
	list := m.snapshot.Recipes
	if len(list) == 0 || rows <= 0 {
		return ""
	}

	start, end := visibleWindow(len(list), m.selectedRow, rows)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == m.selectedRow
		rowBg := bgColor
		if selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatRecipeRow(list[i], width, rowBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			MaxWidth(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatRecipeRow formats one list row: "#ID Title · Meal type · Cuisine".
// The row never exceeds width: the title shrinks first, down to a few cells,
// then the tags are cut. Selected rows use SelectionText for every part to
// keep contrast.
func (m Model) formatRecipeRow(r recipes.Recipe, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", r.ID)
	tagWidth := 0
	for _, tag := range recipeTags(r) {
		tagWidth += lipgloss.Width(" · ") + lipgloss.Width(tag)
	}
	avail := max(width-lipgloss.Width(idStr)-1, 0)
	titleWidth := max(avail-tagWidth, min(avail, 10))

	var idStyle, titleStyle, sepStyle, mealStyle, cuisineStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, titleStyle, sepStyle, mealStyle, cuisineStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		titleStyle = styles.Text
		sepStyle = styles.FaintText
		mealStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.MealTypeColor(r.MealType)))
		cuisineStyle = styles.InfoText
	}

	out := bg.Render(idStr, idStyle) + bg.Space() + bg.Render(truncate(r.DisplayTitle(), titleWidth), titleStyle)
	if r.MealType != "" {
		out += bg.Render(" · ", sepStyle) + bg.Render(r.MealType, mealStyle)
	}
	if r.Cuisine != "" {
		out += bg.Render(" · ", sepStyle) + bg.Render(r.Cuisine, cuisineStyle)
	}
	return ansi.Truncate(out, max(width, 0), "")
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = ansi.Truncate(contentLines[i], innerWidth, "")
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// listTitle names the list box after the display mode.
func listTitle(snap state.Snapshot) string {
	return fmt.Sprintf("%s (%d)", snap.Mode.Label(), len(snap.Recipes))
}

// emptyStateHint explains an empty list for the current mode.
func emptyStateHint(mode state.Mode) string {
	switch mode.Kind() {
	case state.ModeSearched:
		return "Try a different search term or clear your search (x) to see all recipes."
	case state.ModeFiltered:
		return "Try different filter options or clear your filters (f, c) to see all recipes."
	default:
		return "Add your first recipe to get started! (n)"
	}
}

// recipeTags returns the non-empty meal type and cuisine.
func recipeTags(r recipes.Recipe) []string {
	var tags []string
	if r.MealType != "" {
		tags = append(tags, r.MealType)
	}
	if r.Cuisine != "" {
		tags = append(tags, r.Cuisine)
	}
	return tags
}

// visibleWindow returns the [start, end) slice of a list of n rows that keeps
// selected on screen when only rows fit.
func visibleWindow(n, selected, rows int) (int, int) {
	if rows <= 0 || n <= 0 {
		return 0, 0
	}
	if n <= rows {
		return 0, n
	}
	start := selected - rows/2
	start = max(start, 0)
	start = min(start, n-rows)
	return start, start + rows
}
