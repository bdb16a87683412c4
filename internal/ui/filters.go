package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/state"
)

const (
	columnMealTypes = iota
	columnCuisines
)

const filterColumnRows = 10

// filterActions turns panel decisions into controller commands.
type filterActions struct {
	apply func(recipes.Filters) tea.Cmd
	clear func() tea.Cmd
}

// filterModal is the filter panel overlay: one column of meal types, one of
// cuisines, at most one selection in each.
type filterModal struct {
	panel   *state.Panel
	actions filterActions
	active  recipes.Filters

	column int
	cursor [2]int

	narrow    textinput.Model
	narrowing bool
}

func newFilterModal(panel *state.Panel, mode state.Mode, actions filterActions) *filterModal {
	ti := textinput.New()
	ti.Placeholder = "type to narrow"
	ti.CharLimit = 50
	ti.Width = 24

	f := &filterModal{actions: actions, narrow: ti, active: mode.Filters()}
	f.setPanel(panel)
	return f
}

// setPanel installs the loaded options. The selection mirrors the filter set
// that was active when the panel was opened, even if the options arrive later.
func (f *filterModal) setPanel(panel *state.Panel) {
	f.panel = panel
	f.cursor = [2]int{}
	if panel != nil {
		panel.SelectMealType(f.active.MealType)
		panel.SelectCuisine(f.active.Cuisine)
	}
}

// options returns the focused column's values after narrowing.
func (f *filterModal) options(column int) []string {
	if f.panel == nil {
		return nil
	}
	all := f.panel.MealTypes
	if column == columnCuisines {
		all = f.panel.Cuisines
	}
	if column != f.column {
		return all
	}
	return state.Narrow(all, f.narrow.Value())
}

func (f *filterModal) switchColumn() {
	f.column = 1 - f.column
	f.narrow.SetValue("")
	f.narrowing = false
	f.narrow.Blur()
}

// Update implements Modal.
func (f *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		if f.narrowing {
			f.narrow, cmd = f.narrow.Update(msg)
		}
		return f, cmd, false
	}

	if f.narrowing {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			f.narrow.SetValue("")
			f.narrowing = false
			f.narrow.Blur()
		case key.Matches(keyMsg, keys.Confirm):
			f.narrowing = false
			f.narrow.Blur()
		default:
			var cmd tea.Cmd
			f.narrow, cmd = f.narrow.Update(keyMsg)
			f.cursor[f.column] = 0
			return f, cmd, false
		}
		return f, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return nil, nil, true

	case key.Matches(keyMsg, keys.Search):
		f.narrowing = true
		f.narrow.Focus()
		return f, textinput.Blink, false

	case key.Matches(keyMsg, keys.Tab), key.Matches(keyMsg, keys.ShiftTab),
		keyMsg.String() == "left", keyMsg.String() == "right", keyMsg.String() == "h", keyMsg.String() == "l":
		f.switchColumn()

	case key.Matches(keyMsg, keys.Down):
		if n := len(f.options(f.column)); f.cursor[f.column] < n-1 {
			f.cursor[f.column]++
		}

	case key.Matches(keyMsg, keys.Up):
		if f.cursor[f.column] > 0 {
			f.cursor[f.column]--
		}

	case key.Matches(keyMsg, keys.ToggleOption), key.Matches(keyMsg, keys.Confirm):
		f.toggleAtCursor()

	case key.Matches(keyMsg, keys.Apply):
		if f.panel == nil {
			break
		}
		filters, ok := f.panel.Apply()
		if !ok {
			break
		}
		return nil, f.actions.apply(filters), true

	case key.Matches(keyMsg, keys.ClearFilters):
		if f.panel != nil {
			f.panel.Clear()
		}
		return nil, f.actions.clear(), true
	}
	return f, nil, false
}

func (f *filterModal) toggleAtCursor() {
	opts := f.options(f.column)
	idx := f.cursor[f.column]
	if idx < 0 || idx >= len(opts) {
		return
	}
	if f.column == columnCuisines {
		f.panel.ToggleCuisine(opts[idx])
		return
	}
	f.panel.ToggleMealType(opts[idx])
}

// View implements Modal.
func (f *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filter Recipes"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	switch {
	case f.panel == nil:
		b.WriteString(styles.MutedText.Render("Loading options..."))
		b.WriteString("\n\n")
	case len(f.panel.MealTypes) == 0 && len(f.panel.Cuisines) == 0:
		b.WriteString(styles.MutedText.Render("No filter options available."))
		b.WriteString("\n\n")
	default:
		left := f.renderColumn(theme, columnMealTypes, "Meal Type", f.panel.MealType())
		right := f.renderColumn(theme, columnCuisines, "Cuisine", f.panel.Cuisine())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
		b.WriteString("\n\n")
	}

	if f.narrowing || f.narrow.Value() != "" {
		b.WriteString(styles.AccentText.Render("/ "))
		b.WriteString(f.narrow.View())
		b.WriteString("\n\n")
	}

	applyHint := "a: Apply"
	if f.panel == nil || !f.panel.CanApply() {
		applyHint = "a: Apply (select an option)"
	}
	b.WriteString(styles.FaintText.Render("space: Select  •  " + applyHint))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("c: Clear  •  /: Narrow  •  Tab: Column  •  Esc: Close"))

	return renderModalBox(theme, b.String(), 60, width, height)
}

func (f *filterModal) renderColumn(theme Theme, column int, title, selected string) string {
	styles := theme.Styles()
	focused := column == f.column

	titleStyle := styles.MutedText.Bold(true)
	if focused {
		titleStyle = styles.AccentText.Bold(true)
	}
	lines := []string{titleStyle.Render(title)}

	opts := f.options(column)
	if len(opts) == 0 {
		lines = append(lines, styles.FaintText.Render("(none)"))
	}
	start, end := visibleWindow(len(opts), f.cursor[column], filterColumnRows)
	for i := start; i < end; i++ {
		mark := "( ) "
		if opts[i] == selected {
			mark = "(•) "
		}
		line := mark + truncate(opts[i], 18)
		switch {
		case focused && i == f.cursor[column]:
			line = styles.Selected.Render(line)
		case opts[i] == selected:
			line = styles.AccentText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(24).Render(strings.Join(lines, "\n"))
}
