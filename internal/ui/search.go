package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ladle/internal/state"
)

// searchState holds the command bar search prompt.
type searchState struct {
	active bool
	input  textinput.Model
}

func newSearchState() searchState {
	ti := textinput.New()
	ti.Placeholder = "Search recipes..."
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = ""
	return searchState{input: ti}
}

// openSearch focuses the prompt, pre-filled with the active query.
func (m *Model) openSearch() {
	m.search.active = true
	m.search.input.SetValue(m.snapshot.Mode.Query())
	m.search.input.CursorEnd()
	m.search.input.Focus()
}

func (m *Model) closeSearch() {
	m.search.active = false
	m.search.input.Blur()
}

// handleSearchInput handles keyboard input while the prompt is open. Enter
// submits the query as typed; a blank query reverts to the previous list.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.search.input.Value()
		m.closeSearch()
		return m, m.runCmd(state.ActionSearch, func(ctx context.Context) error {
			return m.controller.Search(ctx, query)
		})

	case key.Matches(msg, m.keys.Escape):
		m.closeSearch()
		m.search.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}
