package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ladle/internal/recipes"
)

// confirmModal asks before a recipe is deleted. Only y confirms; any other
// key denies.
type confirmModal struct {
	recipe  recipes.Recipe
	resolve func(confirmed bool) tea.Cmd
}

func newConfirmModal(r recipes.Recipe, resolve func(confirmed bool) tea.Cmd) *confirmModal {
	return &confirmModal{recipe: r, resolve: resolve}
}

// Update implements Modal.
func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	return nil, c.resolve(key.Matches(keyMsg, keys.Yes)), true
}

// View implements Modal.
func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete recipe"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Are you sure you want to delete this recipe?"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("#%d %s", c.recipe.ID, truncate(c.recipe.DisplayTitle(), 36))))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y: Delete  •  any other key: Cancel"))

	return renderModalBox(theme, b.String(), 50, width, height)
}
