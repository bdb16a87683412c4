package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ladle/internal/recipes"
)

const (
	fieldTitle = iota
	fieldIngredients
	fieldInstructions
	fieldMealType
	fieldCuisine
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title:        ",
	"Ingredients:  ",
	"Instructions: ",
	"Meal type:    ",
	"Cuisine:      ",
}

// formActions turns a finished form into controller commands.
type formActions struct {
	submit func(editing *recipes.Recipe, draft recipes.Draft) tea.Cmd
	cancel func() tea.Cmd
}

// formModal edits a recipe draft. Editing is nil for a new recipe.
type formModal struct {
	editing *recipes.Recipe
	actions formActions

	title        textinput.Model
	ingredients  textarea.Model
	instructions textarea.Model
	mealType     textinput.Model
	cuisine      textinput.Model

	focusIdx int
	saving   bool
	err      string
}

func newFormModal(editing *recipes.Recipe, actions formActions) *formModal {
	title := textinput.New()
	title.Placeholder = "Recipe title"
	title.CharLimit = 200
	title.Width = 50

	ingredients := textarea.New()
	ingredients.Placeholder = "One ingredient per line"
	ingredients.ShowLineNumbers = false
	ingredients.CharLimit = 4000
	ingredients.SetWidth(50)
	ingredients.SetHeight(5)

	instructions := textarea.New()
	instructions.Placeholder = "Steps"
	instructions.ShowLineNumbers = false
	instructions.CharLimit = 8000
	instructions.SetWidth(50)
	instructions.SetHeight(6)

	mealType := textinput.New()
	mealType.Placeholder = "e.g. dinner (optional)"
	mealType.CharLimit = 50
	mealType.Width = 30

	cuisine := textinput.New()
	cuisine.Placeholder = "e.g. Italian (optional)"
	cuisine.CharLimit = 50
	cuisine.Width = 30

	f := &formModal{
		editing:      editing,
		actions:      actions,
		title:        title,
		ingredients:  ingredients,
		instructions: instructions,
		mealType:     mealType,
		cuisine:      cuisine,
	}
	if editing != nil {
		d := editing.Draft()
		f.title.SetValue(d.Title)
		f.ingredients.SetValue(d.Ingredients)
		f.instructions.SetValue(d.Instructions)
		f.mealType.SetValue(d.MealType)
		f.cuisine.SetValue(d.Cuisine)
	}
	f.focus(fieldTitle)
	return f
}

// Draft returns the form contents as a submission payload.
func (f *formModal) Draft() recipes.Draft {
	return recipes.Draft{
		Title:        strings.TrimSpace(f.title.Value()),
		Ingredients:  strings.TrimSpace(f.ingredients.Value()),
		Instructions: strings.TrimSpace(f.instructions.Value()),
		MealType:     strings.TrimSpace(f.mealType.Value()),
		Cuisine:      strings.TrimSpace(f.cuisine.Value()),
	}
}

// fail reports a rejected submission and re-enables the form.
func (f *formModal) fail(message string) {
	f.saving = false
	f.err = message
}

func (f *formModal) focus(idx int) {
	f.title.Blur()
	f.ingredients.Blur()
	f.instructions.Blur()
	f.mealType.Blur()
	f.cuisine.Blur()

	f.focusIdx = (idx + fieldCount) % fieldCount
	switch f.focusIdx {
	case fieldTitle:
		f.title.Focus()
	case fieldIngredients:
		f.ingredients.Focus()
	case fieldInstructions:
		f.instructions.Focus()
	case fieldMealType:
		f.mealType.Focus()
	case fieldCuisine:
		f.cuisine.Focus()
	}
}

// Update implements Modal.
func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			return nil, f.actions.cancel(), true

		case key.Matches(keyMsg, keys.Save):
			if f.saving {
				return f, nil, false
			}
			f.saving = true
			f.err = ""
			return f, f.actions.submit(f.editing, f.Draft()), false

		case key.Matches(keyMsg, keys.Tab):
			f.focus(f.focusIdx + 1)
			return f, nil, false

		case key.Matches(keyMsg, keys.ShiftTab):
			f.focus(f.focusIdx - 1)
			return f, nil, false

		case key.Matches(keyMsg, keys.Confirm) && f.isSingleLine():
			f.focus(f.focusIdx + 1)
			return f, nil, false
		}
	}

	// Let the focused input handle the message
	var cmd tea.Cmd
	switch f.focusIdx {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldIngredients:
		f.ingredients, cmd = f.ingredients.Update(msg)
	case fieldInstructions:
		f.instructions, cmd = f.instructions.Update(msg)
	case fieldMealType:
		f.mealType, cmd = f.mealType.Update(msg)
	case fieldCuisine:
		f.cuisine, cmd = f.cuisine.Update(msg)
	}
	return f, cmd, false
}

func (f *formModal) isSingleLine() bool {
	return f.focusIdx != fieldIngredients && f.focusIdx != fieldInstructions
}

// View implements Modal.
func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder

	heading := "New Recipe"
	if f.editing != nil {
		heading = "Edit " + f.editing.DisplayTitle()
	}
	b.WriteString(styles.Text.Bold(true).Render(truncate(heading, 60)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
	b.WriteString("\n\n")

	views := [fieldCount]string{
		f.title.View(),
		f.ingredients.View(),
		f.instructions.View(),
		f.mealType.View(),
		f.cuisine.View(),
	}
	for i, label := range fieldLabels {
		if i == f.focusIdx {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, views[i]))
		b.WriteString("\n\n")
	}

	switch {
	case f.saving:
		b.WriteString(styles.WarningText.Render("Saving..."))
		b.WriteString("\n")
	case f.err != "":
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString(styles.FaintText.Render("Ctrl+S: Save  •  Tab: Next field  •  Esc: Cancel"))

	return renderModalBox(theme, b.String(), min(72, max(width-4, 20)), width, height)
}
