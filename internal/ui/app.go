package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ladle/internal/config"
	"github.com/five82/ladle/internal/prefs"
	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewRecipes View = iota
	ViewLogs
)

const defaultRefreshTick = 250 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context     context.Context
	Controller  *state.Controller
	Options     state.OptionsAPI
	Config      *config.Config
	Logger      *slog.Logger
	ThemeName   string
	PrefsPath   string
	SplitDetail bool
	RefreshTick time.Duration
	// Clipboard writes text to the system clipboard. Nil uses atotto/clipboard.
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	controller *state.Controller
	optionsAPI state.OptionsAPI
	config     *config.Config
	logger     *slog.Logger
	prefsPath  string
	tick       time.Duration
	clipboard  func(string) error

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = list, 1 = detail
	split       bool
	spinner     spinner.Model

	// Data state
	snapshot state.Snapshot
	panel    *state.Panel

	// List state
	selectedRow int
	selectedID  int64

	// Detail state
	detailViewport viewport.Model

	// Search input
	search searchState

	// Active modal: form, filter panel or delete confirmation
	modal Modal

	// Log state
	logViewport viewport.Model
	logState    logState

	showHelp bool
	notice   string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tick := opts.RefreshTick
	if tick <= 0 {
		tick = defaultRefreshTick
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	theme := GetTheme(themeName)
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:         ctx,
		controller:  opts.Controller,
		optionsAPI:  opts.Options,
		config:      opts.Config,
		logger:      logger,
		prefsPath:   prefsPath,
		tick:        tick,
		clipboard:   copyFn,
		keys:        DefaultKeyMap(),
		theme:       theme,
		currentView: ViewRecipes,
		split:       opts.SplitDetail,
		spinner:     sp,
		search:      newSearchState(),
		logState:    newLogState(),
	}
	if m.controller != nil {
		m.snapshot = m.controller.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.controller != nil {
		cmds = append(cmds, m.runCmd(state.ActionFetch, m.controller.Load))
	}
	if m.optionsAPI != nil {
		cmds = append(cmds, loadPanelCmd(m.ctx, m.optionsAPI, m.logger))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncSelection()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		m.refreshSnapshot()
		return m, tickCmd(m.tick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case panelMsg:
		m.panel = msg.panel
		if fm, ok := m.modal.(*filterModal); ok {
			fm.setPanel(m.panel)
		}
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	}

	// Forward everything else (cursor blink) to the active inputs
	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	if m.search.active {
		var cmd tea.Cmd
		m.search.input, cmd = m.search.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input. Overlays get the key first, then the
// global bindings, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.search.active {
		return m.handleSearchInput(msg)
	}

	// A key press clears the last notice
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewRecipes
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.loadLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleRecipesKey(msg)
	}
}

// handleRecipesKey processes keyboard input for the recipe list and detail.
func (m Model) handleRecipesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.openSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ClearSearch):
		if m.snapshot.Mode.Kind() != state.ModeSearched {
			return m, nil
		}
		return m, m.runCmd(state.ActionSearch, func(ctx context.Context) error {
			return m.controller.Search(ctx, "")
		})

	case key.Matches(msg, m.keys.Filters):
		fm := newFilterModal(m.panel, m.snapshot.Mode, m.filterActions())
		m.modal = fm
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.runCmd(state.ActionFetch, m.controller.Reapply)

	case key.Matches(msg, m.keys.New):
		m.controller.OpenCreateForm()
		m.refreshSnapshot()
		m.modal = newFormModal(nil, m.formActions())
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		r, ok := m.currentRecipe()
		if !ok {
			return m, nil
		}
		m.controller.OpenEditForm(r)
		m.refreshSnapshot()
		m.focusedPane = 0
		m.modal = newFormModal(&r, m.formActions())
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.currentRecipe()
		if !ok {
			return m, nil
		}
		m.modal = newConfirmModal(r, m.deleteAction(r.ID))
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		r, ok := m.currentRecipe()
		if !ok {
			return m, nil
		}
		return m, copyCmd(m.clipboard, r, m.logger)

	case key.Matches(msg, m.keys.ToggleSplit):
		m.split = !m.split
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.split && len(m.snapshot.Recipes) > 0 {
			m.focusedPane = 1 - m.focusedPane
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		r, ok := m.selectedRecipe()
		if !ok {
			return m, nil
		}
		m.controller.ShowDetail(r)
		m.refreshSnapshot()
		m.focusedPane = 1
		m.detailViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.snapshot.Detail != nil || m.focusedPane == 1 {
			m.controller.CloseDetail()
			m.refreshSnapshot()
			m.focusedPane = 0
		}
		return m, nil
	}

	if m.focusedPane == 1 {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// refreshSnapshot re-reads the controller state.
func (m *Model) refreshSnapshot() {
	if m.controller == nil {
		return
	}
	m.applySnapshot(m.controller.Snapshot())
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.syncSelection()
	m.updateDetailViewport()
}

// handleOpDone applies the result of a controller operation.
func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshSnapshot()

	switch msg.action {
	case state.ActionCreate, state.ActionUpdate:
		fm, ok := m.modal.(*formModal)
		if !ok {
			break
		}
		if msg.err != nil {
			fm.fail(msg.action.Message())
			break
		}
		m.modal = nil
		if msg.action == state.ActionCreate && len(m.snapshot.Recipes) > 0 {
			// New recipes are prepended; follow them.
			m.selectedRow = 0
			m.selectedID = m.snapshot.Recipes[0].ID
			m.updateDetailViewport()
		}
		m.notice = "Saved"
	case state.ActionDelete:
		if msg.err == nil && m.snapshot.Detail == nil {
			m.focusedPane = 0
		}
	}
	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, SplitDetail: m.split}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", slog.String("error", err.Error()))
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar or search input
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderRecipes()
	}
}

// runCmd runs a controller operation off the update loop and reports back
// with an opDoneMsg.
func (m Model) runCmd(action state.Action, op func(context.Context) error) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{action: action, err: op(ctx)}
	}
}

func (m Model) formActions() formActions {
	return formActions{
		submit: func(editing *recipes.Recipe, draft recipes.Draft) tea.Cmd {
			if editing != nil {
				id := editing.ID
				return m.runCmd(state.ActionUpdate, func(ctx context.Context) error {
					return m.controller.Update(ctx, id, draft)
				})
			}
			return m.runCmd(state.ActionCreate, func(ctx context.Context) error {
				return m.controller.Create(ctx, draft)
			})
		},
		cancel: func() tea.Cmd {
			m.controller.CloseForm()
			return fetchSnapshotCmd(m.controller)
		},
	}
}

func (m Model) filterActions() filterActions {
	return filterActions{
		apply: func(f recipes.Filters) tea.Cmd {
			return m.runCmd(state.ActionFilter, func(ctx context.Context) error {
				return m.controller.Filter(ctx, f)
			})
		},
		clear: func() tea.Cmd {
			return m.runCmd(state.ActionFetch, m.controller.ClearFilters)
		},
	}
}

func (m Model) deleteAction(id int64) func(confirmed bool) tea.Cmd {
	return func(confirmed bool) tea.Cmd {
		return m.runCmd(state.ActionDelete, func(ctx context.Context) error {
			return m.controller.Delete(ctx, id, func() bool { return confirmed })
		})
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type opDoneMsg struct {
	action state.Action
	err    error
}

type panelMsg struct {
	panel *state.Panel
}

type noticeMsg string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(c *state.Controller) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(c.Snapshot())
	}
}

func loadPanelCmd(ctx context.Context, api state.OptionsAPI, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		return panelMsg{panel: state.LoadPanel(ctx, api, logger)}
	}
}

func copyCmd(write func(string) error, r recipes.Recipe, logger *slog.Logger) tea.Cmd {
	text := recipeText(r)
	return func() tea.Msg {
		if err := write(text); err != nil {
			logger.Warn("clipboard copy failed", slog.String("error", err.Error()))
			return noticeMsg("Clipboard unavailable")
		}
		return noticeMsg("Copied " + r.DisplayTitle())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
