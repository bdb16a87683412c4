package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/ladle/internal/logtail"
)

const logTailLines = 500

// logState holds the diagnostics log view.
type logState struct {
	entries  []logtail.Entry
	err      error
	loaded   bool
	minLevel slog.Level
}

func newLogState() logState {
	return logState{minLevel: slog.LevelInfo}
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// logPath returns the configured diagnostics log, or "" when logging is off.
func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogPath
}

// loadLogs reads the log tail off the update loop.
func (m Model) loadLogs() tea.Cmd {
	path := m.logPath()
	level := m.logState.minLevel
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.Entries(path, logTailLines, level)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logState.entries = msg.entries
	m.logState.err = msg.err
	m.logState.loaded = true
	m.updateLogViewport()
	m.logViewport.GotoBottom()
}

// updateLogViewport sizes the log viewport and re-renders its content.
func (m *Model) updateLogViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	width := max(m.width-4, 10)
	height := max(m.contentHeight()-2, 1) // borders
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
}

// renderLogContent colors each entry by level.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().On(m.theme.FocusBg)

	switch {
	case m.logPath() == "":
		return styles.MutedText.Render("Diagnostics logging is disabled (log_path is empty).")
	case m.logState.err != nil:
		return styles.DangerText.Render("Unable to read log: " + m.logState.err.Error())
	case !m.logState.loaded:
		return styles.MutedText.Render("Loading log...")
	case len(m.logState.entries) == 0:
		return styles.MutedText.Render("No log entries at " + levelLabel(m.logState.minLevel) + ".")
	}

	lines := make([]string, 0, len(m.logState.entries))
	for _, e := range m.logState.entries {
		lines = append(lines, levelStyle(styles, e.Level).Render(e.Format()))
	}
	return strings.Join(lines, "\n")
}

func levelStyle(styles Styles, level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styles.DangerText
	case level >= slog.LevelWarn:
		return styles.WarningText
	case level < slog.LevelInfo:
		return styles.FaintText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if path := m.logPath(); path != "" {
		title = fmt.Sprintf("Log · %s · %s", levelLabel(m.logState.minLevel), path)
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewRecipes
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadLogs()
	case msg.String() == "w":
		m.logState.minLevel = nextLevel(m.logState.minLevel)
		return m, m.loadLogs()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
	return m, nil
}

// nextLevel cycles debug → info → warn → error → debug.
func nextLevel(level slog.Level) slog.Level {
	switch {
	case level < slog.LevelInfo:
		return slog.LevelInfo
	case level < slog.LevelWarn:
		return slog.LevelWarn
	case level < slog.LevelError:
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func levelLabel(level slog.Level) string {
	return level.String() + "+"
}
