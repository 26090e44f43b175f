package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/microbe-atlas/locus/internal/logtail"
)

// logLevels is the cycle of minimum levels in the logs view.
var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// logState holds the tail of the client log.
type logState struct {
	viewport viewport.Model
	entries  []logtail.Entry
	follow   bool
	minLevel string
	lastRead time.Time
	err      error
}

func newLogState() logState {
	return logState{
		viewport: viewport.New(80, 20),
		follow:   true,
		minLevel: "INFO",
	}
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func readLogsCmd(path string, limit int) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, limit)
		return logsMsg{entries: entries, err: err}
	}
}

func (m *Model) applyLogs(msg logsMsg) {
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.entries = msg.entries
	}
	m.refreshLogViewport()
}

func (m *Model) refreshLogViewport() {
	m.logs.viewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

func (m *Model) resizeLogViewport() {
	m.logs.viewport.Width = max(m.width-4, 10)
	m.logs.viewport.Height = max(m.contentHeight()-2, 3)
	m.refreshLogViewport()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		if m.logs.follow {
			m.logs.viewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.CycleLevel):
		m.logs.minLevel = nextLevel(m.logs.minLevel)
		m.refreshLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	// Scrolling keys pause follow mode.
	if key.Matches(msg, m.keys.Up) {
		m.logs.follow = false
	}
	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	return m, cmd
}

func nextLevel(current string) string {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logs.err != nil {
		return styles.DangerText.Render("Cannot read log: " + m.logs.err.Error())
	}
	entries := logtail.FilterLevel(m.logs.entries, m.logs.minLevel)
	if len(entries) == 0 {
		return styles.FaintText.Render("No log entries at " + m.logs.minLevel + " or above")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func formatLogEntry(e logtail.Entry, styles Styles) string {
	var b strings.Builder
	ts := "--:--:--"
	if !e.Time.IsZero() {
		ts = e.Time.In(time.Local).Format("15:04:05")
	}
	b.WriteString(styles.FaintText.Render(ts))
	b.WriteString(" ")
	b.WriteString(styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)))
	if e.Component != "" {
		b.WriteString(" ")
		b.WriteString(styles.AccentText.Render("[" + e.Component + "]"))
	}
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s=%s", a.Key, a.Value)))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	follow := "off"
	if m.logs.follow {
		follow = "on"
	}
	title := fmt.Sprintf("Log · %s · %d entries · level ≥ %s · follow %s",
		truncateMiddle(m.config.LogPath(), 40), len(m.logs.entries), m.logs.minLevel, follow)
	return m.renderBox(title, m.logs.viewport.View(), m.width, m.contentHeight(), true)
}
