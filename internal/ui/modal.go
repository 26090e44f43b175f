package ui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/microbe-atlas/locus/internal/export"
	"github.com/microbe-atlas/locus/internal/prefs"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal closes.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// columnsMsg carries the column selection confirmed in the dialog.
type columnsMsg []string

// columnsModal lets the user choose the visible search table columns.
type columnsModal struct {
	draft  prefs.Prefs
	cursor int
}

func newColumnsModal(p prefs.Prefs) columnsModal {
	p.Columns = slices.Clone(p.Columns)
	return columnsModal{draft: p}
}

func (c columnsModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return c, nil, true
	case key.Matches(msg, keys.Select):
		cols := slices.Clone(c.draft.Columns)
		return c, func() tea.Msg { return columnsMsg(cols) }, true
	case key.Matches(msg, keys.Down):
		c.cursor = min(c.cursor+1, len(prefs.AllColumns)-1)
	case key.Matches(msg, keys.Up):
		c.cursor = max(c.cursor-1, 0)
	case msg.String() == " " || msg.String() == "x":
		c.draft = c.draft.ToggleColumn(prefs.AllColumns[c.cursor])
	}
	return c, nil, false
}

func (c columnsModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Search Columns"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, col := range prefs.AllColumns {
		box := "[ ]"
		if slices.Contains(c.draft.Columns, col) {
			box = "[x]"
		}
		line := box + " " + export.Header(col)
		if i == c.cursor {
			line = styles.Selected.Render(padRight(line, 30))
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("space toggle · enter save · esc cancel"))

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(40).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)))
}
