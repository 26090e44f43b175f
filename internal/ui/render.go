package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chromeHeight is the rows taken by header, tabs and footer.
const chromeHeight = 3

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSearch:
		return m.renderSearch()
	case ViewBrowser:
		return m.renderBrowser()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 6)
}

// renderFooter shows the latest status message, or the key hints of the
// active view.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.status != "" {
		style := styles.DangerText
		if m.statusOK {
			style = styles.SuccessText
		}
		return style.Render(truncate(m.status, m.width))
	}
	return m.help.View(m.keys.forView(m.currentView))
}

// renderBox draws content inside a rounded border with the title set into
// the top edge. Content is clipped to the box.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	border := lipgloss.RoundedBorder()
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	lines := strings.Split(content, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, l := range lines {
		lines[i] = fit(l, innerW)
	}
	for len(lines) < innerH {
		lines = append(lines, strings.Repeat(" ", innerW))
	}

	edge := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Bold(focused)

	label := ""
	if title != "" {
		label = " " + truncate(title, max(innerW-4, 1)) + " "
	}
	fill := max(innerW-1-lipgloss.Width(label), 0)
	top := edge.Render(border.TopLeft+border.Top) + titleStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	var b strings.Builder
	b.WriteString(top)
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(edge.Render(border.Left))
		b.WriteString(l)
		b.WriteString(edge.Render(border.Right))
	}
	b.WriteString("\n")
	b.WriteString(edge.Render(border.BottomLeft + strings.Repeat(border.Bottom, innerW) + border.BottomRight))
	return b.String()
}
