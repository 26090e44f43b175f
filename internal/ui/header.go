package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/microbe-atlas/locus/internal/syncview"
)

// renderHeader renders the status bar: portal health, the current viewport
// and the coordinator phase.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBgStyle(m.theme.Surface)

	parts := []string{bg.render("locus", styles.Logo)}
	parts = append(parts, m.portalStatus(styles, bg))

	if m.coord != nil {
		snap := m.coord.State().Snapshot()
		if snap.HasCoords {
			parts = append(parts, bg.render("Viewport:", styles.MutedText)+bg.sep(" ")+bg.render(snap.Locus, styles.Text))
		}
		switch m.coord.Phase() {
		case syncview.PhaseFetching:
			parts = append(parts, bg.render(m.spinner.View()+" fetching", styles.InfoText))
		case syncview.PhaseCooldown:
			parts = append(parts, bg.render("◌ cooldown", styles.WarningText))
		}
	}

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.render(m.portalHost(), styles.FaintText))
	}

	return bg.fill(styles.Header.Render(bg.join(parts, 2)), m.width)
}

func (m Model) portalStatus(styles Styles, bg bgStyle) string {
	snap := m.snapshot
	switch {
	case snap.LastError != nil && (snap.IsOffline() || !snap.HasHealth):
		return bg.render("● "+classifyConnectionError(snap.LastError), styles.DangerText) +
			bg.sep(" ") + bg.render("retrying", styles.WarningText)
	case !snap.HasHealth:
		return bg.render("Connecting to portal...", styles.WarningText.Bold(true))
	}

	h := snap.Health
	status := bg.render("● ONLINE", styles.SuccessText)
	if !h.OK() {
		status = bg.render("● "+strings.ToUpper(strings.TrimSpace(h.Status)), styles.WarningText.Bold(true))
	}
	if h.Version != "" {
		status += bg.sep(" ") + bg.render("v"+h.Version, styles.MutedText)
	}
	if m.width >= LayoutCompactWidth {
		status += bg.spaces(2) + bg.render(fmt.Sprintf("%d genomes · %d genes", h.Genomes, h.Genes), styles.MutedText)
	}
	return status
}

func (m Model) portalHost() string {
	if m.config == nil {
		return ""
	}
	return truncateMiddle(m.config.APIURL, 40)
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 5"):
		return "PORTAL ERROR"
	default:
		return "ERROR"
	}
}

// renderTabs renders the view switcher with the active view highlighted.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := newBgStyle(m.theme.SurfaceAlt)

	tabs := make([]string, 0, len(viewNames)+1)
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.currentView {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
			continue
		}
		tabs = append(tabs, bg.render(" "+label+" ", styles.MutedText))
	}
	tabs = append(tabs, bg.render("T", styles.AccentText)+bg.sep(":")+bg.render(m.theme.Name, styles.FaintText))
	return bg.fill(lipgloss.JoinHorizontal(lipgloss.Top, bg.join(tabs, 1)), m.width)
}
