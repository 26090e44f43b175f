package ui

import (
	"fmt"
	"strings"

	"github.com/microbe-atlas/locus/internal/feature"
)

// renderDetails renders the feature details panel.
func (m Model) renderDetails(width, height int) string {
	styles := m.theme.Styles()
	sel := m.details.Selection()
	if !sel.Selected {
		return styles.FaintText.Render(wrapText("Press enter on a gene or a track feature to see its details.", width))
	}

	d := sel.Details
	var lines []string
	title := d.LocusTag
	if d.Name != feature.Placeholder && d.Name != d.LocusTag {
		title += " (" + d.Name + ")"
	}
	lines = append(lines, styles.AccentText.Bold(true).Render(truncate(title, width)))
	lines = append(lines, styles.Text.Render(wrapText(d.Product, width)))
	lines = append(lines, "")

	field := func(label, value string) {
		labelW := 10
		text := wrapText(value, max(width-labelW, 8))
		parts := strings.Split(text, "\n")
		lines = append(lines, styles.MutedText.Render(padRight(label, labelW))+styles.Text.Render(parts[0]))
		for _, p := range parts[1:] {
			lines = append(lines, strings.Repeat(" ", labelW)+styles.Text.Render(p))
		}
	}

	field("Location", fmt.Sprintf("%s (%s)", d.Locus(), d.Strand))
	field("Type", d.Type)
	field("Genome", d.GenomeID)
	field("Species", d.Species)
	field("Protein", d.ProteinID)
	field("COG", joinOrPlaceholder(d.CogIDs))
	field("Aliases", joinOrPlaceholder(d.Aliases))

	lines = append(lines, "")
	switch {
	case sel.LoadingProtein:
		lines = append(lines, styles.MutedText.Render(m.spinner.View()+" Loading protein sequence..."))
	case sel.Protein != "":
		lines = append(lines, styles.MutedText.Render(fmt.Sprintf("Sequence (%d aa)", len(sel.Protein))))
		lines = append(lines, styles.InfoText.Render(wrapText(sel.Protein, width)))
	default:
		lines = append(lines, styles.FaintText.Render("No protein sequence"))
	}

	text := strings.Join(lines, "\n")
	if height > 0 {
		all := strings.Split(text, "\n")
		if len(all) > height {
			text = strings.Join(all[:height], "\n")
		}
	}
	return text
}

func joinOrPlaceholder(values []string) string {
	if len(values) == 0 {
		return feature.Placeholder
	}
	return strings.Join(values, ", ")
}
