package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/syncview"
)

// trackRows is how many stacked feature rows the gene track shows.
const trackRows = 3

// browseState holds the browser view: the track cursor, the Genomic Context
// table and the goto prompt.
type browseState struct {
	cursor int
	row    int

	gotoInput textinput.Model
	editing   bool

	// generation of the coordinator result last copied into genes.
	generation int
	genes      []portal.Gene
	failed     bool

	// sequences caches reference sequence extents by id.
	sequences map[string]genome.Region
}

func newBrowseState() browseState {
	ti := textinput.New()
	ti.Placeholder = "NC_000913.3:1..20000"
	ti.Prompt = ": "
	ti.CharLimit = 120
	return browseState{
		gotoInput: ti,
		sequences: make(map[string]genome.Region),
	}
}

func (b browseState) selected() (portal.Gene, bool) {
	if b.row < 0 || b.row >= len(b.genes) {
		return portal.Gene{}, false
	}
	return b.genes[b.row], true
}

// stepBrowser advances the panel animation, samples the viewport and picks
// up a newer Genomic Context result.
func (m *Model) stepBrowser() {
	if m.panel == nil || m.coord == nil {
		return
	}
	m.panel.Step()
	m.coord.Poll()
	m.syncResult()
}

func (m *Model) syncResult() {
	res := m.coord.Result()
	if res.Generation == m.browse.generation {
		return
	}
	m.browse.generation = res.Generation
	m.browse.genes = res.Genes
	m.browse.failed = res.Failed
	m.browse.row = min(m.browse.row, max(len(res.Genes)-1, 0))
	m.panel.SetFeatures(featuresFromGenes(res.Genes))
}

// featuresFromGenes converts portal genes into track features carrying the
// JSON record the details panel parses.
func featuresFromGenes(genes []portal.Gene) []browser.Feature {
	features := make([]browser.Feature, 0, len(genes))
	for _, g := range genes {
		raw, err := json.Marshal(g)
		if err != nil {
			continue
		}
		features = append(features, browser.Feature{
			Region:   g.Region(),
			LocusTag: g.LocusTag,
			Name:     g.Label(),
			Reverse:  g.IsReverse(),
			Raw:      raw,
		})
	}
	return features
}

type sequencesMsg struct {
	genomeID  string
	sequences []portal.Sequence
	err       error
	gene      portal.Gene
	table     syncview.Table
}

func fetchSequencesCmd(ctx context.Context, client portal.GeneSearcher, gene portal.Gene, table syncview.Table) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		seqs, err := client.FetchSequences(ctx, gene.GenomeID)
		return sequencesMsg{genomeID: gene.GenomeID, sequences: seqs, err: err, gene: gene, table: table}
	}
}

// browseGene shows gene in the browser. A gene on a sequence the panel does
// not know yet first loads the genome's sequence list.
func (m *Model) browseGene(table syncview.Table, gene portal.Gene) tea.Cmd {
	if m.coord == nil || m.panel == nil {
		return nil
	}
	seq, ok := m.sequenceFor(gene.SeqID)
	if !ok {
		if gene.GenomeID != "" && m.portal != nil {
			m.setStatus("Loading sequences of "+gene.GenomeID, true)
			return fetchSequencesCmd(m.ctx, m.portal, gene, table)
		}
		seq = fallbackSequence(gene)
	}
	m.openGene(table, seq, gene)
	return nil
}

func (m *Model) applySequences(msg sequencesMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn("load sequences failed", "genome_id", msg.genomeID, "error", msg.err)
	}
	for _, s := range msg.sequences {
		m.browse.sequences[s.SeqID] = s.Region()
	}
	seq, ok := m.sequenceFor(msg.gene.SeqID)
	if !ok {
		seq = fallbackSequence(msg.gene)
		m.browse.sequences[seq.SeqID] = seq
	}
	m.openGene(msg.table, seq, msg.gene)
	return nil
}

func (m *Model) openGene(table syncview.Table, seq genome.Region, gene portal.Gene) {
	if m.panel.Sequence() != seq {
		m.panel.SetSequence(seq)
	}
	m.setView(ViewBrowser)
	m.coord.BrowseGene(table, gene)
	m.browse.cursor = m.trackWidth() / 2
}

func (m *Model) sequenceFor(seqID string) (genome.Region, bool) {
	if seqID == "" {
		return genome.Region{}, false
	}
	if cur := m.panel.Sequence(); cur.SeqID == seqID {
		return cur, true
	}
	seq, ok := m.browse.sequences[seqID]
	return seq, ok
}

// fallbackSequence stands in for a sequence whose length is unknown.
func fallbackSequence(gene portal.Gene) genome.Region {
	return genome.Region{SeqID: gene.SeqID, Start: 0, End: gene.End + syncview.NavigationPadding}
}

func (m Model) handleGotoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.browse.editing = false
		m.browse.gotoInput.Blur()
		m.gotoLocus(m.browse.gotoInput.Value())
		return m, nil
	case tea.KeyEsc:
		m.browse.editing = false
		m.browse.gotoInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.browse.gotoInput, cmd = m.browse.gotoInput.Update(msg)
	return m, cmd
}

// gotoLocus moves the viewer like a user typing into its location box. The
// listener sees the change as an external viewer navigation.
func (m *Model) gotoLocus(value string) {
	if m.panel == nil {
		return
	}
	region, err := genome.ParseLocus(value)
	if err != nil {
		m.setStatus(err.Error(), false)
		return
	}
	if region.SeqID != m.panel.Sequence().SeqID {
		seq, ok := m.browse.sequences[region.SeqID]
		if !ok {
			m.setStatus("Unknown sequence "+region.SeqID, false)
			return
		}
		m.panel.SetSequence(seq)
	}
	if err := m.panel.Navigate(region.String()); err != nil {
		m.setStatus(err.Error(), false)
	}
}

func (m Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.panel == nil {
		return m, nil
	}
	b := &m.browse
	width := m.trackWidth()
	step := max(width/8, 1)

	switch {
	case key.Matches(msg, m.keys.PanLeft):
		m.panel.Pan(-step)
	case key.Matches(msg, m.keys.PanRight):
		m.panel.Pan(step)
	case key.Matches(msg, m.keys.CursorLeft):
		b.cursor = max(b.cursor-1, 0)
	case key.Matches(msg, m.keys.CursorRight):
		b.cursor = min(b.cursor+1, width-1)
	case key.Matches(msg, m.keys.ZoomIn):
		m.panel.Zoom(0.5)
	case key.Matches(msg, m.keys.ZoomOut):
		m.panel.Zoom(2)
	case key.Matches(msg, m.keys.Goto):
		b.editing = true
		b.gotoInput.SetValue(m.panel.Window().String())
		b.gotoInput.CursorEnd()
		cmd := b.gotoInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Down):
		if b.row < len(b.genes)-1 {
			b.row++
		}
	case key.Matches(msg, m.keys.Up):
		if b.row > 0 {
			b.row--
		}
	case key.Matches(msg, m.keys.Top):
		b.row = 0
	case key.Matches(msg, m.keys.Bottom):
		b.row = max(len(b.genes)-1, 0)

	case key.Matches(msg, m.keys.Select):
		if f, ok := m.panel.FeatureAt(b.cursor); ok {
			m.details.Select(f.Raw, true)
		} else if g, ok := b.selected(); ok {
			m.showGeneDetails(g)
		}
	case key.Matches(msg, m.keys.Browse):
		if g, ok := b.selected(); ok {
			cmd := m.browseGene(syncview.SyncTable, g)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Yank):
		if g, ok := b.selected(); ok {
			m.copyToClipboard("locus tag", g.LocusTag)
		}
	case key.Matches(msg, m.keys.YankProtein):
		m.copyToClipboard("protein sequence", m.details.Selection().Protein)
	}
	return m, nil
}

// trackWidth is the number of columns the genome panel draws.
func (m Model) trackWidth() int {
	return max(m.width-4, 10)
}

// renderBrowser renders the genome panel above the Genomic Context table and
// the details panel.
func (m Model) renderBrowser() string {
	height := m.contentHeight()
	if m.panel == nil {
		return m.renderBox("Browser", "No genome viewer configured", m.width, height, true)
	}

	track := m.renderTrack()
	trackHeight := lipgloss.Height(track) + 2
	track = m.renderBox(m.trackTitle(), track, m.width, trackHeight, true)

	rest := max(height-trackHeight, 4)
	tableWidth := m.width
	var details string
	if m.width >= LayoutCompactWidth {
		tableWidth = m.width - DetailsWidth
		details = m.renderBox("Details", m.renderDetails(DetailsWidth-4, rest-2), DetailsWidth, rest, false)
	}
	table := m.renderBox(m.contextTitle(), m.renderContextTable(tableWidth-2, rest-2), tableWidth, rest, false)
	if details != "" {
		table = lipgloss.JoinHorizontal(lipgloss.Top, table, details)
	}
	return lipgloss.JoinVertical(lipgloss.Left, track, table)
}

func (m Model) trackTitle() string {
	win := m.panel.Window()
	if win.IsZero() {
		return "Genome"
	}
	title := fmt.Sprintf("Genome · %s", win)
	if bp, ok := m.panel.BpPerPx(); ok {
		title += fmt.Sprintf(" · %s bp/col", formatScale(bp))
	}
	return title
}

func (m Model) renderTrack() string {
	styles := m.theme.Styles()
	width := m.trackWidth()

	var lines []string
	if m.browse.editing {
		m.browse.gotoInput.Width = max(width-4, 10)
		lines = append(lines, m.browse.gotoInput.View())
	}
	lines = append(lines, styles.FaintText.Render(m.panel.Ruler()))

	spans := m.panel.Spans()
	for _, row := range layoutTrack(spans, width, trackRows) {
		lines = append(lines, renderTrackRow(row, styles))
	}

	cursor := min(max(m.browse.cursor, 0), width-1)
	marker := strings.Repeat(" ", cursor) + "▲"
	if bp, ok := m.panel.CoordinateAt(float64(cursor)); ok {
		label := fmt.Sprintf(" %d", bp)
		if cursor+1+len(label) <= width {
			marker += label
		} else {
			marker = strings.Repeat(" ", max(cursor-len(label), 0)) + strings.TrimSpace(label) + " ▲"
		}
	}
	lines = append(lines, styles.AccentText.Render(marker))
	return strings.Join(lines, "\n")
}

// trackCell is one column of a track row.
type trackCell struct {
	r    rune
	kind cellKind
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellForward
	cellReverse
	cellHighlight
)

// layoutTrack packs spans into at most maxRows rows, greedily placing each
// span in the first row where it does not touch a previous one. Spans that
// fit nowhere are dropped.
func layoutTrack(spans []browser.Span, width, maxRows int) [][]trackCell {
	if width <= 0 || maxRows <= 0 {
		return nil
	}
	sorted := slices.Clone(spans)
	slices.SortStableFunc(sorted, func(a, b browser.Span) int { return a.From - b.From })

	var rows [][]trackCell
	var ends []int
	for _, s := range sorted {
		r := -1
		for i, end := range ends {
			if s.From > end {
				r = i
				break
			}
		}
		if r < 0 {
			if len(rows) >= maxRows {
				continue
			}
			row := make([]trackCell, width)
			for i := range row {
				row[i] = trackCell{r: ' '}
			}
			rows = append(rows, row)
			ends = append(ends, -1)
			r = len(rows) - 1
		}
		ends[r] = s.To + 1
		paintSpan(rows[r], s)
	}
	if len(rows) == 0 {
		row := make([]trackCell, width)
		for i := range row {
			row[i] = trackCell{r: ' '}
		}
		rows = append(rows, row)
	}
	return rows
}

func paintSpan(row []trackCell, s browser.Span) {
	kind := cellForward
	switch {
	case s.Highlighted:
		kind = cellHighlight
	case s.Feature.Reverse:
		kind = cellReverse
	}
	from, to := max(s.From, 0), min(s.To, len(row)-1)
	for c := from; c <= to; c++ {
		row[c] = trackCell{r: '━', kind: kind}
	}
	if to > from {
		if s.Feature.Reverse {
			row[from].r = '◀'
		} else {
			row[to].r = '▶'
		}
	}
	label := []rune(s.Feature.Name)
	if inner := to - from - 1; len(label) > 0 && inner >= len(label)+2 {
		start := from + 1 + (inner-len(label))/2
		for i, r := range label {
			row[start+i].r = r
		}
	}
}

func renderTrackRow(row []trackCell, styles Styles) string {
	var b strings.Builder
	i := 0
	for i < len(row) {
		j := i
		for j < len(row) && row[j].kind == row[i].kind {
			j++
		}
		var text strings.Builder
		for _, c := range row[i:j] {
			text.WriteRune(c.r)
		}
		switch row[i].kind {
		case cellForward:
			b.WriteString(styles.Forward.Render(text.String()))
		case cellReverse:
			b.WriteString(styles.Reverse.Render(text.String()))
		case cellHighlight:
			b.WriteString(styles.Highlight.Render(text.String()))
		default:
			b.WriteString(text.String())
		}
		i = j
	}
	return b.String()
}

func (m Model) contextTitle() string {
	title := fmt.Sprintf("Genomic Context · %d genes", len(m.browse.genes))
	if m.coord != nil {
		if snap := m.coord.State().Snapshot(); snap.HasCoords {
			title += " · " + snap.Locus
		}
	}
	return title
}

func (m Model) renderContextTable(width, height int) string {
	styles := m.theme.Styles()
	genes := m.browse.genes
	if len(genes) == 0 {
		if m.coord != nil && m.coord.Phase() == syncview.PhaseFetching {
			return styles.MutedText.Render(m.spinner.View() + " Loading genes...")
		}
		return styles.MutedText.Render("No genes found in the current viewport")
	}

	selectedTag := ""
	if m.coord != nil {
		selectedTag = m.coord.SelectedLocusTag()
	}

	tagW, nameW, posW, strandW := 14, 8, 9, 2
	productW := max(width-tagW-nameW-2*posW-strandW-7, 8)
	header := strings.Join([]string{
		" ",
		fit("Locus Tag", tagW),
		fit("Gene", nameW),
		fit("Start", posW),
		fit("End", posW),
		fit("±", strandW),
		fit("Product", productW),
	}, " ")
	lines := []string{styles.AccentText.Bold(true).Render(header)}

	rows := max(height-1, 1)
	first := scrollOffset(m.browse.row, len(genes), rows)
	for i := first; i < len(genes) && i < first+rows; i++ {
		g := genes[i]
		mark := " "
		if g.LocusTag != "" && g.LocusTag == selectedTag {
			mark = "●"
		}
		line := strings.Join([]string{
			mark,
			fit(g.LocusTag, tagW),
			fit(g.GeneName, nameW),
			fit(fmt.Sprint(g.Start), posW),
			fit(fmt.Sprint(g.End), posW),
			fit(g.Strand, strandW),
			fit(g.Product, productW),
		}, " ")
		switch {
		case i == m.browse.row:
			line = styles.Selected.Width(width).Render(line)
		case mark != " ":
			line = styles.WarningText.Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatScale(bp float64) string {
	if bp >= 10 {
		return fmt.Sprintf("%.0f", bp)
	}
	return fmt.Sprintf("%.2g", bp)
}
