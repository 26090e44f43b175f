package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/microbe-atlas/locus/internal/export"
	"github.com/microbe-atlas/locus/internal/facets"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/prefs"
	"github.com/microbe-atlas/locus/internal/syncview"
)

// Facet fields the search view can filter on from a selected row.
const (
	facetSpecies = "species"
	facetGenome  = "genome_id"
)

// searchState holds the search view: the query being edited, the last
// request and its page of results.
type searchState struct {
	input   textinput.Model
	editing bool

	text      string
	page      int
	perPage   int
	sortField string
	sortOrder portal.SortOrder
	facets    *facets.Set

	// seq numbers requests so a slow response never overwrites a newer one.
	seq     int
	loading bool
	result  portal.SearchResult
	err     error
	row     int
}

func newSearchState(p prefs.Prefs, perPage int) searchState {
	ti := textinput.New()
	ti.Placeholder = "gene name, product, locus tag..."
	ti.Prompt = "/ "
	ti.CharLimit = 200

	order := portal.SortAsc
	if p.SortOrder == string(portal.SortDesc) {
		order = portal.SortDesc
	}
	if perPage <= 0 {
		perPage = 25
	}
	return searchState{
		input:     ti,
		page:      1,
		perPage:   perPage,
		sortField: p.SortField,
		sortOrder: order,
		facets:    &facets.Set{},
		seq:       1,
	}
}

// request builds the portal query for the current search settings.
func (s searchState) request() portal.SearchQuery {
	q := portal.SearchQuery{
		Text:      s.text,
		Page:      s.page,
		PerPage:   s.perPage,
		SortField: s.sortField,
		SortOrder: s.sortOrder,
	}
	s.facets.Apply(&q)
	return q
}

func (s searchState) selected() (portal.Gene, bool) {
	if s.row < 0 || s.row >= len(s.result.Items) {
		return portal.Gene{}, false
	}
	return s.result.Items[s.row], true
}

type searchResultMsg struct {
	seq    int
	query  portal.SearchQuery
	result portal.SearchResult
	err    error
}

func searchCmd(ctx context.Context, client portal.GeneSearcher, seq int, q portal.SearchQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		res, err := client.SearchGenes(ctx, q)
		return searchResultMsg{seq: seq, query: q, result: res, err: err}
	}
}

// runSearch issues the current query, superseding any request in flight.
func (m *Model) runSearch() tea.Cmd {
	if m.portal == nil {
		return nil
	}
	m.search.seq++
	m.search.loading = true
	return searchCmd(m.ctx, m.portal, m.search.seq, m.search.request())
}

func (m *Model) applySearchResult(msg searchResultMsg) {
	if msg.seq != m.search.seq {
		return
	}
	m.search.loading = false
	if msg.err != nil {
		m.log.Warn("gene search failed", "query", msg.query.Text, "error", msg.err)
		m.search.err = msg.err
		m.search.result = portal.SearchResult{}
		m.search.row = 0
		return
	}
	m.search.err = nil
	m.search.result = msg.result
	m.search.row = min(m.search.row, max(len(msg.result.Items)-1, 0))
}

func (m Model) handleQueryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.editing = false
		m.search.input.Blur()
		m.search.text = strings.TrimSpace(m.search.input.Value())
		m.search.page = 1
		m.search.row = 0
		cmd := m.runSearch()
		return m, cmd
	case tea.KeyEsc:
		m.search.editing = false
		m.search.input.Blur()
		m.search.input.SetValue(m.search.text)
		return m, nil
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.search
	count := len(s.result.Items)

	switch {
	case key.Matches(msg, m.keys.Query):
		s.editing = true
		s.input.SetValue(s.text)
		s.input.CursorEnd()
		cmd := s.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Down):
		if s.row < count-1 {
			s.row++
		}
	case key.Matches(msg, m.keys.Up):
		if s.row > 0 {
			s.row--
		}
	case key.Matches(msg, m.keys.Top):
		s.row = 0
	case key.Matches(msg, m.keys.Bottom):
		s.row = max(count-1, 0)

	case key.Matches(msg, m.keys.NextPage):
		if s.page < s.result.Pages() {
			s.page++
			s.row = 0
			cmd := m.runSearch()
			return m, cmd
		}
	case key.Matches(msg, m.keys.PrevPage):
		if s.page > 1 {
			s.page--
			s.row = 0
			cmd := m.runSearch()
			return m, cmd
		}

	case key.Matches(msg, m.keys.CycleSort):
		s.sortField = nextSortField(m.prefs.Columns, s.sortField)
		s.page = 1
		m.prefs.SortField = s.sortField
		m.savePrefs()
		cmd := m.runSearch()
		return m, cmd
	case key.Matches(msg, m.keys.ToggleOrder):
		if s.sortOrder == portal.SortDesc {
			s.sortOrder = portal.SortAsc
		} else {
			s.sortOrder = portal.SortDesc
		}
		s.page = 1
		m.prefs.SortOrder = string(s.sortOrder)
		m.savePrefs()
		cmd := m.runSearch()
		return m, cmd

	case key.Matches(msg, m.keys.Columns):
		m.modal = newColumnsModal(m.prefs)
		return m, nil

	case key.Matches(msg, m.keys.FacetSpecies):
		if g, ok := s.selected(); ok {
			cmd := m.toggleFacet(facetSpecies, g.Species)
			return m, cmd
		}
	case key.Matches(msg, m.keys.FacetGenome):
		if g, ok := s.selected(); ok {
			cmd := m.toggleFacet(facetGenome, g.GenomeID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.FacetOp):
		if s.facets.Len() == 0 {
			return m, nil
		}
		for _, field := range s.facets.Fields() {
			s.facets.ToggleOperator(field)
		}
		s.page = 1
		cmd := m.runSearch()
		return m, cmd
	case key.Matches(msg, m.keys.ClearFacets):
		if s.facets.Len() == 0 {
			return m, nil
		}
		s.facets.Clear()
		s.page = 1
		cmd := m.runSearch()
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		if count == 0 {
			m.setStatus("Nothing to export", false)
			return m, nil
		}
		path := exportPath(m.exportDir, m.now, s.page)
		return m, exportCmd(path, slices.Clone(s.result.Items), slices.Clone(m.prefs.Columns))

	case key.Matches(msg, m.keys.Yank):
		if g, ok := s.selected(); ok {
			m.copyToClipboard("locus tag", g.LocusTag)
		}
	case key.Matches(msg, m.keys.YankProtein):
		m.copyToClipboard("protein sequence", m.details.Selection().Protein)

	case key.Matches(msg, m.keys.Select):
		if g, ok := s.selected(); ok {
			m.showGeneDetails(g)
		}
	case key.Matches(msg, m.keys.Browse):
		if g, ok := s.selected(); ok {
			cmd := m.browseGene(syncview.SearchTable, g)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) toggleFacet(field, value string) tea.Cmd {
	if strings.TrimSpace(value) == "" {
		m.setStatus("Selected gene has no "+titleCase(field), false)
		return nil
	}
	m.search.facets.Toggle(field, value)
	m.search.page = 1
	m.search.row = 0
	return m.runSearch()
}

func (m *Model) showGeneDetails(g portal.Gene) {
	raw, err := json.Marshal(g)
	if err != nil {
		m.log.Warn("encode gene for details failed", "locus_tag", g.LocusTag, "error", err)
		return
	}
	m.details.Select(raw, true)
}

// nextSortField cycles through the visible columns.
func nextSortField(columns []string, current string) string {
	if len(columns) == 0 {
		return current
	}
	i := slices.Index(columns, current)
	return columns[(i+1)%len(columns)]
}

func exportPath(dir string, now time.Time, page int) string {
	if now.IsZero() {
		now = time.Now()
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("locus-genes-%s-p%d.tsv", now.Format("20060102-150405"), page))
}

// renderSearch renders the search view: query line, results table and the
// details panel beside or below it.
func (m Model) renderSearch() string {
	height := m.contentHeight()
	if m.width < LayoutCompactWidth {
		detailsHeight := min(12, height/2)
		table := m.renderBox(m.searchTitle(), m.renderSearchTable(m.width-2, height-detailsHeight-2), m.width, height-detailsHeight, true)
		details := m.renderBox("Details", m.renderDetails(m.width-4, detailsHeight-2), m.width, detailsHeight, false)
		return lipgloss.JoinVertical(lipgloss.Left, table, details)
	}
	tableWidth := m.width - DetailsWidth
	table := m.renderBox(m.searchTitle(), m.renderSearchTable(tableWidth-2, height-2), tableWidth, height, true)
	details := m.renderBox("Details", m.renderDetails(DetailsWidth-4, height-2), DetailsWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, table, details)
}

func (m Model) searchTitle() string {
	s := m.search
	title := "Genes"
	if s.text != "" {
		title += fmt.Sprintf(" %q", s.text)
	}
	title += fmt.Sprintf(" · %d total · page %d/%d · %s%s", s.result.Total, s.page, max(s.result.Pages(), 1), export.Header(s.sortField), sortArrow(s.sortOrder))
	if f := s.facets.String(); f != "" {
		title += " · " + f
	}
	return title
}

func (m Model) renderSearchTable(width, height int) string {
	styles := m.theme.Styles()
	s := m.search

	var lines []string
	if s.editing {
		s.input.Width = max(width-4, 10)
		lines = append(lines, s.input.View())
	} else if s.text != "" {
		lines = append(lines, styles.MutedText.Render("/ "+s.text))
	} else {
		lines = append(lines, styles.FaintText.Render("/ to search"))
	}

	switch {
	case s.loading && len(s.result.Items) == 0:
		lines = append(lines, "", styles.MutedText.Render(m.spinner.View()+" Searching..."))
		return strings.Join(lines, "\n")
	case s.err != nil:
		lines = append(lines, "", styles.DangerText.Render("Search failed: "+s.err.Error()))
		return strings.Join(lines, "\n")
	case len(s.result.Items) == 0:
		lines = append(lines, "", styles.MutedText.Render("No genes match the current search"))
		return strings.Join(lines, "\n")
	}

	widths := columnWidths(m.prefs.Columns, width)
	header := make([]string, len(m.prefs.Columns))
	for i, col := range m.prefs.Columns {
		label := export.Header(col)
		if col == s.sortField {
			label += sortArrow(s.sortOrder)
		}
		header[i] = fit(label, widths[i])
	}
	lines = append(lines, styles.AccentText.Bold(true).Render(strings.Join(header, " ")))

	rows := max(height-len(lines), 1)
	first := scrollOffset(s.row, len(s.result.Items), rows)
	for i := first; i < len(s.result.Items) && i < first+rows; i++ {
		g := s.result.Items[i]
		cells := make([]string, len(m.prefs.Columns))
		for c, col := range m.prefs.Columns {
			cells[c] = fit(export.Value(g, col), widths[c])
		}
		line := strings.Join(cells, " ")
		if i == s.row {
			line = styles.Selected.Width(width).Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func sortArrow(order portal.SortOrder) string {
	if order == portal.SortDesc {
		return "↓"
	}
	return "↑"
}

// columnWidths splits width between columns, giving text columns the slack.
func columnWidths(columns []string, width int) []int {
	fixed := map[string]int{
		"locus_tag": 14,
		"gene_name": 8,
		"seq_id":    13,
		"start":     9,
		"end":       9,
		"strand":    6,
		"genome_id": 16,
	}
	widths := make([]int, len(columns))
	used := max(len(columns)-1, 0)
	var flex []int
	for i, col := range columns {
		if w, ok := fixed[col]; ok {
			widths[i] = w
			used += w
			continue
		}
		flex = append(flex, i)
	}
	if len(flex) == 0 {
		return widths
	}
	share := max((width-used)/len(flex), 8)
	for _, i := range flex {
		widths[i] = share
	}
	return widths
}

// scrollOffset returns the first row to draw so that selected stays visible.
func scrollOffset(selected, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	first := selected - visible/2
	return max(0, min(first, total-visible))
}
