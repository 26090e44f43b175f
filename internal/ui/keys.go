package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewSearch  key.Binding
	ViewBrowser key.Binding
	ViewLogs    key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Search view
	Query        key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	CycleSort    key.Binding
	ToggleOrder  key.Binding
	Columns      key.Binding
	FacetSpecies key.Binding
	FacetGenome  key.Binding
	FacetOp      key.Binding
	ClearFacets  key.Binding
	Export       key.Binding
	Yank         key.Binding
	YankProtein  key.Binding

	// Shared row actions
	Select key.Binding
	Browse key.Binding

	// Browser view
	PanLeft     key.Binding
	PanRight    key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Goto        key.Binding

	// Logs view
	ToggleFollow key.Binding
	CycleLevel   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		ViewSearch: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Search"),
		),
		ViewBrowser: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Browser"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Query: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search genes"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next page"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort column"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle sort order"),
		),
		Columns: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Choose columns"),
		),
		FacetSpecies: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter by species"),
		),
		FacetGenome: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Filter by genome"),
		),
		FacetOp: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle facet and/or"),
		),
		ClearFacets: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Clear filters"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Export TSV"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy locus tag"),
		),
		YankProtein: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "Copy protein"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Show details"),
		),
		Browse: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Browse gene"),
		),

		PanLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/l", "Pan"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("h/l", "Pan"),
		),
		CursorLeft: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",/.", "Move cursor"),
		),
		CursorRight: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(",/.", "Move cursor"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Zoom out"),
		),
		Goto: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "Go to locus"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle min level"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Browse, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewSearch, k.ViewBrowser, k.ViewLogs},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Query, k.PrevPage, k.NextPage, k.CycleSort, k.ToggleOrder, k.Columns},
		{k.FacetSpecies, k.FacetGenome, k.FacetOp, k.ClearFacets, k.Export, k.Yank},
		{k.PanLeft, k.CursorLeft, k.ZoomIn, k.ZoomOut, k.Goto, k.Browse},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// viewHelp is a help.KeyMap scoped to one view for the footer.
type viewHelp struct {
	short []key.Binding
}

func (v viewHelp) ShortHelp() []key.Binding  { return v.short }
func (v viewHelp) FullHelp() [][]key.Binding { return [][]key.Binding{v.short} }

// forView returns the footer hints of a view.
func (k keyMap) forView(v View) viewHelp {
	switch v {
	case ViewBrowser:
		return viewHelp{short: []key.Binding{k.PanLeft, k.ZoomIn, k.ZoomOut, k.CursorLeft, k.Select, k.Goto, k.Browse, k.Help}}
	case ViewLogs:
		return viewHelp{short: []key.Binding{k.ToggleFollow, k.CycleLevel, k.Up, k.Down, k.Help}}
	default:
		return viewHelp{short: []key.Binding{k.Query, k.Select, k.Browse, k.PrevPage, k.NextPage, k.CycleSort, k.FacetSpecies, k.Export, k.Help}}
	}
}
