// Package ui provides the locus terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all view state and is updated
// only from Update; long running work (portal searches, sequence lookups,
// log reads, TSV export) runs in tea.Cmd functions whose results come back
// as messages. A tick every DefaultUIInterval samples the status store,
// steps the genome panel animation and, while the browser view is shown,
// polls the sync-view coordinator.
//
// # Views
//
//   - Search: free-text gene search with paging, sorting, facet filters, a
//     column chooser persisted in preferences, TSV export and a details panel
//   - Browser: the text genome panel, the Genomic Context table that follows
//     the viewport, and the same details panel
//   - Logs: a tail of the client's own JSON log with a level filter
//
// # Browsing a Gene
//
// Pressing b on a search row browses it as a search-table navigation: the
// panel moves to the padded gene region and the Genomic Context table keeps
// its rows until the navigation cooldown ends. Pressing b on a Genomic
// Context row only selects and highlights the gene. Both go through
// syncview.Coordinator.BrowseGene.
//
// Entering the browser view remounts the coordinator, which forgets fetch
// bookkeeping and loads the current viewport again.
//
// # Themes
//
// Nightfox, Kanagawa and Slate palettes are available; T cycles them and the
// choice is saved to the preferences file.
package ui
