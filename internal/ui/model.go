package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/config"
	"github.com/microbe-atlas/locus/internal/feature"
	"github.com/microbe-atlas/locus/internal/logging"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/prefs"
	"github.com/microbe-atlas/locus/internal/state"
	"github.com/microbe-atlas/locus/internal/syncview"
)

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewBrowser
	ViewLogs
)

var viewNames = []string{"Search", "Browser", "Logs"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Portal      portal.GeneSearcher
	Store       *state.Store
	Coordinator *syncview.Coordinator
	Panel       *browser.Panel
	Config      *config.Config
	Prefs       prefs.Prefs
	PrefsPath   string
	PollTick    time.Duration
	// ExportDir receives TSV exports. Empty means the working directory.
	ExportDir string
	// Clipboard writes text to the system clipboard. Nil uses atotto/clipboard.
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx       context.Context
	portal    portal.GeneSearcher
	store     *state.Store
	coord     *syncview.Coordinator
	panel     *browser.Panel
	details   *feature.Panel
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	exportDir string
	copyText  func(string) error
	log       *slog.Logger

	// UI state
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	now         time.Time

	search searchState
	browse browseState
	logs   logState

	status   string
	statusAt time.Time
	statusOK bool
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	p := opts.Prefs
	if len(p.Columns) == 0 {
		p = prefs.Default()
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	var loader feature.ProteinLoader
	if opts.Portal != nil {
		loader = opts.Portal
	}

	m := Model{
		ctx:         ctx,
		portal:      opts.Portal,
		store:       opts.Store,
		coord:       opts.Coordinator,
		panel:       opts.Panel,
		details:     feature.NewPanel(ctx, loader),
		config:      cfg,
		prefs:       p,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		exportDir:   opts.ExportDir,
		copyText:    copyText,
		log:         logging.Component("ui"),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		theme:       GetTheme(p.Theme),
		currentView: ViewSearch,
		search:      newSearchState(p, cfg.PageSize),
		browse:      newBrowseState(),
		logs:        newLogState(),
	}
	m.search.loading = opts.Portal != nil
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.portal != nil {
		cmds = append(cmds, searchCmd(m.ctx, m.portal, m.search.seq, m.search.request()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizePanels()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchResultMsg:
		m.applySearchResult(msg)
		return m, nil

	case sequencesMsg:
		cmd := m.applySequences(msg)
		return m, cmd

	case columnsMsg:
		m.prefs.Columns = []string(msg)
		m.savePrefs()
		m.setStatus("Columns updated", true)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setStatus("Export failed: "+msg.err.Error(), false)
		} else {
			m.setStatus(formatExported(msg), true)
		}
		return m, nil

	case logsMsg:
		m.applyLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey routes keyboard input: overlays first, then text inputs, then
// global keys, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.search.editing {
		return m.handleQueryInput(msg)
	}
	if m.browse.editing {
		return m.handleGotoInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		cmd := m.setView((m.currentView + 1) % View(len(viewNames)))
		return m, cmd
	case key.Matches(msg, m.keys.ViewSearch):
		cmd := m.setView(ViewSearch)
		return m, cmd
	case key.Matches(msg, m.keys.ViewBrowser):
		cmd := m.setView(ViewBrowser)
		return m, cmd
	case key.Matches(msg, m.keys.ViewLogs):
		cmd := m.setView(ViewLogs)
		return m, cmd
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewBrowser:
		return m.handleBrowserKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// setView switches views. Entering the browser remounts the coordinator the
// way a page re-entry would.
func (m *Model) setView(v View) tea.Cmd {
	if v == m.currentView {
		return nil
	}
	prev := m.currentView
	m.currentView = v
	switch v {
	case ViewBrowser:
		if prev != ViewBrowser && m.coord != nil {
			m.coord.Remount()
		}
	case ViewLogs:
		m.logs.lastRead = m.now
		return readLogsCmd(m.config.LogPath(), LogBufferLimit)
	}
	return nil
}

// handleTick processes the polling tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	m.now = t
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewBrowser {
		m.stepBrowser()
	}

	if m.currentView == ViewLogs && m.logs.follow && t.Sub(m.logs.lastRead) >= LogRefreshEvery {
		m.logs.lastRead = t
		cmds = append(cmds, readLogsCmd(m.config.LogPath(), LogBufferLimit))
	}

	if m.status != "" && t.Sub(m.statusAt) > StatusMessageTTL {
		m.status = ""
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	for _, seq := range snap.Sequences {
		m.browse.sequences[seq.SeqID] = seq.Region()
	}
	if m.panel != nil && m.panel.Sequence().IsZero() && len(snap.Sequences) > 0 {
		m.panel.SetSequence(snap.Sequences[0].Region())
	}
}

func (m *Model) resizePanels() {
	if m.panel != nil {
		m.panel.Resize(m.trackWidth())
	}
	m.resizeLogViewport()
}

func (m *Model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
	m.statusAt = m.now
	if m.statusAt.IsZero() {
		m.statusAt = time.Now()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

func (m *Model) copyToClipboard(label, text string) {
	if text == "" {
		m.setStatus("Nothing to copy", false)
		return
	}
	if err := m.copyText(text); err != nil {
		m.log.Warn("clipboard write failed", "error", err)
		m.setStatus("Clipboard unavailable: "+err.Error(), false)
		return
	}
	m.setStatus("Copied "+label, true)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	if opts.Context == nil {
		opts.Context = ctx
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	m.details.Wait()
	return err
}
