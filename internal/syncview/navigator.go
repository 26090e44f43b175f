package syncview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/telemetry"
	"github.com/microbe-atlas/locus/internal/viewport"
)

// Table identifies which gene table a Browse action came from.
type Table int

const (
	// SyncTable is the Genomic Context table that follows the viewport.
	SyncTable Table = iota
	// SearchTable is the paginated search results table.
	SearchTable
)

func (t Table) String() string {
	if t == SearchTable {
		return "search"
	}
	return "sync"
}

// Source returns the change source a navigation from t stamps.
func (t Table) Source() viewport.ChangeSource {
	if t == SearchTable {
		return viewport.SourceTableRowSearch
	}
	return viewport.SourceTableRowSync
}

// Navigator handles Browse actions from either gene table.
type Navigator struct {
	state   *viewport.State
	viewer  browser.Viewer
	clock   clock.WithDelayedExecution
	zoom    string
	log     *slog.Logger
	metrics *telemetry.SyncMetrics

	mu     sync.Mutex
	timers []clock.Timer
}

// NavigatorOptions configures a Navigator.
type NavigatorOptions struct {
	State   *viewport.State
	Viewer  browser.Viewer
	Clock   clock.WithDelayedExecution
	Zoom    string
	Logger  *slog.Logger
	Metrics *telemetry.SyncMetrics
}

// NewNavigator builds a Navigator. A nil clock uses the real clock.
func NewNavigator(opts NavigatorOptions) *Navigator {
	n := &Navigator{
		state:   opts.State,
		viewer:  opts.Viewer,
		clock:   opts.Clock,
		zoom:    opts.Zoom,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if n.clock == nil {
		n.clock = clock.RealClock{}
	}
	if n.log == nil {
		n.log = slog.Default()
	}
	if n.zoom == "" {
		n.zoom = "navigation"
	}
	return n
}

// BrowseGene records a table navigation, moves the viewer when the click came
// from the search table, and arms the settle reload and the cooldown cleanup.
func (n *Navigator) BrowseGene(table Table, gene portal.Gene) {
	now := n.clock.Now()
	n.state.SetLastTableNavigationTime(now)
	n.state.SetChangeSource(table.Source())
	n.state.SetSelectedLocusTag(gene.LocusTag)
	if h, ok := n.viewer.(browser.Highlighter); ok {
		h.SetHighlight(gene.LocusTag)
	}
	n.metrics.RecordNavigation(context.Background(), table.String())

	if table == SearchTable {
		n.navigateTo(gene)
	}

	reloader, canReload := n.viewer.(browser.TrackReloader)
	if !canReload {
		n.log.Debug("viewer cannot reload tracks; skipping", "component", "navigator", "locus_tag", gene.LocusTag)
	}
	n.schedule(SettleDelay, func() {
		if canReload {
			reloader.ReloadTracks()
		}
	})

	state := n.state
	n.schedule(Cooldown, func() {
		state.ClearNavigation(now)
	})
}

func (n *Navigator) navigateTo(gene portal.Gene) {
	target := gene.Region().Pad(NavigationPadding)
	nav, ok := n.viewer.(browser.Navigator)
	if !ok {
		n.log.Warn("viewer cannot navigate; skipping", "component", "navigator", "locus", target.String())
		return
	}
	if err := nav.Navigate(target.String()); err != nil {
		n.log.Warn("viewer navigation failed", "component", "navigator", "locus", target.String(), "error", err)
		return
	}
	z, ok := n.viewer.(browser.Zoomer)
	if !ok {
		n.log.Debug("viewer cannot zoom; skipping", "component", "navigator", "level", n.zoom)
		return
	}
	if err := z.ZoomTo(n.zoom); err != nil {
		n.log.Warn("viewer zoom failed", "component", "navigator", "level", n.zoom, "error", err)
	}
}

// schedule runs fn after d. fn must not call back into the clock.
func (n *Navigator) schedule(d time.Duration, fn func()) {
	t := n.clock.AfterFunc(d, fn)
	n.mu.Lock()
	n.timers = append(n.timers, t)
	n.mu.Unlock()
}

// Stop cancels pending reloads and cleanups.
func (n *Navigator) Stop() {
	n.mu.Lock()
	timers := n.timers
	n.timers = nil
	n.mu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
}
