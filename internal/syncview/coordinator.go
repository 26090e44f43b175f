package syncview

import (
	"context"
	"log/slog"
	"sync"

	"k8s.io/utils/clock"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/telemetry"
	"github.com/microbe-atlas/locus/internal/viewport"
)

// Options wires a Coordinator.
type Options struct {
	State    *viewport.State
	Viewer   browser.Viewer
	Searcher RegionSearcher
	// Clock drives cooldowns, settle delays and polling. Nil uses the real clock.
	Clock clock.WithDelayedExecution
	// ViewerWidth is the fallback width when the viewer reports none.
	ViewerWidth int
	// PageSize is the single page requested per viewport.
	PageSize       int
	NavigationZoom string
	Logger         *slog.Logger
	Metrics        *telemetry.SyncMetrics
}

// Coordinator owns the navigator, listener and scheduler of one viewer and
// the Guard they share.
type Coordinator struct {
	state     *viewport.State
	guard     *Guard
	navigator *Navigator
	listener  *Listener
	scheduler *Scheduler
	log       *slog.Logger

	mu    sync.Mutex
	unsub func()
}

// New builds a Coordinator. A nil State gets a fresh one.
func New(opts Options) *Coordinator {
	if opts.State == nil {
		opts.State = viewport.New()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	guard := &Guard{}
	scheduler := NewScheduler(SchedulerOptions{
		State:    opts.State,
		Searcher: opts.Searcher,
		Guard:    guard,
		Clock:    opts.Clock,
		PageSize: opts.PageSize,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	return &Coordinator{
		state: opts.State,
		guard: guard,
		log:   opts.Logger,
		navigator: NewNavigator(NavigatorOptions{
			State:   opts.State,
			Viewer:  opts.Viewer,
			Clock:   opts.Clock,
			Zoom:    opts.NavigationZoom,
			Logger:  opts.Logger,
			Metrics: opts.Metrics,
		}),
		listener: NewListener(ListenerOptions{
			State:        opts.State,
			Viewer:       opts.Viewer,
			Clock:        opts.Clock,
			Guard:        guard,
			DefaultWidth: opts.ViewerWidth,
			OnAccept:     scheduler.Trigger,
			Logger:       opts.Logger,
			Metrics:      opts.Metrics,
		}),
		scheduler: scheduler,
	}
}

// Start mounts the scheduler. Polling is driven by the caller through Poll
// or Run. Fetches are triggered by mount, Remount and accepted polls only.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.unsub == nil {
		c.unsub = c.state.Subscribe(c.traceSource())
	}
	c.mu.Unlock()
	c.scheduler.Start(ctx)
}

// Stop cancels timers and in-flight fetches.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	c.navigator.Stop()
	c.scheduler.Stop()
}

// traceSource logs change source transitions at debug level.
func (c *Coordinator) traceSource() func(viewport.Snapshot) {
	var (
		mu   sync.Mutex
		last viewport.ChangeSource
	)
	return func(snap viewport.Snapshot) {
		mu.Lock()
		prev := last
		last = snap.Source
		mu.Unlock()
		if prev != snap.Source {
			c.log.Debug("change source", "component", "coordinator", "from", prev.String(), "to", snap.Source.String(), "locus", snap.Locus)
		}
	}
}

// Remount forgets fetch bookkeeping, as when the viewer page is left and
// re-entered, and triggers a fetch for the current viewport.
func (c *Coordinator) Remount() {
	c.guard.reset()
	c.scheduler.Trigger(c.state.Snapshot())
}

// BrowseGene handles a Browse action from a table.
func (c *Coordinator) BrowseGene(table Table, gene portal.Gene) {
	c.navigator.BrowseGene(table, gene)
}

// Poll samples the viewer once.
func (c *Coordinator) Poll() Decision {
	return c.listener.Poll()
}

// Run polls until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	c.listener.Run(ctx, PollInterval)
}

// Phase reports the coordinator phase.
func (c *Coordinator) Phase() Phase {
	return c.listener.Phase()
}

// Result returns the Genomic Context genes.
func (c *Coordinator) Result() Result {
	return c.scheduler.Result()
}

// SelectedLocusTag returns the highlighted gene.
func (c *Coordinator) SelectedLocusTag() string {
	return c.state.Snapshot().SelectedLocusTag
}

// State returns the shared viewport.
func (c *Coordinator) State() *viewport.State {
	return c.state
}

// Wait blocks until the in-flight fetch completes.
func (c *Coordinator) Wait() {
	c.scheduler.Wait()
}
