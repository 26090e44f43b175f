package syncview

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/telemetry"
	"github.com/microbe-atlas/locus/internal/viewport"
)

// Decision is the outcome of one viewer observation.
type Decision int

const (
	Accepted Decision = iota
	SuppressedSource
	SuppressedCooldown
	SuppressedGrace
	NoRegion
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case SuppressedSource:
		return "suppressed-source"
	case SuppressedCooldown:
		return "suppressed-cooldown"
	case SuppressedGrace:
		return "suppressed-grace"
	default:
		return "no-region"
	}
}

// Phase summarises the coordinator for display.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCooldown
	PhaseFetching
)

func (p Phase) String() string {
	switch p {
	case PhaseCooldown:
		return "cooldown"
	case PhaseFetching:
		return "fetching"
	default:
		return "idle"
	}
}

// Listener samples the viewer's visible region and writes it to the shared
// state unless a table navigation is still settling.
type Listener struct {
	state        *viewport.State
	viewer       browser.Viewer
	clock        clock.Clock
	guard        *Guard
	defaultWidth int
	onAccept     func(viewport.Snapshot)
	log          *slog.Logger
	metrics      *telemetry.SyncMetrics
}

// ListenerOptions configures a Listener.
type ListenerOptions struct {
	State        *viewport.State
	Viewer       browser.Viewer
	Clock        clock.Clock
	Guard        *Guard
	DefaultWidth int
	// OnAccept runs with the new snapshot after an accepted observation is
	// written to the state.
	OnAccept func(viewport.Snapshot)
	Logger   *slog.Logger
	Metrics  *telemetry.SyncMetrics
}

// NewListener builds a Listener. A nil clock uses the real clock and a nil
// guard gets a private one.
func NewListener(opts ListenerOptions) *Listener {
	l := &Listener{
		state:        opts.State,
		viewer:       opts.Viewer,
		clock:        opts.Clock,
		guard:        opts.Guard,
		defaultWidth: opts.DefaultWidth,
		onAccept:     opts.OnAccept,
		log:          opts.Logger,
		metrics:      opts.Metrics,
	}
	if l.clock == nil {
		l.clock = clock.RealClock{}
	}
	if l.guard == nil {
		l.guard = &Guard{}
	}
	if l.log == nil {
		l.log = slog.Default()
	}
	return l
}

// Poll reads the viewer and observes the result.
func (l *Listener) Poll() Decision {
	region, ok := browser.VisibleRegion(l.viewer, l.defaultWidth)
	if !ok {
		return NoRegion
	}
	return l.Observe(region)
}

// Observe applies the suppression rules to one observed region. Table
// sources and the cooldown both block and stamp the guard; a block within
// RecentBlockWindow keeps blocking after they lapse.
func (l *Listener) Observe(region genome.Region) Decision {
	now := l.clock.Now()
	snap := l.state.Snapshot()

	decision := Accepted
	switch {
	case snap.Source.FromTable():
		decision = SuppressedSource
	case snap.InCooldown(now, Cooldown):
		decision = SuppressedCooldown
	}

	if decision != Accepted {
		l.guard.block(now)
	} else if !l.guard.unblockUnlessRecent(now) {
		decision = SuppressedGrace
	}

	l.metrics.RecordObservation(context.Background(), decision.String())
	if decision != Accepted {
		return decision
	}

	if snap.HasCoords && snap.Region() != region {
		l.log.Debug("viewport changed", "component", "listener", "locus", region.String())
	}
	l.state.SetViewport(region.SeqID, region.Start, region.End, viewport.SourceExternalViewer)
	if l.onAccept != nil {
		l.onAccept(l.state.Snapshot())
	}
	return decision
}

// Phase reports cooldown while any suppression rule applies, then fetching
// while the guard holds a fetch, and idle otherwise.
func (l *Listener) Phase() Phase {
	now := l.clock.Now()
	snap := l.state.Snapshot()
	switch {
	case snap.Source.FromTable(), snap.InCooldown(now, Cooldown), l.guard.recentlyBlocked(now):
		return PhaseCooldown
	case l.guard.IsFetching():
		return PhaseFetching
	default:
		return PhaseIdle
	}
}

// Run polls every interval until ctx is done. A non-positive interval uses
// PollInterval.
func (l *Listener) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = PollInterval
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.clock.After(interval):
			l.Poll()
		}
	}
}
