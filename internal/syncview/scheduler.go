package syncview

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"k8s.io/utils/clock"

	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/telemetry"
	"github.com/microbe-atlas/locus/internal/viewport"
)

// RegionSearcher fetches the genes overlapping a region, sorted by start.
type RegionSearcher interface {
	GenesInRegion(ctx context.Context, region genome.Region, limit int) ([]portal.Gene, error)
}

// Result is what the Genomic Context table shows.
type Result struct {
	Genes []portal.Gene
	// Region is the viewport the genes belong to. Zero when nothing was loaded.
	Region genome.Region
	// Failed is set when the last applied fetch errored.
	Failed bool
	// Generation increases every time Genes is replaced.
	Generation int
}

// Scheduler fetches the genes of a viewport when triggered, at most one fetch
// at a time and never twice for a settled viewport. Only mount and accepted
// viewer observations trigger it; table navigations and other state writes
// do not.
type Scheduler struct {
	state    *viewport.State
	searcher RegionSearcher
	guard    *Guard
	clock    clock.PassiveClock
	limit    int
	log      *slog.Logger
	metrics  *telemetry.SyncMetrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	result Result
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	State    *viewport.State
	Searcher RegionSearcher
	Guard    *Guard
	Clock    clock.PassiveClock
	PageSize int
	Logger   *slog.Logger
	Metrics  *telemetry.SyncMetrics
}

// NewScheduler builds a Scheduler. Start performs the mount fetch.
func NewScheduler(opts SchedulerOptions) *Scheduler {
	s := &Scheduler{
		state:    opts.State,
		searcher: opts.Searcher,
		guard:    opts.Guard,
		clock:    opts.Clock,
		limit:    opts.PageSize,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
	if s.guard == nil {
		s.guard = &Guard{}
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.limit <= 0 {
		s.limit = DefaultPageSize
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Start triggers once for the current viewport, as on mount. Fetches use
// ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.Trigger(s.state.Snapshot())
}

// Stop cancels any in-flight fetch and waits for it. Later triggers are
// ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// Wait blocks until the in-flight fetch, if any, has been applied.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Trigger considers snap for a fetch. Snapshots without coordinates, an
// already settled signature, a busy guard and a stopped scheduler are all
// no-ops. It never blocks on the network.
func (s *Scheduler) Trigger(snap viewport.Snapshot) {
	if !snap.HasCoords {
		return
	}
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}
	region := snap.Region()
	sig := region.Signature()
	ok, reason := s.guard.begin(sig)
	if !ok {
		if reason == "busy" {
			s.log.Debug("viewport fetch dropped", "component", "scheduler", "locus", region.String(), "reason", reason)
		}
		return
	}

	s.wg.Add(1)
	go s.fetch(ctx, region, sig)
}

func (s *Scheduler) fetch(ctx context.Context, region genome.Region, sig string) {
	defer s.wg.Done()
	started := s.clock.Now()

	genes, err := s.searcher.GenesInRegion(ctx, region, s.limit)

	current := s.state.Snapshot().Region().Signature()
	stale := current != sig

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		s.log.Warn("viewport fetch failed", "component", "scheduler", "locus", region.String(), "error", err)
		s.apply(Result{Region: region, Failed: true})
	case stale:
		outcome = "stale"
		s.log.Debug("viewport fetch superseded", "component", "scheduler", "locus", region.String(), "current", current)
	default:
		sorted := slices.Clone(genes)
		slices.SortStableFunc(sorted, func(a, b portal.Gene) int {
			switch {
			case a.Start < b.Start:
				return -1
			case a.Start > b.Start:
				return 1
			}
			return 0
		})
		s.apply(Result{Genes: sorted, Region: region})
		s.log.Debug("viewport fetch settled", "component", "scheduler", "locus", region.String(), "genes", len(sorted))
	}

	s.guard.finish(sig, err == nil)
	s.metrics.RecordFetch(context.Background(), outcome, s.clock.Since(started))
}

func (s *Scheduler) apply(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Generation = s.result.Generation + 1
	s.result = r
}

// Result returns a copy of the displayed genes.
func (s *Scheduler) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.result
	r.Genes = slices.Clone(s.result.Genes)
	return r
}

// Guard exposes the fetch bookkeeping.
func (s *Scheduler) Guard() *Guard {
	return s.guard
}
