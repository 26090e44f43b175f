package syncview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/microbe-atlas/locus/internal/browser"
	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/viewport"
)

type harness struct {
	clock    *clocktesting.FakeClock
	searcher *fakeSearcher
	coord    *Coordinator
}

func newHarness(t *testing.T, viewer browser.Viewer) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), searcher: newFakeSearcher()}
	h.coord = New(Options{
		Viewer:   viewer,
		Searcher: h.searcher,
		Clock:    h.clock,
	})
	h.coord.Start(context.Background())
	t.Cleanup(h.coord.Stop)
	return h
}

// pollFor advances the clock in PollInterval steps, polling after each, and
// returns the fetch count observed after every poll.
func (h *harness) pollFor(d time.Duration, each func()) []int {
	var counts []int
	for elapsed := time.Duration(0); elapsed < d; elapsed += PollInterval {
		h.clock.Step(PollInterval)
		if each != nil {
			each()
		}
		h.coord.Poll()
		h.coord.Wait()
		counts = append(counts, h.searcher.count())
	}
	return counts
}

func TestSearchBrowse_SuppressesAnimation(t *testing.T) {
	panel := browser.NewPanel(genome.Region{SeqID: "seq1", Start: 0, End: 100_000}, 100)
	h := newHarness(t, panel)
	require.NoError(t, panel.Navigate("seq1:40000..60000"))
	for panel.Step() {
	}

	require.Equal(t, Accepted, h.coord.Poll())
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())

	h.coord.BrowseGene(SearchTable, gene("locus_1", 1000, 2000))
	assert.Equal(t, "locus_1", h.coord.SelectedLocusTag())
	assert.Equal(t, "locus_1", panel.Highlight())
	assert.Equal(t, PhaseCooldown, h.coord.Phase())

	var seen []genome.Region
	counts := h.pollFor(Cooldown, func() {
		panel.Step()
		seen = append(seen, panel.Window())
	})
	for i, c := range counts {
		assert.Equal(t, 1, c, "fetch during cooldown at poll %d", i)
	}
	assert.Greater(t, len(uniqueRegions(seen)), 2, "viewer reported intermediate regions")
	assert.Equal(t, genome.Region{SeqID: "seq1", Start: 500, End: 2500}, panel.Window())
	require.Eventually(t, func() bool { return panel.Reloads() >= 1 }, eventually, tick)

	// once cooldown and grace have lapsed the settled region is fetched
	h.pollFor(2*time.Second, nil)
	require.Equal(t, 2, h.searcher.count())
	assert.Equal(t, region(500, 2500), h.searcher.call(1))
	assert.Equal(t, PhaseIdle, h.coord.Phase())
}

func TestViewerRegion_FetchedOnce(t *testing.T) {
	viewer := newRecordingViewer()
	h := newHarness(t, viewer)
	h.searcher.genes["seq1:10000:15000"] = []portal.Gene{gene("g2", 12_000, 13_000), gene("g1", 10_100, 10_900)}

	require.Equal(t, Accepted, h.coord.Poll())
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())
	assert.Equal(t, region(10_000, 15_000), h.searcher.call(0))

	res := h.coord.Result()
	require.Len(t, res.Genes, 2)
	assert.Equal(t, "g1", res.Genes[0].LocusTag)

	require.Equal(t, Accepted, h.coord.Poll())
	h.coord.Wait()
	assert.Equal(t, 1, h.searcher.count())
}

func TestSyncRowClick_DoesNotFetch(t *testing.T) {
	viewer := newRecordingViewer()
	h := newHarness(t, viewer)
	h.coord.Poll()
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())
	before := h.coord.State().Snapshot().Region()

	h.coord.BrowseGene(SyncTable, gene("locus_2", 12_000, 12_800))
	assert.Equal(t, "locus_2", h.coord.SelectedLocusTag())
	assert.Empty(t, viewer.navigations())

	h.clock.Step(SettleDelay)
	require.Eventually(t, func() bool { return viewer.reloadCount() == 1 }, eventually, tick)

	h.coord.Poll()
	h.coord.Wait()
	assert.Equal(t, before, h.coord.State().Snapshot().Region())
	assert.Equal(t, 1, h.searcher.count())
}

func TestInFlightFetch_ThenNewViewportFetches(t *testing.T) {
	viewer := newRecordingViewer()
	viewer.show(region(0, 5000))
	h := newHarness(t, viewer)
	h.searcher.gate = make(chan struct{})
	h.searcher.genes["seq1:5000:10000"] = []portal.Gene{gene("late", 7000, 7100)}

	require.Equal(t, Accepted, h.coord.Poll())
	require.Eventually(t, func() bool { return h.searcher.count() == 1 }, eventually, tick)
	assert.Equal(t, PhaseFetching, h.coord.Phase())

	viewer.show(region(5000, 10_000))
	h.clock.Step(PollInterval)
	require.Equal(t, Accepted, h.coord.Poll())
	assert.Never(t, func() bool { return h.searcher.count() > 1 }, 50*time.Millisecond, tick)

	h.searcher.gate <- struct{}{}
	h.coord.Wait()
	assert.Equal(t, "seq1:0:5000", h.coord.scheduler.Guard().LastFetchedSignature())

	h.clock.Step(PollInterval)
	require.Equal(t, Accepted, h.coord.Poll())
	require.Eventually(t, func() bool { return h.searcher.count() == 2 }, eventually, tick)
	assert.Equal(t, region(5000, 10_000), h.searcher.call(1))

	h.searcher.gate <- struct{}{}
	h.coord.Wait()
	require.Len(t, h.coord.Result().Genes, 1)
	assert.Equal(t, "late", h.coord.Result().Genes[0].LocusTag)
}

func TestSyncRowClick_AfterFailedFetchDoesNotFetch(t *testing.T) {
	h := newHarness(t, newRecordingViewer())
	h.searcher.setErr(errors.New("502 bad gateway"))
	require.Equal(t, Accepted, h.coord.Poll())
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())
	require.True(t, h.coord.Result().Failed)
	h.searcher.setErr(nil)

	h.coord.BrowseGene(SyncTable, gene("locus_2", 12_000, 12_800))
	h.coord.Wait()
	assert.Equal(t, 1, h.searcher.count(), "click retried the failed viewport")

	for i, c := range h.pollFor(Cooldown-PollInterval, nil) {
		assert.Equal(t, 1, c, "fetch during cooldown at poll %d", i)
	}

	// the viewer still shows the failed viewport, so the next accepted poll retries it
	h.pollFor(2*time.Second, nil)
	require.Equal(t, 2, h.searcher.count())
	assert.Equal(t, region(10_000, 15_000), h.searcher.call(1))
	assert.False(t, h.coord.Result().Failed)
}

func TestSearchRowClick_AfterDroppedViewportDoesNotFetch(t *testing.T) {
	viewer := newRecordingViewer()
	viewer.show(region(0, 5000))
	h := newHarness(t, viewer)
	gate := make(chan struct{})
	h.searcher.gate = gate

	require.Equal(t, Accepted, h.coord.Poll())
	require.Eventually(t, func() bool { return h.searcher.count() == 1 }, eventually, tick)

	// accepted while busy, so the fetch for it is dropped
	viewer.show(region(5000, 10_000))
	h.clock.Step(PollInterval)
	require.Equal(t, Accepted, h.coord.Poll())
	gate <- struct{}{}
	h.coord.Wait()
	require.Equal(t, "seq1:0:5000", h.coord.scheduler.Guard().LastFetchedSignature())

	h.coord.BrowseGene(SearchTable, gene("locus_1", 1000, 2000))
	assert.Never(t, func() bool { return h.searcher.count() > 1 }, 50*time.Millisecond, tick)
	close(gate)

	for i, c := range h.pollFor(Cooldown-PollInterval, nil) {
		assert.Equal(t, 1, c, "fetch during cooldown at poll %d", i)
	}

	h.pollFor(2*time.Second, nil)
	require.Equal(t, 2, h.searcher.count())
	assert.Equal(t, region(5000, 10_000), h.searcher.call(1))
}

func TestCooldownProperty_NoFetchFromObservationsInWindow(t *testing.T) {
	viewer := newRecordingViewer()
	h := newHarness(t, viewer)
	h.coord.Poll()
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())

	h.coord.BrowseGene(SyncTable, gene("g", 10_500, 11_000))
	// a racing writer resets the source immediately
	h.coord.State().SetChangeSource(viewport.SourceNone)

	step := int64(0)
	counts := h.pollFor(Cooldown-PollInterval, func() {
		step++
		viewer.show(region(20_000+step*1000, 25_000+step*1000))
	})
	for _, c := range counts {
		assert.Equal(t, 1, c)
	}
	assert.Equal(t, "seq1:10000..15000", h.coord.State().Snapshot().Locus)
}

func TestRemount_RefetchesCurrentViewport(t *testing.T) {
	h := newHarness(t, newRecordingViewer())
	h.coord.Poll()
	h.coord.Wait()
	require.Equal(t, 1, h.searcher.count())

	h.coord.Remount()
	h.coord.Wait()
	assert.Equal(t, 2, h.searcher.count())
}

func TestCoordinatorRun(t *testing.T) {
	h := newHarness(t, newRecordingViewer())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.coord.Run(ctx)

	require.Eventually(t, h.clock.HasWaiters, eventually, tick)
	h.clock.Step(PollInterval)
	require.Eventually(t, func() bool { return h.searcher.count() == 1 }, eventually, tick)
}

func uniqueRegions(rs []genome.Region) map[genome.Region]struct{} {
	out := make(map[genome.Region]struct{}, len(rs))
	for _, r := range rs {
		out[r] = struct{}{}
	}
	return out
}
