package syncview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/viewport"
)

func region(start, end int64) genome.Region {
	return genome.Region{SeqID: "seq1", Start: start, End: end}
}

func newTestListener(clk *clocktesting.FakeClock, state *viewport.State, viewer *recordingViewer) (*Listener, *Guard) {
	guard := &Guard{}
	return NewListener(ListenerOptions{State: state, Viewer: viewer, Clock: clk, Guard: guard}), guard
}

func TestObserve_AcceptsWithoutNavigation(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	l, guard := newTestListener(clk, state, newRecordingViewer())

	assert.Equal(t, Accepted, l.Observe(region(10_000, 15_000)))
	snap := state.Snapshot()
	assert.Equal(t, "seq1:10000..15000", snap.Locus)
	assert.Equal(t, viewport.SourceExternalViewer, snap.Source)
	assert.True(t, guard.LastBlocked().IsZero())
}

func TestObserve_SuppressedByTableSource(t *testing.T) {
	for _, source := range []viewport.ChangeSource{viewport.SourceTableRowSync, viewport.SourceTableRowSearch} {
		t.Run(source.String(), func(t *testing.T) {
			clk := newFakeClock()
			state := viewport.New()
			state.SetChangeSource(source)
			l, guard := newTestListener(clk, state, newRecordingViewer())

			assert.Equal(t, SuppressedSource, l.Observe(region(1, 2000)))
			assert.False(t, state.Snapshot().HasCoords)
			assert.Equal(t, epoch, guard.LastBlocked())
		})
	}
}

func TestObserve_CooldownHoldsAfterEarlySourceReset(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	state.SetLastTableNavigationTime(clk.Now())
	// a racing writer cleared the source before the cooldown ended
	state.SetChangeSource(viewport.SourceNone)
	l, _ := newTestListener(clk, state, newRecordingViewer())

	clk.Step(Cooldown - time.Millisecond)
	assert.Equal(t, SuppressedCooldown, l.Observe(region(1, 2000)))
	assert.False(t, state.Snapshot().HasCoords)
}

func TestObserve_GraceWindowAfterBlock(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	state.SetChangeSource(viewport.SourceTableRowSearch)
	l, guard := newTestListener(clk, state, newRecordingViewer())

	require.Equal(t, SuppressedSource, l.Observe(region(0, 5000)))
	blockedAt := clk.Now()
	state.SetChangeSource(viewport.SourceNone)

	clk.Step(RecentBlockWindow - time.Millisecond)
	assert.Equal(t, SuppressedGrace, l.Observe(region(0, 5000)))
	assert.Equal(t, blockedAt, guard.LastBlocked(), "grace skips do not extend the window")

	clk.Step(time.Millisecond)
	assert.Equal(t, Accepted, l.Observe(region(0, 5000)))
	assert.True(t, guard.LastBlocked().IsZero())
}

func TestObserve_OnAcceptRunsOnlyForAcceptedObservations(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	var accepted []string
	l := NewListener(ListenerOptions{
		State:    state,
		Viewer:   newRecordingViewer(),
		Clock:    clk,
		OnAccept: func(snap viewport.Snapshot) { accepted = append(accepted, snap.Locus) },
	})

	require.Equal(t, Accepted, l.Observe(region(0, 5000)))
	state.SetChangeSource(viewport.SourceTableRowSync)
	require.Equal(t, SuppressedSource, l.Observe(region(100, 900)))

	assert.Equal(t, []string{"seq1:0..5000"}, accepted)
}

func TestPoll_ReadsViewer(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	viewer := newRecordingViewer()
	l, _ := newTestListener(clk, state, viewer)

	assert.Equal(t, Accepted, l.Poll())
	assert.Equal(t, "seq1:10000..15000", state.Snapshot().Locus)

	viewer.show(region(20_000, 21_000))
	assert.Equal(t, Accepted, l.Poll())
	assert.Equal(t, "seq1:20000..21000", state.Snapshot().Locus)
}

func TestPoll_NoRegion(t *testing.T) {
	l := NewListener(ListenerOptions{State: viewport.New(), Viewer: nil, Clock: newFakeClock()})
	assert.Equal(t, NoRegion, l.Poll())
}

func TestPhase(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	l, guard := newTestListener(clk, state, newRecordingViewer())

	assert.Equal(t, PhaseIdle, l.Phase())

	ok, _ := guard.begin("seq1:0:10")
	require.True(t, ok)
	assert.Equal(t, PhaseFetching, l.Phase())

	state.SetLastTableNavigationTime(clk.Now())
	assert.Equal(t, PhaseCooldown, l.Phase(), "cooldown wins over fetching")

	guard.finish("seq1:0:10", true)
	clk.Step(Cooldown)
	assert.Equal(t, PhaseIdle, l.Phase())
	assert.Equal(t, "cooldown", PhaseCooldown.String())
}

func TestListenerRun_PollsOnClock(t *testing.T) {
	clk := newFakeClock()
	state := viewport.New()
	l, _ := newTestListener(clk, state, newRecordingViewer())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Run(ctx, 0)
	}()

	require.Eventually(t, clk.HasWaiters, eventually, tick)
	assert.False(t, state.Snapshot().HasCoords)
	clk.Step(PollInterval)
	require.Eventually(t, func() bool { return state.Snapshot().HasCoords }, eventually, tick)

	cancel()
	select {
	case <-done:
	case <-time.After(eventually):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "suppressed-source", SuppressedSource.String())
	assert.Equal(t, "suppressed-cooldown", SuppressedCooldown.String())
	assert.Equal(t, "suppressed-grace", SuppressedGrace.String())
	assert.Equal(t, "no-region", NoRegion.String())
}
