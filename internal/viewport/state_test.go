package viewport

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetViewport_SwapsInvertedBounds(t *testing.T) {
	s := New()
	s.SetViewport("seq1", 2500, 500, SourceExternalViewer)

	snap := s.Snapshot()
	assert.True(t, snap.HasCoords)
	assert.Equal(t, int64(500), snap.Start)
	assert.Equal(t, int64(2500), snap.End)
	assert.Equal(t, "seq1:500..2500", snap.Locus)
	assert.Equal(t, SourceExternalViewer, snap.Source)
	assert.Equal(t, "seq1:500:2500", snap.Region().Signature())
}

func TestSetViewport_AlwaysStampsSource(t *testing.T) {
	s := New()
	s.SetChangeSource(SourceTableRowSearch)
	s.SetViewport("seq1", 1, 10, SourceNone)
	assert.Equal(t, SourceNone, s.Snapshot().Source)
}

func TestSnapshotRegion_NoCoords(t *testing.T) {
	assert.True(t, New().Snapshot().Region().IsZero())
}

func TestSetters(t *testing.T) {
	s := New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.SetSelectedLocusTag("locus_1")
	s.SetLastTableNavigationTime(now)
	s.SetChangeSource(SourceTableRowSync)

	snap := s.Snapshot()
	assert.Equal(t, "locus_1", snap.SelectedLocusTag)
	assert.Equal(t, now, snap.LastTableNavigation)
	assert.Equal(t, SourceTableRowSync, snap.Source)
	assert.True(t, snap.InCooldown(now.Add(4999*time.Millisecond), 5*time.Second))
	assert.False(t, snap.InCooldown(now.Add(5*time.Second), 5*time.Second))

	s.Reset()
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestClearNavigation_OnlyMatchingTimestamp(t *testing.T) {
	s := New()
	first := time.Unix(100, 0)
	second := first.Add(2 * time.Second)

	s.SetLastTableNavigationTime(first)
	s.SetChangeSource(SourceTableRowSearch)
	s.SetLastTableNavigationTime(second)

	assert.False(t, s.ClearNavigation(first), "older cleanup must not clobber newer navigation")
	snap := s.Snapshot()
	assert.Equal(t, SourceTableRowSearch, snap.Source)
	assert.Equal(t, second, snap.LastTableNavigation)

	assert.True(t, s.ClearNavigation(second))
	snap = s.Snapshot()
	assert.Equal(t, SourceNone, snap.Source)
	assert.True(t, snap.LastTableNavigation.IsZero())
}

func TestSubscribe(t *testing.T) {
	s := New()

	var mu sync.Mutex
	var seen []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, snap)
	})

	s.SetViewport("seq1", 0, 100, SourceExternalViewer)
	s.SetSelectedLocusTag("x")
	ts := time.Unix(5, 0)
	s.SetLastTableNavigationTime(ts)
	require.True(t, s.ClearNavigation(ts))

	cancel()
	s.SetSelectedLocusTag("y")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 4)
	assert.Equal(t, "seq1:0..100", seen[0].Locus)
	assert.Equal(t, "x", seen[1].SelectedLocusTag)
	assert.Equal(t, SourceNone, seen[3].Source)
}

func TestSubscribe_ObserverMayReadState(t *testing.T) {
	s := New()
	var got string
	s.Subscribe(func(Snapshot) { got = s.Snapshot().Locus })
	s.SetViewport("chr", 5, 9, SourceExternalViewer)
	assert.Equal(t, "chr:5..9", got)
}

func TestChangeSource(t *testing.T) {
	tests := []struct {
		source    ChangeSource
		name      string
		fromTable bool
	}{
		{SourceNone, "none", false},
		{SourceExternalViewer, "external-viewer", false},
		{SourceTableRowSync, "table-row-sync", true},
		{SourceTableRowSearch, "table-row-search", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.source.String())
		assert.Equal(t, tt.fromTable, tt.source.FromTable(), tt.name)
	}
}
