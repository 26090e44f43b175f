package syncview

import (
	"context"
	"sync"
	"time"

	clocktesting "k8s.io/utils/clock/testing"

	"github.com/microbe-atlas/locus/internal/genome"
	"github.com/microbe-atlas/locus/internal/portal"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newFakeClock() *clocktesting.FakeClock {
	return clocktesting.NewFakeClock(epoch)
}

// recordingViewer implements every optional capability and records calls.
type recordingViewer struct {
	mu         sync.Mutex
	seq        genome.Region
	visible    genome.Region
	navigated  []string
	zooms      []string
	reloads    int
	highlights []string
	navErr     error
}

func newRecordingViewer() *recordingViewer {
	seq := genome.Region{SeqID: "seq1", Start: 0, End: 1_000_000}
	return &recordingViewer{seq: seq, visible: genome.Region{SeqID: "seq1", Start: 10_000, End: 15_000}}
}

func (v *recordingViewer) DisplayedRegions() []genome.Region {
	v.mu.Lock()
	defer v.mu.Unlock()
	return []genome.Region{v.seq}
}

func (v *recordingViewer) Width() (int, bool) { return 1000, true }

func (v *recordingViewer) Offset() (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	bp := float64(v.visible.Len()) / 1000
	return float64(v.visible.Start-v.seq.Start) / bp, true
}

func (v *recordingViewer) BpPerPx() (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.visible.Len()) / 1000, true
}

func (v *recordingViewer) Navigate(locus string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigated = append(v.navigated, locus)
	return v.navErr
}

func (v *recordingViewer) ZoomTo(level string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zooms = append(v.zooms, level)
	return nil
}

func (v *recordingViewer) ReloadTracks() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reloads++
}

func (v *recordingViewer) SetHighlight(tag string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlights = append(v.highlights, tag)
}

func (v *recordingViewer) show(r genome.Region) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = r
}

func (v *recordingViewer) reloadCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reloads
}

func (v *recordingViewer) navigations() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.navigated...)
}

// minimalViewer only knows its displayed regions.
type minimalViewer struct{}

func (minimalViewer) DisplayedRegions() []genome.Region {
	return []genome.Region{{SeqID: "seq1", Start: 0, End: 50_000}}
}

// fakeSearcher records GenesInRegion calls. When gate is set every call waits
// for a value on it before returning.
type fakeSearcher struct {
	mu    sync.Mutex
	calls []genome.Region
	limit int
	genes map[string][]portal.Gene
	err   error
	gate  chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{genes: map[string][]portal.Gene{}}
}

func (f *fakeSearcher) GenesInRegion(ctx context.Context, region genome.Region, limit int) ([]portal.Gene, error) {
	f.mu.Lock()
	f.calls = append(f.calls, region)
	f.limit = limit
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.genes[region.Signature()], nil
}

func (f *fakeSearcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSearcher) call(i int) genome.Region {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func (f *fakeSearcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func gene(tag string, start, end int64) portal.Gene {
	return portal.Gene{LocusTag: tag, SeqID: "seq1", Start: start, End: end}
}
