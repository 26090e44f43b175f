package viewport

import (
	"slices"
	"sync"
	"time"

	"github.com/microbe-atlas/locus/internal/genome"
)

// Snapshot is a point-in-time copy of the shared viewport.
type Snapshot struct {
	SeqID     string
	Start     int64
	End       int64
	HasCoords bool
	// Locus is the derived "seq:start..end" string, empty without coordinates.
	Locus               string
	Source              ChangeSource
	SelectedLocusTag    string
	LastTableNavigation time.Time
}

// Region returns the coordinates as a genome.Region. The zero Region is
// returned when no coordinates are set.
func (s Snapshot) Region() genome.Region {
	if !s.HasCoords {
		return genome.Region{}
	}
	return genome.Region{SeqID: s.SeqID, Start: s.Start, End: s.End}
}

// InCooldown reports whether a table navigation happened less than window ago.
func (s Snapshot) InCooldown(now time.Time, window time.Duration) bool {
	return !s.LastTableNavigation.IsZero() && now.Sub(s.LastTableNavigation) < window
}

// State is the single shared viewport for a session. Setters perform no
// validation beyond swapping inverted bounds.
type State struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	observers map[int]func(Snapshot)
	nextID    int
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// Snapshot returns a copy of the current viewport.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetViewport writes coordinates, recomputes the locus and stamps source.
func (s *State) SetViewport(seqID string, start, end int64, source ChangeSource) {
	r := genome.NewRegion(seqID, start, end)
	s.write(func(snap *Snapshot) {
		snap.SeqID = r.SeqID
		snap.Start = r.Start
		snap.End = r.End
		snap.HasCoords = true
		snap.Locus = r.String()
		snap.Source = source
	})
}

// SetChangeSource overwrites the change source.
func (s *State) SetChangeSource(source ChangeSource) {
	s.write(func(snap *Snapshot) { snap.Source = source })
}

// SetSelectedLocusTag sets the gene highlighted in tables and viewer.
func (s *State) SetSelectedLocusTag(tag string) {
	s.write(func(snap *Snapshot) { snap.SelectedLocusTag = tag })
}

// SetLastTableNavigationTime records the time of a table navigation. The
// zero time clears it.
func (s *State) SetLastTableNavigationTime(ts time.Time) {
	s.write(func(snap *Snapshot) { snap.LastTableNavigation = ts })
}

// Reset clears every field.
func (s *State) Reset() {
	s.write(func(snap *Snapshot) { *snap = Snapshot{} })
}

// ClearNavigation resets the source and navigation time if the stored time
// still equals ts. It reports whether anything was cleared.
func (s *State) ClearNavigation(ts time.Time) bool {
	s.mu.Lock()
	if !s.snapshot.LastTableNavigation.Equal(ts) {
		s.mu.Unlock()
		return false
	}
	s.snapshot.Source = SourceNone
	s.snapshot.LastTableNavigation = time.Time{}
	snap, observers := s.snapshot, s.observerList()
	s.mu.Unlock()

	notify(observers, snap)
	return true
}

// Subscribe registers fn to run after every write. Observers run on the
// writer's goroutine, outside the lock.
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observers == nil {
		s.observers = make(map[int]func(Snapshot))
	}
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *State) write(mutate func(*Snapshot)) {
	s.mu.Lock()
	mutate(&s.snapshot)
	snap, observers := s.snapshot, s.observerList()
	s.mu.Unlock()

	notify(observers, snap)
}

func (s *State) observerList() []func(Snapshot) {
	if len(s.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	list := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		list[i] = s.observers[id]
	}
	return list
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
