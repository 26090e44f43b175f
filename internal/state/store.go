package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/microbe-atlas/locus/internal/portal"
)

// Snapshot represents the latest backend status available to the UI.
type Snapshot struct {
	Health              portal.HealthResponse
	HasHealth           bool
	Sequences           []portal.Sequence
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the portal has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of a health poll. When err is non-nil the
// previous health is kept and the failure counter grows.
func (s *Store) Update(health *portal.HealthResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
	} else {
		s.snapshot.HasHealth = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// SetSequences stores the sequence list of the default genome.
func (s *Store) SetSequences(seqs []portal.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Sequences = cloneSequences(seqs)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Sequences = cloneSequences(s.snapshot.Sequences)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneSequences(items []portal.Sequence) []portal.Sequence {
	if len(items) == 0 {
		return nil
	}
	dup := make([]portal.Sequence, len(items))
	copy(dup, items)
	return dup
}
