package syncview

import (
	"sync"
	"time"
)

const (
	// Cooldown is how long a table navigation suppresses viewer observations.
	Cooldown = 5000 * time.Millisecond

	// RecentBlockWindow extends suppression after the last blocked observation.
	RecentBlockWindow = 1000 * time.Millisecond

	// SettleDelay is the wait before forcing track displays to reload.
	SettleDelay = 200 * time.Millisecond

	// PollInterval is the cadence at which the viewer region is sampled.
	PollInterval = 200 * time.Millisecond

	// NavigationPadding is added on each side of a gene when navigating to it.
	NavigationPadding int64 = 500

	// DefaultPageSize is the single page requested for a viewport.
	DefaultPageSize = 1000
)

// Guard is the per-viewer fetch bookkeeping shared by the listener and the
// scheduler. Only one fetch may be in flight; a signature that was already
// fetched successfully is not fetched again.
type Guard struct {
	mu          sync.Mutex
	lastFetched string
	fetching    bool
	fetchingSig string
	lastBlocked time.Time
}

// LastFetchedSignature returns the signature of the last settled fetch.
func (g *Guard) LastFetchedSignature() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFetched
}

// IsFetching reports whether a fetch is in flight.
func (g *Guard) IsFetching() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetching
}

// FetchingSignature returns the signature being fetched, if any.
func (g *Guard) FetchingSignature() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetchingSig
}

// LastBlocked returns when an observation was last suppressed.
func (g *Guard) LastBlocked() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastBlocked
}

// begin claims the fetch slot for sig.
func (g *Guard) begin(sig string) (ok bool, reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case sig == g.lastFetched:
		return false, "unchanged"
	case g.fetching:
		return false, "busy"
	}
	g.fetching = true
	g.fetchingSig = sig
	return true, ""
}

// finish releases the slot, recording sig when the fetch succeeded.
func (g *Guard) finish(sig string, settled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if settled {
		g.lastFetched = sig
	}
	g.fetching = false
	g.fetchingSig = ""
}

func (g *Guard) block(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastBlocked = now
}

// unblockUnlessRecent clears lastBlocked and returns true, or returns false
// when the last block is within RecentBlockWindow of now.
func (g *Guard) unblockUnlessRecent(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lastBlocked.IsZero() && now.Sub(g.lastBlocked) < RecentBlockWindow {
		return false
	}
	g.lastBlocked = time.Time{}
	return true
}

func (g *Guard) recentlyBlocked(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.lastBlocked.IsZero() && now.Sub(g.lastBlocked) < RecentBlockWindow
}

// reset forgets everything, as on remount.
func (g *Guard) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFetched = ""
	g.lastBlocked = time.Time{}
}
