package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// HealthSource is the part of the portal client the poller needs.
type HealthSource interface {
	FetchHealth(ctx context.Context) (*portal.HealthResponse, error)
	FetchSequences(ctx context.Context, genomeID string) ([]portal.Sequence, error)
}

// pollBackoff paces the poller: the plain interval while polls succeed, and
// an exponential backoff capped at maxBackoff across consecutive failures.
type pollBackoff struct {
	interval time.Duration
	b        *backoff.ExponentialBackOff
}

func newPollBackoff(interval time.Duration) *pollBackoff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     2 * interval,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxBackoff,
	}
	b.Reset()
	return &pollBackoff{interval: interval, b: b}
}

// next returns the wait before the following poll. A success resets the
// backoff so the next failure starts over at twice the interval.
func (p *pollBackoff) next(ok bool) time.Duration {
	if ok {
		p.b.Reset()
		return p.interval
	}
	return min(p.b.NextBackOff(), maxBackoff)
}

// runPoller refreshes the store until ctx is cancelled. The sequences of
// genomeID are loaded after the first successful health check.
func runPoller(ctx context.Context, store *state.Store, client HealthSource, interval time.Duration, genomeID string) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	needSequences := genomeID != ""
	pace := newPollBackoff(interval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		ok := refresh(ctx, store, client)
		if ok && needSequences {
			needSequences = !loadSequences(ctx, store, client, genomeID)
		}
		timer.Reset(pace.next(ok))
	}
}

func refresh(ctx context.Context, store *state.Store, client HealthSource) bool {
	health, err := client.FetchHealth(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		store.Update(nil, err)
		slog.Warn("health poll failed", "component", "poller", "error", err)
		return false
	}
	store.Update(health, nil)
	return true
}

func loadSequences(ctx context.Context, store *state.Store, client HealthSource, genomeID string) bool {
	seqs, err := client.FetchSequences(ctx, genomeID)
	if err != nil {
		slog.Warn("sequence list failed", "component", "poller", "genome_id", genomeID, "error", err)
		return false
	}
	store.SetSequences(seqs)
	slog.Info("sequences loaded", "component", "poller", "genome_id", genomeID, "count", len(seqs))
	return true
}
