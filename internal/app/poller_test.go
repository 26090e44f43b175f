package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/state"
)

func TestPollBackoff(t *testing.T) {
	pace := newPollBackoff(2 * time.Second)

	steps := []struct {
		ok   bool
		want time.Duration
	}{
		{true, 2 * time.Second},
		{false, 4 * time.Second},
		{false, 8 * time.Second},
		{false, 16 * time.Second},
		{false, 30 * time.Second}, // would be 32s, capped to 30s
		{false, 30 * time.Second},
		{true, 2 * time.Second},
		{false, 4 * time.Second},
	}

	for i, step := range steps {
		if got := pace.next(step.ok); got != step.want {
			t.Fatalf("step %d next(%v) = %v, want %v", i, step.ok, got, step.want)
		}
	}
}

func TestPollBackoff_MaxCap(t *testing.T) {
	// Verify that the wait never exceeds maxBackoff, even from a long interval
	for _, interval := range []time.Duration{time.Second, 20 * time.Second, time.Minute} {
		pace := newPollBackoff(interval)
		for failures := 0; failures <= 20; failures++ {
			if got := pace.next(false); got > maxBackoff {
				t.Errorf("interval %v failure %d: next = %v, exceeds maxBackoff %v", interval, failures, got, maxBackoff)
			}
		}
	}
}

type stubPortal struct {
	mu        sync.Mutex
	healthErr error
	seqErr    error
	seqCalls  int
}

func (s *stubPortal) FetchHealth(context.Context) (*portal.HealthResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.healthErr != nil {
		return nil, s.healthErr
	}
	return &portal.HealthResponse{Status: "ok", Genomes: 3}, nil
}

func (s *stubPortal) FetchSequences(context.Context, string) ([]portal.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seqCalls++
	if s.seqErr != nil {
		return nil, s.seqErr
	}
	return []portal.Sequence{{SeqID: "chr", Length: 1000}}, nil
}

func TestRefresh(t *testing.T) {
	var store state.Store
	client := &stubPortal{}

	if !refresh(context.Background(), &store, client) {
		t.Fatalf("refresh = false, want true")
	}
	if snap := store.Snapshot(); !snap.HasHealth || snap.Health.Genomes != 3 {
		t.Fatalf("snapshot = %+v, want health with 3 genomes", snap)
	}

	client.healthErr = errors.New("connection refused")
	if refresh(context.Background(), &store, client) {
		t.Fatalf("refresh = true, want false")
	}
	if snap := store.Snapshot(); snap.ConsecutiveFailures != 1 || !snap.HasHealth {
		t.Fatalf("snapshot = %+v, want 1 failure and previous health kept", snap)
	}
}

func TestRefresh_CancelledContextNotCounted(t *testing.T) {
	var store state.Store
	client := &stubPortal{healthErr: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refresh(ctx, &store, client)
	if got := store.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 on shutdown", got)
	}
}

func TestRunPoller_LoadsSequencesOnce(t *testing.T) {
	var store state.Store
	client := &stubPortal{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- runPoller(ctx, &store, client, 10*time.Millisecond, "GCF_1") }()

	deadline := time.Now().Add(time.Second)
	for len(store.Snapshot().Sequences) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sequences never loaded")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("runPoller returned %v, want nil", err)
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.seqCalls != 1 {
		t.Fatalf("FetchSequences called %d times, want 1", client.seqCalls)
	}
}
