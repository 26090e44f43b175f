// Package state holds the latest portal health seen by the background poller.
//
// # Overview
//
// The app poller calls FetchHealth on a fixed cadence (with backoff while the
// portal is down) and records the result here. The UI reads a Snapshot on its
// own tick to render the header badge and the offline banner.
//
//	poller goroutine              UI tick
//	store.Update(health, err) ──→ store.Snapshot()
//
// # Update Semantics
//
// A successful poll replaces the health and resets ConsecutiveFailures. A
// failed poll keeps the previous health, records LastError and increments the
// counter. IsOffline reports two or more failures in a row.
//
// Snapshot returns defensive copies, so callers may mutate what they get. The
// zero Store is ready to use.
package state
