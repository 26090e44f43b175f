// Package syncview keeps the genome viewer and the Genomic Context table in
// step without feedback loops.
//
// # Overview
//
// Three cooperating parts share a viewport.State and a Guard:
//
//   - Navigator handles "Browse" on a gene row. It stamps the change source
//     and navigation time, highlights the gene, moves the viewer (search table
//     only), reloads track displays after SettleDelay and clears the source
//     after Cooldown.
//   - Listener samples the viewer's visible region every PollInterval and
//     writes it to the state unless a table navigation is still settling.
//   - Scheduler fetches the genes overlapping the viewport, one fetch at a
//     time, deduplicated by signature. It runs on mount, on Remount and after
//     each accepted observation. Table navigations never trigger it.
//
// # Suppression
//
// An observation is dropped when the change source is a table, when the last
// table navigation is younger than Cooldown, or when another observation was
// dropped less than RecentBlockWindow ago. The last rule absorbs the jitter
// between the cooldown cleanup and the next poll.
//
//	t=0      BrowseGene(search)      source=table-row-search
//	t=0..5s  viewer animates         observations suppressed, lastBlocked=t
//	t=5s     cleanup                 source=none (only if no newer navigation)
//	t=5..6s  polls                   suppressed by the grace window
//	t>6s     poll                    accepted, scheduler fetches
//
// # Staleness
//
// Fetches are never cancelled by a newer viewport. A completed fetch whose
// signature no longer matches the state is discarded, but its signature is
// still recorded so the next poll of the current viewport starts a fresh
// fetch. Failed fetches clear the table and leave the signature unrecorded so
// the same viewport is retried.
//
// # Clocks
//
// Every timing decision goes through k8s.io/utils/clock so tests can drive
// the package with a FakeClock. Timer callbacks never call back into the
// clock because FakeClock runs them while holding its lock.
package syncview
