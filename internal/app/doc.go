// Package app is the composition root of the locus TUI.
//
// # Overview
//
// Run wires configuration, logging, the portal client, the status store,
// the genome panel, the sync-view coordinator and the UI, then blocks until
// the user quits or the context is cancelled.
//
// # Startup
//
//  1. Load ~/.config/locus/config.toml (defaults when missing)
//  2. Send slog output to <log_dir>/locus.log; the TUI owns the terminal
//  3. Load preferences (theme, columns, sort)
//  4. Create the portal client and an OpenTelemetry meter provider backed by
//     a manual reader
//  5. Build the genome panel, at default_locus when configured
//  6. Start the coordinator, then run the status poller and the UI in an
//     errgroup
//
// # Polling Behavior
//
// The poller checks portal health every poll interval and backs off
// exponentially while it fails, capped at 30 seconds. After the first
// successful check it loads the sequence list of default_genome once. The
// UI reads the store on its own tick.
//
// # Shutdown
//
// Leaving the UI cancels the poller. A signal cancels both; the resulting
// tea.ErrProgramKilled is not reported as a failure. The sync counters are
// collected from the manual reader and written to the log as one line.
package app
