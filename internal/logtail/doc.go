// Package logtail reads the tail of the locus log for the Logs view.
//
// # Overview
//
// locus writes JSON lines through log/slog (see package logging). The Logs
// view only ever needs the last few hundred records, so Read keeps a ring
// buffer of maxLines entries and makes a single pass over the file. Memory use
// is O(maxLines) regardless of file size.
//
// # Structured Entries
//
// ParseEntry decodes one line with gjson rather than unmarshalling into a
// fixed struct, which lets it keep arbitrary slog attributes in file order:
//
//	{"time":"...","level":"WARN","msg":"viewport fetch failed","component":"scheduler","region":"chr1:1..500"}
//
// The time, level, msg and component keys become Entry fields. Everything else
// lands in Attrs. Lines that are not JSON (a panic trace, for instance) come
// back as INFO entries with the raw text as the message.
//
// # Error Handling
//
// Read returns nil, nil for a missing file, since the log may not exist before
// the first run. Other I/O errors are wrapped.
package logtail
