// Package repositories implements SQLite persistence for browse history.
//
// Key Implementations:
//   - [BrowseRepository] : Browse records and their classified entries, with soft deletes
//   - [HistoryRecorder] : Adapter that stores every finished browse, plugged into the browser as its recorder
//
// Sequence numbers provide stable, human-readable ordering (e.g., browse #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
