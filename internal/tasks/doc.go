// Package tasks runs long filesystem operations over playlist libraries with
// real-time progress reporting.
//
// # Scanning
//
// [ScanEngine.Scan] walks a directory tree and reports every playlist it finds:
//
//  1. Walk : collect candidate files under the root (optionally recursing)
//  2. Sniff : detect the playlist format of each file from its name and leading bytes
//  3. Parse : read each playlist and count its entries
//
// Files are handed to a fixed worker pool. A [rate.Limiter] throttles how
// quickly files are opened so large libraries on slow or network mounts are
// not hammered.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
