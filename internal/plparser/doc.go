// Package plparser reads local playlist files.
//
// Supported formats are M3U (plain and extended), PLS, ASX and XSPF. A [Parser]
// streams entries as [models.ParseEvent] values over a channel from its own
// goroutine, so it can back the browse pipeline directly. Entry references
// relative to the playlist are resolved against the playlist's directory.
//
// Only local playlists are handled; any URL that does not resolve to a file
// completes with [models.ParseUnhandled].
package plparser
