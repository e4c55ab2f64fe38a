package pls

import (
	"strings"

	"github.com/desertthunder/plsx/internal/models"
)

var playlistMimePrefixes = []string{
	"audio/x-ms-asx",
	"audio/mpegurl",
	"audio/x-mpegurl",
	"audio/x-scpls",
}

// MimeIsPlaylist reports whether mime is a recognised playlist type.
// This is cheap but gives no guarantee the content parses.
func MimeIsPlaylist(mime string) bool {
	for _, prefix := range playlistMimePrefixes {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

// FileIsPlaylist asks the sniffer whether the file at path parses as a playlist.
// It may read part of the file.
func FileIsPlaylist(s Sniffer, path string) bool {
	if s == nil || path == "" {
		return false
	}
	return s.CanParse(path)
}

// MediaIsPlaylist resolves the URL of m to a local path and sniffs it.
// Media without a URL, or with a URL that is not local, is not a playlist.
func MediaIsPlaylist(s Sniffer, m *models.Media) bool {
	if m == nil || m.URL == "" {
		return false
	}
	path, err := ResolvePath(m.URL)
	if err != nil {
		return false
	}
	return FileIsPlaylist(s, path)
}
