package plparser

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format is a playlist file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatM3U
	FormatPLS
	FormatASX
	FormatXSPF
)

// sniffLen is how many leading bytes content sniffing looks at.
const sniffLen = 512

var extensions = map[string]Format{
	".m3u":  FormatM3U,
	".m3u8": FormatM3U,
	".pls":  FormatPLS,
	".asx":  FormatASX,
	".wax":  FormatASX,
	".wvx":  FormatASX,
	".xspf": FormatXSPF,
}

var mimeTypes = map[Format]string{
	FormatM3U:  "audio/x-mpegurl",
	FormatPLS:  "audio/x-scpls",
	FormatASX:  "audio/x-ms-asx",
	FormatXSPF: "application/xspf+xml",
}

func (f Format) String() string {
	switch f {
	case FormatM3U:
		return "m3u"
	case FormatPLS:
		return "pls"
	case FormatASX:
		return "asx"
	case FormatXSPF:
		return "xspf"
	default:
		return "unknown"
	}
}

// Mime returns the content type of f, or "" for [FormatUnknown].
func (f Format) Mime() string { return mimeTypes[f] }

// Extensions returns the file extensions recognised as playlists, mapped to their content type.
func Extensions() map[string]string {
	out := make(map[string]string, len(extensions))
	for ext, f := range extensions {
		out[ext] = f.Mime()
	}
	return out
}

// FormatForMime returns the format whose content type prefixes mime.
func FormatForMime(mime string) Format {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for f, m := range mimeTypes {
		if strings.HasPrefix(mime, m) {
			return f
		}
	}
	if strings.HasPrefix(mime, "audio/mpegurl") || strings.HasPrefix(mime, "application/vnd.apple.mpegurl") {
		return FormatM3U
	}
	return FormatUnknown
}

// DetectFormat picks a format from the extension of path, falling back to the
// first bytes of the file.
func DetectFormat(path string, head []byte) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return sniffContent(head)
}

func sniffContent(head []byte) Format {
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimSpace(head)
	lower := bytes.ToLower(head)

	switch {
	case bytes.HasPrefix(lower, []byte("#extm3u")):
		return FormatM3U
	case bytes.HasPrefix(lower, []byte("[playlist]")):
		return FormatPLS
	case bytes.HasPrefix(lower, []byte("<asx")):
		return FormatASX
	case bytes.Contains(lower, []byte("<playlist")) && bytes.Contains(lower, []byte("xspf")):
		return FormatXSPF
	case bytes.HasPrefix(lower, []byte("<?xml")) && bytes.Contains(lower, []byte("<asx")):
		return FormatASX
	}
	return FormatUnknown
}
