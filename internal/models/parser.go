package models

import "time"

// Metadata keys a playlist parser attaches to each entry.
const (
	MetaTitle       = "title"
	MetaGenre       = "genre"
	MetaAuthor      = "author"
	MetaAlbum       = "album"
	MetaImageURI    = "image-uri"
	MetaContentType = "content-type"
	MetaDuration    = "duration"
)

// ParseStatus is the result a parser reports on completion.
type ParseStatus int

const (
	ParseSuccess ParseStatus = iota
	ParseUnhandled
	ParseIgnored
	ParseError
	ParseCancelled
)

func (s ParseStatus) String() string {
	switch s {
	case ParseSuccess:
		return "success"
	case ParseUnhandled:
		return "unhandled"
	case ParseIgnored:
		return "ignored"
	case ParseError:
		return "error"
	case ParseCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// ParseOptions configures a parse.
type ParseOptions struct {
	Recurse     bool // Descend into nested playlists
	AllowUnsafe bool // Allow local entries in a remote playlist
}

// ParseEvent is one element of the stream a parser emits.
//
// Entry events carry URI and Metadata. The stream ends with exactly one event
// where Done is set, carrying Status and an optional Err.
type ParseEvent struct {
	URI      string
	Metadata map[string]string
	Done     bool
	Status   ParseStatus
	Err      error
}

// EntryEvent builds an entry event.
func EntryEvent(uri string, metadata map[string]string) ParseEvent {
	return ParseEvent{URI: uri, Metadata: metadata}
}

// DoneEvent builds the terminating completion event.
func DoneEvent(status ParseStatus, err error) ParseEvent {
	return ParseEvent{Done: true, Status: status, Err: err}
}

// FileType is the coarse type of a filesystem object.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeSymlink
	FileTypeSpecial
)

// Attributes are the filesystem attributes consulted when classifying an entry.
type Attributes struct {
	DisplayName        string
	ContentType        string
	FileType           FileType
	ModTime            time.Time
	ThumbnailPath      string
	ThumbnailingFailed bool
}
