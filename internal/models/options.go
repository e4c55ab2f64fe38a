package models

import (
	"fmt"
	"strings"
)

// CountInfinity requests every remaining result.
const CountInfinity = -1

// Operation is a bitmask of operations a [Source] supports.
type Operation uint

const (
	OpNone   Operation = 0
	OpBrowse Operation = 1 << (iota - 1)
	OpSearch
	OpResolve
)

// TypeFilter restricts which media kinds an operation returns.
type TypeFilter uint

const (
	TypeFilterNone  TypeFilter = 0
	TypeFilterAudio TypeFilter = 1 << (iota - 1)
	TypeFilterVideo
	TypeFilterImage
	TypeFilterAll = TypeFilterAudio | TypeFilterVideo | TypeFilterImage
)

// ResolutionFlags tune metadata resolution during an operation.
type ResolutionFlags uint

const (
	ResolveFullResolution ResolutionFlags = 1 << iota
	ResolveIdleRelay
	ResolveFastOnly

	ResolveNormal ResolutionFlags = 0
)

// Options carries the window and tuning parameters for a browse.
type Options struct {
	Skip       uint
	Count      int // CountInfinity for no limit; 0 is invalid
	Flags      ResolutionFlags
	TypeFilter TypeFilter // TypeFilterNone when unset
}

// DefaultOptions returns a window over every result.
func DefaultOptions() Options {
	return Options{Count: CountInfinity}
}

// Caps is the capability set a source declares for one operation.
type Caps struct {
	TypeFilter TypeFilter      // Kinds the source can filter on
	Flags      ResolutionFlags // Resolution flags the source honours
	MaxCount   int             // Largest page the source serves, 0 for unlimited
}

// ObeyCaps reports whether o stays within caps.
//
// A nil caps imposes no restriction.
func (o Options) ObeyCaps(caps *Caps) bool {
	if caps == nil {
		return true
	}
	if o.TypeFilter != TypeFilterNone && o.TypeFilter&^caps.TypeFilter != 0 {
		return false
	}
	if o.Flags&^caps.Flags != 0 {
		return false
	}
	if caps.MaxCount > 0 && (o.Count < 0 || o.Count > caps.MaxCount) {
		return false
	}
	return true
}

// Key names a metadata field a caller can request.
type Key int

const (
	KeyTitle Key = iota
	KeyURL
	KeyMime
	KeyModificationDate
	KeyChildCount
	KeyDuration
	KeyThumbnail
	KeyAlbum
	KeyArtist
	KeyGenre
)

var keyNames = map[Key]string{
	KeyTitle:            "title",
	KeyURL:              "url",
	KeyMime:             "mime",
	KeyModificationDate: "modification-date",
	KeyChildCount:       "childcount",
	KeyDuration:         "duration",
	KeyThumbnail:        "thumbnail",
	KeyAlbum:            "album",
	KeyArtist:           "artist",
	KeyGenre:            "genre",
}

func (k Key) String() string { return keyNames[k] }

// DefaultKeys is the key set used when a caller asks for nothing specific.
func DefaultKeys() []Key {
	return []Key{KeyTitle, KeyURL, KeyMime, KeyModificationDate, KeyChildCount}
}

// ParseKeys parses a comma-separated key list such as "title,url,duration".
func ParseKeys(s string) ([]Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultKeys(), nil
	}

	var keys []Key
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for k, n := range keyNames {
			if n == name {
				keys = append(keys, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown metadata key %q", part)
		}
	}
	return keys, nil
}
