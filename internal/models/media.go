package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the type of a [Media] descriptor.
type Kind int

const (
	KindGeneric Kind = iota
	KindAudio
	KindVideo
	KindImage
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	case KindCollection:
		return "collection"
	default:
		return ""
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic", "":
		return KindGeneric, nil
	case "audio":
		return KindAudio, nil
	case "video":
		return KindVideo, nil
	case "image":
		return KindImage, nil
	case "collection", "box":
		return KindCollection, nil
	default:
		return KindGeneric, fmt.Errorf("unknown media kind %q", s)
	}
}

// UnknownChildCount marks a collection whose element count has not been resolved.
const UnknownChildCount = -1

// Media is a classified, typed representation of a browsable item.
//
// A Media of [KindCollection] can be used as the container of a browse.
type Media struct {
	ID               string    `json:"id,omitempty"`
	Kind             Kind      `json:"kind"`
	Title            string    `json:"title,omitempty"`
	URL              string    `json:"url,omitempty"`
	Mime             string    `json:"mime,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	ModificationDate time.Time `json:"modification_date,omitzero"`
	Duration         int64     `json:"duration,omitempty"` // Duration in seconds
	Album            string    `json:"album,omitempty"`
	Artist           string    `json:"artist,omitempty"`
	Genre            string    `json:"genre,omitempty"`
	ChildCount       int       `json:"child_count,omitempty"` // Collections only, UnknownChildCount until resolved
}

// NewMedia creates a descriptor of the given kind.
func NewMedia(kind Kind) *Media {
	m := &Media{Kind: kind}
	if kind == KindCollection {
		m.ChildCount = UnknownChildCount
	}
	return m
}

// NewContainer creates a collection descriptor pointing at url, suitable as a browse container.
func NewContainer(url string) *Media {
	m := NewMedia(KindCollection)
	m.URL = url
	return m
}

// Key returns the identity used to attach cached results to this container.
//
// The explicit ID wins; otherwise the URL identifies the container.
func (m *Media) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.URL
}

// IsCollection reports whether m is a collection (directory, playlist).
func (m *Media) IsCollection() bool { return m != nil && m.Kind == KindCollection }

// IsAudio reports whether m is an audio item.
func (m *Media) IsAudio() bool { return m != nil && m.Kind == KindAudio }

// Clone returns a shallow copy of m.
func (m *Media) Clone() *Media {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func (m *Media) String() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %q (%s)", m.Kind, m.Title, m.URL)
}

// RawEntry is the unclassified metadata tuple a parser emits for one playlist line.
//
// Media is set once the entry has been classified.
type RawEntry struct {
	URI       string
	Title     string
	Genre     string
	Author    string
	Album     string
	Mime      string
	Thumbnail string
	Duration  int64 // seconds; <= 0 means unknown
	Media     *Media
}
