package pls

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
)

// Classifier turns raw playlist entries into typed media.
type Classifier struct {
	attrs   AttributeProvider
	sniffer Sniffer
	logger  *log.Logger
}

// NewClassifier creates a classifier backed by attrs and sniffer.
func NewClassifier(attrs AttributeProvider, sniffer Sniffer, logger *log.Logger) *Classifier {
	return &Classifier{attrs: attrs, sniffer: sniffer, logger: logger}
}

// Classify returns the media descriptor for entry, or nil when the entry is
// skipped. Skips are logged and never abort the surrounding browse.
func (c *Classifier) Classify(entry models.RawEntry) *models.Media {
	path, err := ResolvePath(entry.URI)
	if err != nil {
		c.logger.Warn("URI found in playlist not handled", "uri", entry.URI, "error", err)
		return nil
	}

	attrs, err := c.attrs.QueryAttributes(path)
	if err != nil {
		c.logger.Warn("failed to query file attributes", "path", path, "error", err)
		return nil
	}

	m := models.NewMedia(c.kindOf(path, attrs))
	m.URL = FileURL(path)
	m.Title = stripExtension(attrs.DisplayName)
	if m.Kind != models.KindCollection {
		m.Mime = attrs.ContentType
	}
	if !attrs.ModTime.IsZero() {
		m.ModificationDate = attrs.ModTime.UTC()
	}
	if attrs.ThumbnailPath != "" && !attrs.ThumbnailingFailed {
		m.Thumbnail = FileURL(attrs.ThumbnailPath)
	}
	if entry.Duration > 0 {
		m.Duration = entry.Duration
	}

	if m.Kind == models.KindAudio {
		if entry.Album != "" {
			m.Album = entry.Album
		}
		if entry.Author != "" {
			m.Artist = entry.Author
		}
		if entry.Genre != "" {
			m.Genre = entry.Genre
		}
	}
	return m
}

// ClassifyAll classifies entries in order, recording the result on each entry.
// It returns the non-nil media and the number of skipped entries.
func (c *Classifier) ClassifyAll(entries []models.RawEntry) ([]*models.Media, int) {
	media := make([]*models.Media, 0, len(entries))
	skipped := 0
	for i := range entries {
		m := c.Classify(entries[i])
		entries[i].Media = m
		if m == nil {
			skipped++
			continue
		}
		media = append(media, m)
	}
	return media, skipped
}

func (c *Classifier) kindOf(path string, attrs *models.Attributes) models.Kind {
	if attrs.FileType == models.FileTypeDirectory {
		return models.KindCollection
	}
	if FileIsPlaylist(c.sniffer, path) {
		return models.KindCollection
	}
	switch mime := attrs.ContentType; {
	case strings.HasPrefix(mime, "video/"):
		return models.KindVideo
	case strings.HasPrefix(mime, "audio/"):
		return models.KindAudio
	case strings.HasPrefix(mime, "image/"):
		return models.KindImage
	default:
		return models.KindGeneric
	}
}

// stripExtension drops everything from the last '.' of name.
func stripExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
