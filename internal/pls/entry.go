package pls

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/plsx/internal/models"
)

// NewRawEntry copies the metadata keys the pipeline consumes into a [models.RawEntry].
func NewRawEntry(uri string, metadata map[string]string) models.RawEntry {
	return models.RawEntry{
		URI:       uri,
		Title:     metadata[models.MetaTitle],
		Genre:     metadata[models.MetaGenre],
		Author:    metadata[models.MetaAuthor],
		Album:     metadata[models.MetaAlbum],
		Thumbnail: metadata[models.MetaImageURI],
		Mime:      metadata[models.MetaContentType],
		Duration:  ParseDuration(metadata[models.MetaDuration]),
	}
}

// ParseDuration converts a playlist duration string to whole seconds.
//
// Accepted forms are plain seconds ("215", "215.4"), clock notation ("3:35",
// "01:03:35.00") and Go durations ("3m35s"). Anything else returns -1.
func ParseDuration(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return -1
		}
		return int64(f)
	}

	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return int64(d / time.Second)
	}
	return -1
}

func parseClock(s string) int64 {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return -1
	}

	var total float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return -1
		}
		total = total*60 + v
	}
	return int64(total)
}
