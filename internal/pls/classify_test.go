package pls

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
	tu "github.com/desertthunder/plsx/internal/testing"
)

func newTestClassifier() (*Classifier, *tu.MockAttributes, *tu.MockSniffer) {
	attrs := tu.NewMockAttributes()
	sniffer := tu.NewMockSniffer()
	return NewClassifier(attrs, sniffer, log.New(io.Discard)), attrs, sniffer
}

func TestClassifyKinds(t *testing.T) {
	c, attrs, sniffer := newTestClassifier()
	attrs.AddFile("/m/song.mp3", "audio/mpeg")
	attrs.AddFile("/m/clip.mkv", "video/x-matroska")
	attrs.AddFile("/m/cover.png", "image/png")
	attrs.AddFile("/m/notes.txt", "text/plain")
	attrs.AddDir("/m/albums")
	attrs.AddFile("/m/nested.pls", "audio/x-scpls")
	sniffer.Add("/m/nested.pls")

	tests := []struct {
		uri  string
		kind models.Kind
		mime string
	}{
		{"/m/song.mp3", models.KindAudio, "audio/mpeg"},
		{"/m/clip.mkv", models.KindVideo, "video/x-matroska"},
		{"/m/cover.png", models.KindImage, "image/png"},
		{"/m/notes.txt", models.KindGeneric, "text/plain"},
		{"/m/albums", models.KindCollection, ""},
		{"/m/nested.pls", models.KindCollection, ""},
		{"file:///m/song.mp3", models.KindAudio, "audio/mpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			m := c.Classify(models.RawEntry{URI: tt.uri})
			if m == nil {
				t.Fatal("expected media, got nil")
			}
			if m.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", m.Kind, tt.kind)
			}
			if m.Mime != tt.mime {
				t.Errorf("Mime = %q, want %q", m.Mime, tt.mime)
			}
			if m.Kind == models.KindCollection && m.ChildCount != models.UnknownChildCount {
				t.Errorf("collection ChildCount = %d, want unknown", m.ChildCount)
			}
		})
	}
}

func TestClassifyFields(t *testing.T) {
	c, attrs, _ := newTestClassifier()
	a := attrs.AddFile("/m/my.song.flac", "audio/flac")
	a.ThumbnailPath = "/thumbs/abc.png"
	attrs.Set("/m/my.song.flac", a)

	entry := models.RawEntry{
		URI:      "/m/my.song.flac",
		Album:    "Album",
		Author:   "Artist",
		Genre:    "Genre",
		Duration: 245,
	}
	m := c.Classify(entry)
	if m == nil {
		t.Fatal("expected media")
	}

	if m.Title != "my.song" {
		t.Errorf("Title = %q, want %q", m.Title, "my.song")
	}
	if m.URL != "file:///m/my.song.flac" {
		t.Errorf("URL = %q", m.URL)
	}
	if m.Thumbnail != "file:///thumbs/abc.png" {
		t.Errorf("Thumbnail = %q", m.Thumbnail)
	}
	if m.Duration != 245 {
		t.Errorf("Duration = %d", m.Duration)
	}
	if m.Album != "Album" || m.Artist != "Artist" || m.Genre != "Genre" {
		t.Errorf("audio metadata not copied: %+v", m)
	}
	if !m.ModificationDate.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("ModificationDate = %v", m.ModificationDate)
	}

	t.Run("thumbnailing failed", func(t *testing.T) {
		a.ThumbnailingFailed = true
		attrs.Set("/m/my.song.flac", a)
		if m := c.Classify(entry); m.Thumbnail != "" {
			t.Errorf("Thumbnail = %q, want empty", m.Thumbnail)
		}
	})

	t.Run("audio metadata only on audio", func(t *testing.T) {
		attrs.AddFile("/m/film.mp4", "video/mp4")
		m := c.Classify(models.RawEntry{URI: "/m/film.mp4", Album: "Album", Author: "Artist", Duration: -1})
		if m.Album != "" || m.Artist != "" {
			t.Errorf("video should not carry audio metadata: %+v", m)
		}
		if m.Duration != 0 {
			t.Errorf("unknown duration should stay unset, got %d", m.Duration)
		}
	})

	t.Run("no extension", func(t *testing.T) {
		attrs.AddFile("/m/README", "text/plain")
		if m := c.Classify(models.RawEntry{URI: "/m/README"}); m.Title != "README" {
			t.Errorf("Title = %q", m.Title)
		}
	})
}

func TestClassifySkips(t *testing.T) {
	c, attrs, _ := newTestClassifier()
	attrs.AddFile("/m/a.mp3", "audio/mpeg")
	attrs.Fail("/m/broken.mp3", errors.New("permission denied"))

	tests := []string{
		"http://example.com/stream.mp3",
		"/m/missing.mp3",
		"/m/broken.mp3",
	}
	for _, uri := range tests {
		t.Run(uri, func(t *testing.T) {
			if m := c.Classify(models.RawEntry{URI: uri}); m != nil {
				t.Errorf("expected skip, got %v", m)
			}
		})
	}

	t.Run("ClassifyAll keeps order and counts skips", func(t *testing.T) {
		entries := []models.RawEntry{{URI: "http://x/y"}, {URI: "/m/a.mp3"}, {URI: "/m/missing.mp3"}}
		media, skipped := c.ClassifyAll(entries)
		if len(media) != 1 || skipped != 2 {
			t.Fatalf("got %d media and %d skipped", len(media), skipped)
		}
		if entries[1].Media != media[0] {
			t.Error("classified entry should reference its media")
		}
		if entries[0].Media != nil {
			t.Error("skipped entry should have no media")
		}
	})
}
