package fsattr

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
	tu "github.com/desertthunder/plsx/internal/testing"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// go-cache starts a janitor per cache that is only stopped by the finalizer
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

func newTestProvider(t *testing.T, ttl time.Duration) (*Provider, string) {
	t.Helper()
	thumbs := t.TempDir()
	return New(Opts{TTL: ttl, ThumbnailDir: thumbs, Logger: log.New(io.Discard)}), thumbs
}

func TestQueryAttributes(t *testing.T) {
	dir := t.TempDir()
	p, _ := newTestProvider(t, 0)

	song := tu.WriteFile(t, dir, "Track One.MP3", "ID3")
	list := tu.WriteFile(t, dir, "mix.m3u", "a.mp3\n")
	sub := filepath.Join(dir, "albums")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		displayName string
		contentType string
		fileType    models.FileType
	}{
		{"audio", song, "Track One.MP3", "audio/mpeg", models.FileTypeRegular},
		{"playlist", list, "mix.m3u", "audio/x-mpegurl", models.FileTypeRegular},
		{"directory", sub, "albums", DirectoryType, models.FileTypeDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, err := p.QueryAttributes(tt.path)
			if err != nil {
				t.Fatalf("QueryAttributes failed: %v", err)
			}
			if attrs.DisplayName != tt.displayName {
				t.Errorf("DisplayName = %q, want %q", attrs.DisplayName, tt.displayName)
			}
			if attrs.ContentType != tt.contentType {
				t.Errorf("ContentType = %q, want %q", attrs.ContentType, tt.contentType)
			}
			if attrs.FileType != tt.fileType {
				t.Errorf("FileType = %d, want %d", attrs.FileType, tt.fileType)
			}
			if attrs.ModTime.IsZero() {
				t.Error("ModTime should be set")
			}
		})
	}

	t.Run("missing", func(t *testing.T) {
		if _, err := p.QueryAttributes(filepath.Join(dir, "missing.mp3")); !os.IsNotExist(err) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestContentTypeSniffing(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected string
	}{
		{"extended m3u without extension", "list", "#EXTM3U\na.mp3\n", "audio/x-mpegurl"},
		{"pls without extension", "radio", "[playlist]\nFile1=a\n", "audio/x-scpls"},
		{"png", "picture", "\x89PNG\r\n\x1a\n0000", "image/png"},
		{"text", "notes", "just some words", "text/plain"},
		{"empty", "blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tu.WriteFile(t, dir, tt.file, tt.content)
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := ContentType(path, info); got != tt.expected {
				t.Errorf("ContentType() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestThumbnails(t *testing.T) {
	dir := t.TempDir()
	p, thumbs := newTestProvider(t, 0)

	withThumb := tu.WriteFile(t, dir, "a.mp3", "ID3")
	failed := tu.WriteFile(t, dir, "b.mp3", "ID3")
	plain := tu.WriteFile(t, dir, "c.mp3", "ID3")

	thumbPath := tu.WriteFile(t, filepath.Join(thumbs, "normal"), ThumbnailName(withThumb), "png")
	tu.WriteFile(t, filepath.Join(thumbs, "fail", "gnome-thumbnail-factory"), ThumbnailName(failed), "png")

	attrs, err := p.QueryAttributes(withThumb)
	if err != nil {
		t.Fatal(err)
	}
	if attrs.ThumbnailPath != thumbPath || attrs.ThumbnailingFailed {
		t.Errorf("thumbnail = %q failed=%v, want %q", attrs.ThumbnailPath, attrs.ThumbnailingFailed, thumbPath)
	}

	attrs, err = p.QueryAttributes(failed)
	if err != nil {
		t.Fatal(err)
	}
	if attrs.ThumbnailPath != "" || !attrs.ThumbnailingFailed {
		t.Errorf("expected failed thumbnailing, got %+v", attrs)
	}

	attrs, err = p.QueryAttributes(plain)
	if err != nil {
		t.Fatal(err)
	}
	if attrs.ThumbnailPath != "" || attrs.ThumbnailingFailed {
		t.Errorf("expected no thumbnail, got %+v", attrs)
	}

	if len(ThumbnailName(plain)) != 36 {
		t.Errorf("thumbnail name should be an md5 hex digest plus .png, got %q", ThumbnailName(plain))
	}
}

func TestMemoization(t *testing.T) {
	dir := t.TempDir()
	p, _ := newTestProvider(t, time.Minute)
	path := tu.WriteFile(t, dir, "a.mp3", "ID3")

	first, err := p.QueryAttributes(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Cached() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", p.Cached())
	}

	first.DisplayName = "mutated"
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	second, err := p.QueryAttributes(path)
	if err != nil {
		t.Fatalf("cached lookup should not touch the filesystem: %v", err)
	}
	if second.DisplayName != "a.mp3" {
		t.Errorf("cached attributes were aliased: %q", second.DisplayName)
	}

	p.Invalidate(path)
	if _, err := p.QueryAttributes(path); !os.IsNotExist(err) {
		t.Errorf("expected not-exist after invalidate, got %v", err)
	}
	if p.Cached() != 0 {
		t.Errorf("errors must not be cached, got %d entries", p.Cached())
	}
}

func TestDefaultThumbnailDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	if got := DefaultThumbnailDir(); got != "/tmp/xdg-cache/thumbnails" {
		t.Errorf("DefaultThumbnailDir() = %q", got)
	}
}
