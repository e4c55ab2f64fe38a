package pls

import (
	"errors"
	"testing"

	"github.com/desertthunder/plsx/internal/models"
	tu "github.com/desertthunder/plsx/internal/testing"
)

func TestMimeIsPlaylist(t *testing.T) {
	tests := []struct {
		mime     string
		expected bool
	}{
		{"audio/x-scpls", true},
		{"audio/x-mpegurl", true},
		{"audio/mpegurl", true},
		{"audio/x-ms-asx", true},
		{"audio/x-mpegurl; charset=utf-8", true},
		{"audio/mpeg", false},
		{"video/mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := MimeIsPlaylist(tt.mime); got != tt.expected {
				t.Errorf("MimeIsPlaylist(%q) = %v, want %v", tt.mime, got, tt.expected)
			}
		})
	}
}

func TestMediaIsPlaylist(t *testing.T) {
	sniffer := tu.NewMockSniffer("/music/mix.m3u")

	tests := []struct {
		name     string
		media    *models.Media
		expected bool
	}{
		{"file url", models.NewContainer("file:///music/mix.m3u"), true},
		{"bare path", models.NewContainer("/music/mix.m3u"), true},
		{"not a playlist", models.NewContainer("file:///music/song.mp3"), false},
		{"no url", models.NewContainer(""), false},
		{"remote", models.NewContainer("http://example.com/mix.m3u"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MediaIsPlaylist(sniffer, tt.media); got != tt.expected {
				t.Errorf("MediaIsPlaylist() = %v, want %v", got, tt.expected)
			}
		})
	}

	if FileIsPlaylist(nil, "/music/mix.m3u") {
		t.Error("nil sniffer should never report a playlist")
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
		wantErr  bool
	}{
		{"/music/a.mp3", "/music/a.mp3", false},
		{"music/a.mp3", "music/a.mp3", false},
		{"file:///music/a%20b.mp3", "/music/a b.mp3", false},
		{"FILE:///music/a.mp3", "/music/a.mp3", false},
		{"file://localhost/music/a.mp3", "/music/a.mp3", false},
		{"file://server/music/a.mp3", "", true},
		{"http://example.com/a.mp3", "", true},
		{"smb://share/a.mp3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := ResolvePath(tt.uri)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedScheme) {
					t.Errorf("expected ErrUnsupportedScheme, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.uri, got, tt.expected)
			}
		})
	}
}

func TestFileURL(t *testing.T) {
	if got := FileURL("/music/a b.mp3"); got != "file:///music/a%20b.mp3" {
		t.Errorf("FileURL() = %q", got)
	}
}
