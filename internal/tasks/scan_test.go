package tasks

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/plparser"
	tu "github.com/desertthunder/plsx/internal/testing"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// library lays out a small music directory:
//
//	mix.m3u          two entries, the second referencing sub/radio.pls
//	notes.txt        not a playlist
//	broken.xspf      truncated XML
//	sub/radio.pls    two entries
//	.hidden/old.m3u  one entry
func library(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tu.WriteFile(t, dir, "mix.m3u", "#EXTM3U\none.mp3\nsub/radio.pls\n")
	tu.WriteFile(t, dir, "notes.txt", "remember to tag the live albums\n")
	tu.WriteFile(t, dir, "broken.xspf", "<?xml version=\"1.0\"?>\n<playlist version=\"1\" xmlns=\"http://xspf.org/ns/0/\"><trackList><track><location>/a.mp3")
	tu.WriteFile(t, dir, "sub/radio.pls", "[playlist]\nFile1=http://example.com/a\nFile2=http://example.com/b\nNumberOfEntries=2\n")
	tu.WriteFile(t, dir, ".hidden/old.m3u", "old.mp3\n")
	return dir
}

func newTestEngine() *ScanEngine {
	logger := log.New(io.Discard)
	return NewScanEngine(plparser.New(logger), logger)
}

func TestScan(t *testing.T) {
	dir := library(t)

	tests := []struct {
		name        string
		opts        ScanOpts
		wantFiles   int
		wantPaths   []string
		wantParsed  int
		wantFailed  int
		wantEntries int
	}{
		{
			name:        "top level only",
			opts:        ScanOpts{},
			wantFiles:   3,
			wantPaths:   []string{"broken.xspf", "mix.m3u"},
			wantParsed:  1,
			wantFailed:  1,
			wantEntries: 2,
		},
		{
			name:        "recursive",
			opts:        ScanOpts{Recurse: true, NumWorkers: 2},
			wantFiles:   4,
			wantPaths:   []string{"broken.xspf", "mix.m3u", "sub/radio.pls"},
			wantParsed:  2,
			wantFailed:  1,
			wantEntries: 4,
		},
		{
			name:        "recursive with hidden",
			opts:        ScanOpts{Recurse: true, IncludeHidden: true, NumWorkers: 32},
			wantFiles:   5,
			wantPaths:   []string{".hidden/old.m3u", "broken.xspf", "mix.m3u", "sub/radio.pls"},
			wantParsed:  3,
			wantFailed:  1,
			wantEntries: 5,
		},
		{
			name:        "expand nested playlists",
			opts:        ScanOpts{Recurse: true, Expand: true, RateLimit: 1000},
			wantFiles:   4,
			wantPaths:   []string{"broken.xspf", "mix.m3u", "sub/radio.pls"},
			wantParsed:  2,
			wantFailed:  1,
			wantEntries: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestEngine().Scan(context.Background(), nil, dir, tt.opts)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}

			if result.Root != dir {
				t.Errorf("Root = %q, want %q", result.Root, dir)
			}
			if result.FilesVisited != tt.wantFiles {
				t.Errorf("FilesVisited = %d, want %d", result.FilesVisited, tt.wantFiles)
			}
			if len(result.Playlists) != len(tt.wantPaths) {
				t.Fatalf("got %d playlists, want %d: %+v", len(result.Playlists), len(tt.wantPaths), result.Playlists)
			}
			for i, want := range tt.wantPaths {
				if got := result.Playlists[i].Path; got != filepath.Join(dir, want) {
					t.Errorf("Playlists[%d].Path = %q, want %q", i, got, filepath.Join(dir, want))
				}
			}
			if result.Parsed != tt.wantParsed {
				t.Errorf("Parsed = %d, want %d", result.Parsed, tt.wantParsed)
			}
			if result.Failed != tt.wantFailed {
				t.Errorf("Failed = %d, want %d", result.Failed, tt.wantFailed)
			}
			if result.TotalEntries != tt.wantEntries {
				t.Errorf("TotalEntries = %d, want %d", result.TotalEntries, tt.wantEntries)
			}
		})
	}
}

func TestScan_PlaylistDetails(t *testing.T) {
	dir := library(t)

	result, err := newTestEngine().Scan(context.Background(), nil, dir, ScanOpts{Recurse: true})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	byPath := map[string]PlaylistResult{}
	for _, p := range result.Playlists {
		byPath[p.Path] = p
	}

	broken := byPath[filepath.Join(dir, "broken.xspf")]
	if broken.Format != plparser.FormatXSPF {
		t.Errorf("broken.xspf format = %v, want xspf", broken.Format)
	}
	if broken.Err == nil {
		t.Error("expected parse error for truncated playlist")
	}

	radio := byPath[filepath.Join(dir, "sub", "radio.pls")]
	if radio.Format != plparser.FormatPLS || radio.Entries != 2 || radio.Err != nil {
		t.Errorf("radio.pls = %+v, want pls with 2 entries", radio)
	}
}

func TestScan_SingleFile(t *testing.T) {
	dir := library(t)
	path := filepath.Join(dir, "mix.m3u")

	result, err := newTestEngine().Scan(context.Background(), nil, path, ScanOpts{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.FilesVisited != 1 || len(result.Playlists) != 1 {
		t.Fatalf("got %d files and %d playlists, want 1 and 1", result.FilesVisited, len(result.Playlists))
	}
	if result.Playlists[0].Format != plparser.FormatM3U {
		t.Errorf("Format = %v, want m3u", result.Playlists[0].Format)
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	result, err := newTestEngine().Scan(context.Background(), nil, t.TempDir(), ScanOpts{Recurse: true})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.FilesVisited != 0 || len(result.Playlists) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Playlists == nil {
		t.Error("Playlists should be an empty slice, not nil")
	}
}

func TestScan_Errors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")
		if _, err := newTestEngine().Scan(context.Background(), nil, missing, ScanOpts{}); err == nil {
			t.Error("expected error for missing root")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestEngine().Scan(ctx, nil, library(t), ScanOpts{Recurse: true})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Scan() error = %v, want context.Canceled", err)
		}
	})
}

func TestScan_Progress(t *testing.T) {
	dir := library(t)
	progress := make(chan ProgressUpdate, 100)

	if _, err := newTestEngine().Scan(context.Background(), progress, dir, ScanOpts{Recurse: true}); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	close(progress)

	phases := map[Phase]int{}
	var parsed []PlaylistResult
	for update := range progress {
		phases[update.Phase]++
		if res, ok := update.Data.(PlaylistResult); ok {
			parsed = append(parsed, res)
		}
	}

	if phases[ScanWalk] != 2 {
		t.Errorf("got %d walk updates, want 2", phases[ScanWalk])
	}
	if phases[ScanSniff] != 4 {
		t.Errorf("got %d sniff updates, want 4", phases[ScanSniff])
	}
	if phases[ScanParse] != 3 || len(parsed) != 3 {
		t.Errorf("got %d parse updates carrying %d results, want 3", phases[ScanParse], len(parsed))
	}
}

func TestScan_ProgressNeverBlocks(t *testing.T) {
	progress := make(chan ProgressUpdate)

	result, err := newTestEngine().Scan(context.Background(), progress, library(t), ScanOpts{Recurse: true})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if result.Parsed != 2 {
		t.Errorf("Parsed = %d, want 2", result.Parsed)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{ScanWalk, "walk"},
		{ScanSniff, "sniff"},
		{ScanParse, "parse"},
		{Phase(99), ""},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
