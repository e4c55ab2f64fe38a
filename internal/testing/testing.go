// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/plsx/internal/models"
)

// MockParser is a scripted playlist parser.
//
// Events scripted for a URL are sent in order; when the script has no Done event
// a successful one is appended. If Hold is set the parser waits on it before its
// first Done event. Cancelling the parse context ends the stream with a
// [models.ParseCancelled] completion.
type MockParser struct {
	mu      sync.Mutex
	scripts map[string][]models.ParseEvent
	calls   map[string]int
	opts    []models.ParseOptions
	Hold    chan struct{}
}

func NewMockParser() *MockParser {
	return &MockParser{scripts: make(map[string][]models.ParseEvent), calls: make(map[string]int)}
}

// Script sets the events returned for url.
func (p *MockParser) Script(url string, events ...models.ParseEvent) *MockParser {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[url] = events
	return p
}

// Calls returns how many parses of url were started.
func (p *MockParser) Calls(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[url]
}

// Options returns the options of every parse, in call order.
func (p *MockParser) Options() []models.ParseOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.opts)
}

func (p *MockParser) ParseAsync(ctx context.Context, url string, opts models.ParseOptions) <-chan models.ParseEvent {
	p.mu.Lock()
	p.calls[url]++
	p.opts = append(p.opts, opts)
	events, scripted := p.scripts[url]
	events = slices.Clone(events)
	hold := p.Hold
	p.mu.Unlock()

	if !scripted {
		events = []models.ParseEvent{models.DoneEvent(models.ParseUnhandled, fmt.Errorf("no script for %s", url))}
	} else if !slices.ContainsFunc(events, func(ev models.ParseEvent) bool { return ev.Done }) {
		events = append(events, models.DoneEvent(models.ParseSuccess, nil))
	}

	ch := make(chan models.ParseEvent)
	go func() {
		defer close(ch)
		held := false
		for _, ev := range events {
			if ev.Done && hold != nil && !held {
				held = true
				select {
				case <-hold:
				case <-ctx.Done():
					ch <- models.DoneEvent(models.ParseCancelled, ctx.Err())
					return
				}
			}
			ch <- ev
		}
	}()
	return ch
}

// MockAttributes serves attributes from a map keyed by path.
type MockAttributes struct {
	mu      sync.Mutex
	files   map[string]*models.Attributes
	errs    map[string]error
	queries int
}

func NewMockAttributes() *MockAttributes {
	return &MockAttributes{files: make(map[string]*models.Attributes), errs: make(map[string]error)}
}

// AddFile registers a regular file at path with the given content type.
func (a *MockAttributes) AddFile(path, contentType string) *models.Attributes {
	attrs := &models.Attributes{
		DisplayName: filepath.Base(path),
		ContentType: contentType,
		FileType:    models.FileTypeRegular,
		ModTime:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	a.Set(path, attrs)
	return attrs
}

// AddDir registers a directory at path.
func (a *MockAttributes) AddDir(path string) *models.Attributes {
	attrs := &models.Attributes{
		DisplayName: filepath.Base(path),
		ContentType: "inode/directory",
		FileType:    models.FileTypeDirectory,
	}
	a.Set(path, attrs)
	return attrs
}

func (a *MockAttributes) Set(path string, attrs *models.Attributes) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[path] = attrs
}

// Fail makes lookups of path return err.
func (a *MockAttributes) Fail(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs[path] = err
}

func (a *MockAttributes) Queries() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queries
}

func (a *MockAttributes) QueryAttributes(path string) (*models.Attributes, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries++
	if err, ok := a.errs[path]; ok {
		return nil, err
	}
	attrs, ok := a.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	c := *attrs
	return &c, nil
}

// MockSniffer reports the registered paths as playlists.
type MockSniffer struct {
	mu        sync.Mutex
	playlists map[string]bool
}

func NewMockSniffer(paths ...string) *MockSniffer {
	s := &MockSniffer{playlists: make(map[string]bool)}
	for _, p := range paths {
		s.playlists[p] = true
	}
	return s
}

func (s *MockSniffer) Add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[path] = true
}

func (s *MockSniffer) CanParse(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlists[path]
}

// MockRecorder keeps every browse record it receives.
type MockRecorder struct {
	mu      sync.Mutex
	records []*models.BrowseRecord
	Err     error
}

func (r *MockRecorder) Record(rec *models.BrowseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.Err
}

func (r *MockRecorder) Records() []*models.BrowseRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// WriteFile writes content to name under dir, creating parents, and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
