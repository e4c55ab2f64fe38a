package plparser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/pls"
)

var (
	// ErrUnhandled is returned for inputs that are not a recognised playlist.
	ErrUnhandled = errors.New("not a supported playlist")

	// ErrRemote is returned for playlist URLs that do not resolve to a local file.
	ErrRemote = errors.New("remote playlists are not supported")
)

// maxDepth bounds nested playlist expansion when recursing.
const maxDepth = 8

// Entry is one reference read from a playlist, with its metadata keyed by the
// models.Meta* constants.
type Entry struct {
	URI      string
	Metadata map[string]string
}

type emitFunc func(Entry) error

// Parser reads playlist files. It holds no per-parse state and is safe for concurrent use.
type Parser struct {
	logger *log.Logger
}

// New creates a parser. A nil logger uses the default logger.
func New(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{logger: logger.WithPrefix("plparser")}
}

// CanParse reports whether the file at path looks like a supported playlist.
// It reads at most the first few hundred bytes.
func (p *Parser) CanParse(path string) bool {
	f, err := Detect(path)
	return err == nil && f != FormatUnknown
}

// Detect reports the playlist format of the regular file at path from its
// name and leading bytes.
func Detect(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, err
	}
	if !info.Mode().IsRegular() {
		return FormatUnknown, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, head)
	return DetectFormat(path, head[:n]), nil
}

// ParseAsync parses the playlist at url on a new goroutine.
//
// The channel carries one event per entry and a final completion event, then
// closes. Callers must drain it. Cancelling ctx stops the parse with
// [models.ParseCancelled].
func (p *Parser) ParseAsync(ctx context.Context, url string, opts models.ParseOptions) <-chan models.ParseEvent {
	ch := make(chan models.ParseEvent)

	go func() {
		defer close(ch)

		err := p.Parse(ctx, url, opts, func(e Entry) error {
			select {
			case ch <- models.EntryEvent(e.URI, e.Metadata):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		ch <- models.DoneEvent(StatusOf(err), err)
	}()
	return ch
}

// Parse reads the playlist at url and calls emit for every entry in order.
// An error returned by emit stops the parse and is returned.
func (p *Parser) Parse(ctx context.Context, url string, opts models.ParseOptions, emit func(Entry) error) error {
	path, err := pls.ResolvePath(url)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRemote, url)
	}
	return p.parseFile(ctx, path, opts, 0, emit)
}

// ParseFile collects every entry of the playlist at path.
func (p *Parser) ParseFile(ctx context.Context, path string, opts models.ParseOptions) ([]Entry, error) {
	var entries []Entry
	err := p.parseFile(ctx, path, opts, 0, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (p *Parser) parseFile(ctx context.Context, path string, opts models.ParseOptions, depth int, emit emitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(sniffLen)
	format := DetectFormat(path, head)
	if format == FormatUnknown {
		return fmt.Errorf("%w: %s", ErrUnhandled, path)
	}
	p.logger.Debug("parsing playlist", "path", path, "format", format, "depth", depth)

	dir := filepath.Dir(path)
	resolved := func(e Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.URI = resolveRef(dir, e.URI)
		if e.URI == "" {
			return nil
		}

		if opts.Recurse && depth < maxDepth {
			if local, err := pls.ResolvePath(e.URI); err == nil && p.CanParse(local) {
				err := p.parseFile(ctx, local, opts, depth+1, emit)
				if err == nil {
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Warn("failed to expand nested playlist", "path", local, "error", err)
			}
		}
		return emit(e)
	}

	switch format {
	case FormatM3U:
		return readM3U(br, resolved)
	case FormatPLS:
		return readPLS(br, resolved)
	default:
		return readXML(br, format, resolved)
	}
}

// resolveRef makes a local reference absolute against dir. References with a
// scheme other than file are returned unchanged.
func resolveRef(dir, ref string) string {
	if ref == "" {
		return ""
	}
	path, err := pls.ResolvePath(ref)
	if err != nil {
		return ref
	}
	if path != ref {
		// file:// URI, already absolute
		return path
	}
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// StatusOf maps a parse error to the completion status reported to consumers.
func StatusOf(err error) models.ParseStatus {
	switch {
	case err == nil:
		return models.ParseSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return models.ParseCancelled
	case errors.Is(err, ErrUnhandled), errors.Is(err, ErrRemote):
		return models.ParseUnhandled
	default:
		return models.ParseError
	}
}
