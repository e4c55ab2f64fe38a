package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/plparser"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 4
	maxWorkers       = 16
	defaultRateLimit = 200.0
)

// ScanOpts contains configuration for a library scan.
type ScanOpts struct {
	Recurse       bool    // Descend into subdirectories of the root
	IncludeHidden bool    // Visit dot-files and dot-directories
	Expand        bool    // Count entries of nested playlists instead of the reference itself
	NumWorkers    int     // Concurrent workers (default: 4, max: 16)
	RateLimit     float64 // Files opened per second (default: 200)
}

// PlaylistResult is the outcome of reading a single playlist.
type PlaylistResult struct {
	Path    string
	Format  plparser.Format
	Entries int
	Err     error
}

// ScanResult contains all data from a scan.
type ScanResult struct {
	Root         string           // Directory or file that was scanned
	FilesVisited int              // Regular files considered
	Playlists    []PlaylistResult // Playlists found, ordered by path
	Parsed       int              // Playlists read successfully
	Failed       int              // Playlists that failed to parse
	TotalEntries int              // Sum of entries over parsed playlists
}

// Scanner finds and reads playlists below a root path.
type Scanner interface {
	Scan(ctx context.Context, progress chan<- ProgressUpdate, root string, opts ScanOpts) (*ScanResult, error)
}

var _ Scanner = (*ScanEngine)(nil)

// ScanEngine implements [Scanner] on top of a [plparser.Parser].
type ScanEngine struct {
	parser *plparser.Parser
	logger *log.Logger
}

// NewScanEngine creates a ScanEngine. A nil parser or logger uses the defaults.
func NewScanEngine(parser *plparser.Parser, logger *log.Logger) *ScanEngine {
	if logger == nil {
		logger = log.Default()
	}
	if parser == nil {
		parser = plparser.New(logger)
	}
	return &ScanEngine{parser: parser, logger: logger.WithPrefix("scan")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ScanEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Scan walks root, sniffs every regular file and parses the playlists among them.
//
// Per-playlist failures are recorded in the result and do not fail the scan.
// When ctx is cancelled the partial result is returned with the context error.
func (e *ScanEngine) Scan(ctx context.Context, progress chan<- ProgressUpdate, root string, opts ScanOpts) (*ScanResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	e.sendProgress(progress, walkingUpdate(root))
	files, err := e.walk(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, walkedUpdate(len(files)))

	result := &ScanResult{
		Root:         root,
		FilesVisited: len(files),
		Playlists:    []PlaylistResult{},
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), opts.NumWorkers)
	jobs := make(chan string, len(files))
	results := make(chan PlaylistResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.scanWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, path := range files {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- path
			e.sendProgress(progress, sniffingUpdate(i+1, len(files), path))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Format == plparser.FormatUnknown {
			continue
		}

		result.Playlists = append(result.Playlists, res)
		if res.Err != nil {
			result.Failed++
			e.sendProgress(progress, parseFailedUpdate(completed, len(files), res))
			continue
		}
		result.Parsed++
		result.TotalEntries += res.Entries
		e.sendProgress(progress, parsedUpdate(completed, len(files), res))
	}

	slices.SortFunc(result.Playlists, func(a, b PlaylistResult) int {
		return strings.Compare(a.Path, b.Path)
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// walk collects the regular files below root. A root naming a file yields that file.
func (e *ScanEngine) walk(ctx context.Context, root string, opts ScanOpts) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			e.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		hidden := path != root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recurse || (hidden && !opts.IncludeHidden) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden && !opts.IncludeHidden {
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// scanWorker reads paths from jobs until it is closed.
func (e *ScanEngine) scanWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- PlaylistResult,
	opts ScanOpts,
) {
	defer wg.Done()

	for path := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.scanFile(ctx, path, opts)
	}
}

// scanFile sniffs a single file and, when it is a playlist, counts its entries.
func (e *ScanEngine) scanFile(ctx context.Context, path string, opts ScanOpts) PlaylistResult {
	res := PlaylistResult{Path: path}

	format, err := plparser.Detect(path)
	if err != nil {
		e.logger.Debug("failed to sniff file", "path", path, "error", err)
		return res
	}
	res.Format = format
	if format == plparser.FormatUnknown {
		return res
	}

	entries, err := e.parser.ParseFile(ctx, path, models.ParseOptions{Recurse: opts.Expand})
	if err != nil {
		res.Err = err
		e.logger.Warn("failed to parse playlist", "path", path, "format", format, "error", err)
		return res
	}
	res.Entries = len(entries)
	return res
}
