package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/fsattr"
	"github.com/desertthunder/plsx/internal/loop"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/plparser"
	"github.com/desertthunder/plsx/internal/pls"
	"github.com/desertthunder/plsx/internal/repositories"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/desertthunder/plsx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const localSourceID = "local"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
	history *repositories.BrowseRepository
	parser  *plparser.Parser
	attrs   *fsattr.Provider
	loop    *loop.Loop
	browser *pls.Browser
	scanner tasks.Scanner

	// browseMu serializes synchronous browses issued from other goroutines (the TUI).
	browseMu sync.Mutex
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	DB     *sql.DB // Optional; enables browse history
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		db:     opts.DB,
	}
	if opts.DB != nil {
		r.history = repositories.NewBrowseRepository(opts.DB)
	}
	r.wire()
	return r
}

// wire builds the browse stack around the current logger.
func (r *Runner) wire() {
	if r.browser != nil {
		r.browser.Close()
		r.loop.Close()
	}

	r.parser = plparser.New(r.logger)
	r.attrs = fsattr.New(fsattr.Opts{
		TTL:          r.config.Attributes.CacheTTL.Duration,
		ThumbnailDir: r.config.Attributes.ThumbnailDir,
		Logger:       r.logger,
	})
	r.loop = loop.New()

	var recorder pls.Recorder
	if r.history != nil && r.config.Browse.History {
		recorder = repositories.NewHistoryRecorder(r.history)
	}
	r.browser = pls.NewBrowser(pls.BrowserOpts{
		Loop:       r.loop,
		Parser:     r.parser,
		Attributes: r.attrs,
		Sniffer:    r.parser,
		Recorder:   recorder,
		Logger:     r.logger,
	})
	r.scanner = tasks.NewScanEngine(r.parser, r.logger)
}

// SetLogger swaps the logger and rebuilds every component holding it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.wire()
}

// Close releases the browse stack and the history database.
func (r *Runner) Close() error {
	r.browser.Close()
	r.loop.Close()
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, browseCommand, listCommand, sniffCommand, scanCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// source is the local filesystem source, restricted by the configured page size.
func (r *Runner) source() models.Source {
	return models.NewStaticSource(localSourceID, "Local files", map[models.Operation]*models.Caps{
		models.OpBrowse: {
			TypeFilter: models.TypeFilterAll,
			Flags:      models.ResolveFullResolution | models.ResolveIdleRelay | models.ResolveFastOnly,
			MaxCount:   r.config.Browse.MaxCount,
		},
	})
}

// container turns a path or URL argument into a browsable container.
func container(arg string) (*models.Media, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, fmt.Errorf("%w: playlist path or URL", shared.ErrMissingArgument)
	}

	url := arg
	if !strings.Contains(arg, "://") {
		url = pls.FileURL(arg)
	}
	c := models.NewContainer(url)
	if path, err := pls.ResolvePath(url); err == nil {
		c.Title = filepath.Base(path)
	}
	return c, nil
}

// browseSync runs a synchronous browse. Safe to call from any goroutine.
func (r *Runner) browseSync(ctx context.Context, c *models.Media, keys []models.Key, opts models.Options) ([]*models.Media, error) {
	r.browseMu.Lock()
	defer r.browseMu.Unlock()
	return r.browser.BrowseSync(ctx, r.source(), c, keys, opts)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
