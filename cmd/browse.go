package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/plsx/internal/formatter"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/pls"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// browseOptions reads the window and filter flags shared by browse and list.
func (r *Runner) browseOptions(cmd *cli.Command) (models.Options, []models.Key, error) {
	opts := models.DefaultOptions()
	opts.Count = r.config.Browse.DefaultCount
	if cmd.IsSet("count") {
		opts.Count = int(cmd.Int("count"))
	}
	skip := cmd.Int("skip")
	if skip < 0 {
		return opts, nil, fmt.Errorf("%w: --skip must be >= 0", shared.ErrInvalidFlag)
	}
	opts.Skip = uint(skip)

	filter, err := parseTypeFilter(cmd.String("type"))
	if err != nil {
		return opts, nil, err
	}
	opts.TypeFilter = filter

	keys, err := models.ParseKeys(cmd.String("keys"))
	if err != nil {
		return opts, nil, fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return opts, keys, nil
}

// parseTypeFilter parses a comma-separated list such as "audio,video".
func parseTypeFilter(s string) (models.TypeFilter, error) {
	var filter models.TypeFilter
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "audio":
			filter |= models.TypeFilterAudio
		case "video":
			filter |= models.TypeFilterVideo
		case "image":
			filter |= models.TypeFilterImage
		case "all":
			filter |= models.TypeFilterAll
		default:
			return 0, fmt.Errorf("%w: unknown type %q", shared.ErrInvalidFlag, part)
		}
	}
	return filter, nil
}

// Browse lists a playlist asynchronously, printing each entry as it is delivered.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	c, err := container(cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	opts, keys, err := r.browseOptions(cmd)
	if err != nil {
		return err
	}

	var (
		done      bool
		delivered int
		browseErr error
	)
	callback := func(_ models.Source, h pls.Handle, media *models.Media, remaining uint, _ any, err error) {
		switch {
		case err != nil:
			browseErr = err
			done = true
			return
		case media == nil:
			done = true
			return
		}

		delivered++
		r.writePlain("%4d  %s  (%d remaining)\n", opts.Skip+uint(delivered), formatter.FormatItem(media, keys), remaining)
		if remaining == 0 {
			done = true
		}
	}

	r.logger.Debug("browsing", "container", c.URL, "skip", opts.Skip, "count", opts.Count)
	h, err := r.browser.Browse(r.source(), c, keys, opts, callback, nil)
	if err != nil {
		return err
	}

	finished := func() bool { return done }
	if err := r.loop.RunUntil(ctx, finished); err != nil {
		if ctx.Err() == nil {
			return err
		}
		r.browser.Cancel(h)
		if err := r.loop.RunUntil(context.Background(), finished); err != nil {
			return err
		}
	}

	if browseErr != nil {
		if errors.Is(browseErr, pls.ErrCancelled) {
			r.writePlainln("Cancelled after %d entries", delivered)
		}
		return browseErr
	}
	if delivered == 0 {
		r.writePlain("No entries\n")
	}
	return nil
}

// List browses a playlist synchronously and renders the whole window in the requested format.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	c, err := container(cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	opts, keys, err := r.browseOptions(cmd)
	if err != nil {
		return err
	}

	format := formatter.NormalizeFormat(cmd.String("format"))
	items, err := r.browseSync(ctx, c, keys, opts)
	if err != nil {
		return err
	}

	listing := &formatter.Listing{Container: c, Items: items, Keys: keys, Skip: opts.Skip}
	if cmd.IsSet("output") || cmd.Bool("save") {
		path, err := formatter.WriteExport(listing, format, cmd.String("output"))
		if err != nil {
			return err
		}
		r.logger.Info("exported playlist", "path", path, "format", format, "entries", len(items))
		r.writePlain("✓ Exported %d entries to %s\n", len(items), path)
		return nil
	}

	data, err := formatter.Export(listing, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
