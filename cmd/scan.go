package main

import (
	"context"
	"sync"

	"github.com/desertthunder/plsx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// scanOptions merges the [scan] config section with command flags.
func (r *Runner) scanOptions(cmd *cli.Command) tasks.ScanOpts {
	opts := tasks.ScanOpts{
		Recurse:       cmd.Bool("recurse"),
		IncludeHidden: r.config.Scan.Hidden,
		Expand:        cmd.Bool("expand"),
		NumWorkers:    r.config.Scan.Workers,
		RateLimit:     r.config.Scan.RateLimit,
	}
	if cmd.IsSet("hidden") {
		opts.IncludeHidden = cmd.Bool("hidden")
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}
	return opts
}

// Scan finds playlists below a directory and reports their formats and entry counts.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg("dir")
	if root == "" {
		root = "."
	}
	opts := r.scanOptions(cmd)
	asJSON := cmd.Bool("json")

	r.logger.Info("starting scan", "root", root, "recurse", opts.Recurse, "workers", opts.NumWorkers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			if asJSON || !cmd.Bool("verbose") {
				continue
			}
			switch update.Phase {
			case tasks.ScanWalk:
				r.writePlain("📂 %s\n", update.Message)
			case tasks.ScanParse:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.scanner.Scan(ctx, progressCh, root, opts)
	close(progressCh)
	wg.Wait()

	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(scanReport(result), cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Scan Complete!")
	r.writePlain("Root: %s\n", result.Root)
	r.writePlain("Files: %d\n", result.FilesVisited)
	r.writePlain("Playlists: %d (%d entries)\n", result.Parsed, result.TotalEntries)

	for _, p := range result.Playlists {
		if p.Err == nil {
			r.writePlain("  ✓ %-5s %4d  %s\n", p.Format, p.Entries, p.Path)
		}
	}
	if result.Failed > 0 {
		r.writePlain("\nFailed to parse %d playlists:\n", result.Failed)
		for _, p := range result.Playlists {
			if p.Err != nil {
				r.writePlain("  - %s: %v\n", p.Path, p.Err)
			}
		}
	}
	return nil
}

type scanPlaylist struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

type scanSummary struct {
	Root         string         `json:"root"`
	FilesVisited int            `json:"files_visited"`
	Parsed       int            `json:"parsed"`
	Failed       int            `json:"failed"`
	TotalEntries int            `json:"total_entries"`
	Playlists    []scanPlaylist `json:"playlists"`
}

func scanReport(res *tasks.ScanResult) scanSummary {
	out := scanSummary{
		Root:         res.Root,
		FilesVisited: res.FilesVisited,
		Parsed:       res.Parsed,
		Failed:       res.Failed,
		TotalEntries: res.TotalEntries,
		Playlists:    make([]scanPlaylist, len(res.Playlists)),
	}
	for i, p := range res.Playlists {
		out.Playlists[i] = scanPlaylist{Path: p.Path, Format: p.Format.String(), Entries: p.Entries}
		if p.Err != nil {
			out.Playlists[i].Error = p.Err.Error()
		}
	}
	return out
}
