package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/plsx/internal/plparser"
	"github.com/desertthunder/plsx/internal/pls"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SniffResult is the verdict for one sniffed path or MIME type.
type SniffResult struct {
	Input    string `json:"input"`
	Mime     bool   `json:"mime"`
	Playlist bool   `json:"playlist"`
	Format   string `json:"format,omitempty"`
}

// sniff decides whether input names a playlist. Inputs that are not an existing
// path but look like a MIME type are checked as MIME types.
func (r *Runner) sniff(input string) SniffResult {
	res := SniffResult{Input: input}
	if _, err := os.Stat(input); err != nil && looksLikeMime(input) {
		res.Mime = true
		res.Playlist = pls.MimeIsPlaylist(input)
		if f := plparser.FormatForMime(input); f != plparser.FormatUnknown {
			res.Format = f.String()
		}
		return res
	}

	res.Playlist = pls.FileIsPlaylist(r.parser, input)
	if res.Playlist {
		if f, err := plparser.Detect(input); err == nil {
			res.Format = f.String()
		}
	}
	return res
}

func looksLikeMime(s string) bool {
	typ, sub, ok := strings.Cut(s, "/")
	return ok && typ != "" && sub != "" && !strings.ContainsAny(typ, `.\`) && !strings.HasPrefix(s, "/")
}

// Sniff reports whether each argument is a playlist file or playlist MIME type.
func (r *Runner) Sniff(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one path or MIME type", shared.ErrMissingArgument)
	}

	results := make([]SniffResult, len(inputs))
	for i, input := range inputs {
		results[i] = r.sniff(input)
		r.logger.Debug("sniffed", "input", input, "playlist", results[i].Playlist)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	for _, res := range results {
		switch {
		case res.Playlist && res.Format != "":
			r.writePlain("✓ %s: playlist (%s)\n", res.Input, res.Format)
		case res.Playlist:
			r.writePlain("✓ %s: playlist\n", res.Input)
		default:
			r.writePlain("✗ %s: not a playlist\n", res.Input)
		}
	}
	return nil
}
