package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsx/internal/models"
	"github.com/desertthunder/plsx/internal/shared"
	"github.com/desertthunder/plsx/internal/ui"
	"github.com/urfave/cli/v3"
)

var tuiKeys = []models.Key{models.KeyTitle, models.KeyURL, models.KeyMime, models.KeyDuration, models.KeyArtist, models.KeyAlbum, models.KeyChildCount}

// TUI launches the interactive terminal playlist browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	root, err := container(cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	opts := models.DefaultOptions()
	if r.config.Browse.MaxCount > 0 {
		opts.Count = r.config.Browse.MaxCount
	}
	browse := func(ctx context.Context, c *models.Media) ([]*models.Media, error) {
		return r.browseSync(ctx, c, tuiKeys, opts)
	}

	model := ui.NewModel(ctx, root, browse)
	model.SetOpener(shared.OpenURL)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
