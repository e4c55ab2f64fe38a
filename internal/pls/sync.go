package pls

import (
	"context"

	"github.com/desertthunder/plsx/internal/models"
)

type collector struct {
	media []*models.Media
	err   error
	done  bool
}

func (c *collector) collect(_ models.Source, _ Handle, media *models.Media, remaining uint, _ any, err error) {
	if c.err != nil {
		return
	}
	if err != nil {
		c.media = nil
		c.err = err
		c.done = true
		return
	}
	if media != nil {
		c.media = append(c.media, media)
	}
	if remaining == 0 {
		c.done = true
	}
}

// BrowseSync browses container and blocks until the operation terminates,
// driving the browser's loop meanwhile.
//
// The first error discards everything collected so far. When ctx ends first,
// the operation is cancelled and BrowseSync returns [ErrCancelled] once the
// cancellation has been delivered.
func (b *Browser) BrowseSync(ctx context.Context, source models.Source, container *models.Media, keys []models.Key, opts models.Options) ([]*models.Media, error) {
	c := &collector{media: make([]*models.Media, 0)}
	h, err := b.Browse(source, container, keys, opts, c.collect, nil)
	if err != nil {
		return nil, err
	}

	done := func() bool { return c.done }
	if err := b.loop.RunUntil(ctx, done); err != nil {
		if ctx.Err() == nil {
			return nil, err
		}
		b.Cancel(h)
		if err := b.loop.RunUntil(context.Background(), done); err != nil {
			return nil, err
		}
	}

	if c.err != nil {
		return nil, c.err
	}
	return c.media, nil
}
