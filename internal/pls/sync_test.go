package pls

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/plsx/internal/models"
)

func TestBrowseSync(t *testing.T) {
	t.Run("collects window", func(t *testing.T) {
		f := newFixture(t)
		f.standard()

		media, err := f.browser.BrowseSync(context.Background(), f.source, f.container, nil, models.Options{Skip: 1, Count: 2})
		if err != nil {
			t.Fatalf("BrowseSync failed: %v", err)
		}
		if len(media) != 2 || media[0].Title != "b" || media[1].Title != "d" {
			t.Errorf("media = %v", media)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		f := newFixture(t)
		f.parser.Script(f.container.URL)

		media, err := f.browser.BrowseSync(context.Background(), f.source, f.container, nil, models.DefaultOptions())
		if err != nil {
			t.Fatalf("BrowseSync failed: %v", err)
		}
		if media == nil || len(media) != 0 {
			t.Errorf("expected empty non-nil list, got %v", media)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		f := newFixture(t)
		media, err := f.browser.BrowseSync(context.Background(), f.source, f.container, nil, models.Options{})
		if !errors.Is(err, ErrValidation) || media != nil {
			t.Errorf("got %v, %v", media, err)
		}
	})

	t.Run("browse failure", func(t *testing.T) {
		f := newFixture(t)
		media, err := f.browser.BrowseSync(context.Background(), f.source, models.NewContainer(""), nil, models.DefaultOptions())
		if !errors.Is(err, ErrBrowseFailed) || media != nil {
			t.Errorf("got %v, %v", media, err)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		f := newFixture(t)
		f.standard()
		f.parser.Hold = make(chan struct{})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		media, err := f.browser.BrowseSync(ctx, f.source, f.container, nil, models.DefaultOptions())
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
		if media != nil {
			t.Errorf("expected no media, got %v", media)
		}
		if f.browser.Registry().Len() != 0 {
			t.Error("cancelled operation should be finished")
		}
	})
}

func TestCollector(t *testing.T) {
	a := &models.Media{Title: "a"}
	b := &models.Media{Title: "b"}

	c := &collector{}
	c.collect(nil, 1, a, 2, nil, nil)
	c.collect(nil, 1, nil, 0, nil, ErrBrowseFailed)
	c.collect(nil, 1, b, 0, nil, nil)

	if !c.done || c.media != nil || !errors.Is(c.err, ErrBrowseFailed) {
		t.Errorf("error should discard collected media and later arrivals: %+v", c)
	}
}
