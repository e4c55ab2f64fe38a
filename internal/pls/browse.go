package pls

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsx/internal/loop"
	"github.com/desertthunder/plsx/internal/models"
)

// ResultFunc receives the results of a browse, one item per call.
//
// remaining is the number of items still to come; the last call of an
// operation has remaining == 0. A non-nil err is terminal and carries no media.
// An empty result is signalled by a single call with nil media and no error.
type ResultFunc func(source models.Source, h Handle, media *models.Media, remaining uint, userData any, err error)

// Parser streams the entries of a playlist.
//
// The returned channel yields entry events followed by exactly one Done event
// and is then closed. Cancelling ctx must make the parser finish promptly.
type Parser interface {
	ParseAsync(ctx context.Context, url string, opts models.ParseOptions) <-chan models.ParseEvent
}

// AttributeProvider looks up the filesystem attributes of a local path.
type AttributeProvider interface {
	QueryAttributes(path string) (*models.Attributes, error)
}

// Sniffer reports whether the file at path parses as a playlist.
type Sniffer interface {
	CanParse(path string) bool
}

// Recorder receives a summary of every finished browse.
type Recorder interface {
	Record(rec *models.BrowseRecord) error
}

// BrowserOpts configures a [Browser].
type BrowserOpts struct {
	Loop       *loop.Loop
	Parser     Parser
	Attributes AttributeProvider
	Sniffer    Sniffer
	Recorder   Recorder // optional
	Logger     *log.Logger
}

// Browser runs playlist browse operations on a cooperative loop.
//
// Browse, Cancel and Close must be called from the goroutine that drives the
// loop; parser goroutines only ever post work to it.
type Browser struct {
	loop       *loop.Loop
	parser     Parser
	sniffer    Sniffer
	classifier *Classifier
	recorder   Recorder
	logger     *log.Logger
	registry   *Registry
	cache      *Cache
}

// NewBrowser creates a browser. A nil Loop or Logger is replaced by a fresh loop
// and the default logger.
func NewBrowser(opts BrowserOpts) *Browser {
	if opts.Loop == nil {
		opts.Loop = loop.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	logger := opts.Logger.WithPrefix("pls")
	return &Browser{
		loop:       opts.Loop,
		parser:     opts.Parser,
		sniffer:    opts.Sniffer,
		classifier: NewClassifier(opts.Attributes, opts.Sniffer, logger),
		recorder:   opts.Recorder,
		logger:     logger,
		registry:   NewRegistry(),
		cache:      NewCache(),
	}
}

// Loop returns the loop results are delivered on.
func (b *Browser) Loop() *loop.Loop { return b.loop }

// Registry exposes operation state for inspection.
func (b *Browser) Registry() *Registry { return b.registry }

// Cache returns the per-container result cache.
func (b *Browser) Cache() *Cache { return b.cache }

// Browse starts listing the entries of container.
//
// Validation failures return [InvalidHandle] and an error wrapping
// [ErrValidation]; no callback is made. Otherwise a handle is returned and
// callback is invoked later from the loop, never before Browse returns. A
// container without a URL, or one that is not a playlist, produces a single
// [ErrBrowseFailed] callback.
//
// keys does not narrow the result: the classifier fills every attribute it
// can resolve and callers pick the fields they show.
func (b *Browser) Browse(source models.Source, container *models.Media, keys []models.Key, opts models.Options, callback ResultFunc, userData any) (Handle, error) {
	if err := validate(source, container, opts, callback); err != nil {
		return InvalidHandle, err
	}

	h := b.registry.Begin(source)
	op, _ := b.registry.get(h)
	op.container = container
	op.options = opts
	op.callback = callback
	op.userData = userData
	op.record = models.NewBrowseRecord(source.ID(), container.URL, models.BrowseParsed)
	op.record.StartedAt = op.startedAt

	b.logger.Debug("browse", "handle", h, "container", container.URL, "skip", opts.Skip, "count", opts.Count)

	if container.URL == "" {
		b.failLater(h, fmt.Errorf("%w: container has no url", ErrBrowseFailed))
		return h, nil
	}
	if !MediaIsPlaylist(b.sniffer, container) {
		b.failLater(h, fmt.Errorf("%w: %s is not a playlist", ErrBrowseFailed, container.URL))
		return h, nil
	}

	if media, ok := b.cache.Get(container); ok {
		b.logger.Debug("using cached playlist entries", "handle", h, "container", container.URL, "entries", len(media))
		op.record.Status = models.BrowseCached
		b.registry.MarkOngoing(h)
		b.loop.Post(func() { b.deliverCached(h, media) })
		return h, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	op.cancel = cancel
	op.entries = make([]models.RawEntry, 0)
	op.cleanup = func() {
		cancel()
		op.entries = nil
	}

	events := b.parser.ParseAsync(ctx, container.URL, models.ParseOptions{Recurse: false, AllowUnsafe: false})
	b.registry.MarkOngoing(h)
	go b.relay(h, events)
	return h, nil
}

func validate(source models.Source, container *models.Media, opts models.Options, callback ResultFunc) error {
	switch {
	case source == nil:
		return fmt.Errorf("%w: source is required", ErrValidation)
	case container == nil:
		return fmt.Errorf("%w: container is required", ErrValidation)
	case callback == nil:
		return fmt.Errorf("%w: callback is required", ErrValidation)
	case opts.Count == 0:
		return fmt.Errorf("%w: count must be non-zero", ErrValidation)
	}

	if source.SupportedOperations()&models.OpBrowse != 0 {
		if !opts.ObeyCaps(source.Caps(models.OpBrowse)) {
			return fmt.Errorf("%w: options exceed the browse capabilities of %s", ErrValidation, source.ID())
		}
	}
	return nil
}

// Cancel requests cancellation of h. Only an ongoing operation can be
// cancelled; anything else is logged and ignored. The caller still receives
// exactly one [ErrCancelled] callback.
func (b *Browser) Cancel(h Handle) {
	op, ok := b.registry.get(h)
	if !ok || !b.registry.MarkCancelled(h) {
		b.logger.Debug("tried to cancel invalid or already cancelled operation", "handle", h)
		return
	}
	b.logger.Debug("cancelling browse", "handle", h)
	if op.cancel != nil {
		op.cancel()
	}
}

// Close cancels every unfinished operation. Each one receives its single
// [ErrCancelled] callback before Close returns, so a [Browser.BrowseSync]
// frame further up the stack unwinds. Closed operations are not recorded.
func (b *Browser) Close() {
	hs := b.registry.Handles()
	slices.Sort(hs)
	for _, h := range hs {
		op, ok := b.registry.get(h)
		if !ok {
			continue
		}
		op.record.Status = models.BrowseCancelled
		b.registry.Finish(h)
		op.callback(op.source, h, nil, 0, op.userData, ErrCancelled)
	}
}

// relay forwards parser events to the loop. It runs until the parser closes its stream.
func (b *Browser) relay(h Handle, events <-chan models.ParseEvent) {
	completed := false
	for ev := range events {
		if ev.Done {
			if completed {
				continue
			}
			completed = true
			b.loop.Post(func() { b.onParseComplete(h, ev) })
			continue
		}
		b.loop.Post(func() { b.onEntryParsed(h, ev) })
	}

	if !completed {
		err := errors.New("parser closed its stream without completing")
		b.loop.Post(func() { b.onParseComplete(h, models.DoneEvent(models.ParseError, err)) })
	}
}

func (b *Browser) onEntryParsed(h Handle, ev models.ParseEvent) {
	// Finished and unknown handles read as completed.
	if b.registry.IsCompleted(h) {
		b.logger.Warn("entry parsed after playlist completed", "handle", h, "uri", ev.URI)
		return
	}
	if b.registry.IsCancelled(h) {
		b.logger.Debug("operation was cancelled, skipping entry", "handle", h, "uri", ev.URI)
		b.terminate(h, ErrCancelled)
		return
	}

	op, _ := b.registry.get(h)
	op.entries = append(op.entries, NewRawEntry(ev.URI, ev.Metadata))
}

func (b *Browser) onParseComplete(h Handle, ev models.ParseEvent) {
	op, ok := b.registry.get(h)
	if !ok {
		return
	}
	if op.state == StateCancelled {
		b.terminate(h, ErrCancelled)
		return
	}

	if ev.Status != models.ParseSuccess {
		b.logger.Error("playlist parsing failed", "handle", h, "container", op.container.URL, "status", ev.Status, "error", ev.Err)
	}
	b.registry.MarkCompleted(h)

	media, skipped := b.classifier.ClassifyAll(op.entries)
	if ev.Status == models.ParseSuccess {
		b.cache.Store(op.container, media)
	}
	op.record.Skipped = skipped
	op.record.Entries = media
	if ev.Status != models.ParseSuccess {
		msg := ErrParse.Error()
		if ev.Err != nil {
			msg = fmt.Sprintf("%v: %v", ErrParse, ev.Err)
		}
		op.record.ErrorMessage = msg
	}

	b.paginate(op, media)
	b.finish(h)
}

func (b *Browser) deliverCached(h Handle, media []*models.Media) {
	op, ok := b.registry.get(h)
	if !ok {
		return
	}
	if op.state == StateCancelled {
		b.terminate(h, ErrCancelled)
		return
	}
	b.registry.MarkCompleted(h)
	b.paginate(op, media)
	b.finish(h)
}

// paginate delivers the requested window of media to the caller.
func (b *Browser) paginate(op *operation, media []*models.Media) {
	if op.container.IsCollection() {
		op.container.ChildCount = len(media)
	}
	op.record.Total = len(media)

	w := ComputeWindow(len(media), op.options.Skip, op.options.Count)
	if w.Empty() {
		op.callback(op.source, op.handle, nil, 0, op.userData, nil)
		return
	}
	for i := range w.Count {
		op.callback(op.source, op.handle, media[w.Start+i].Clone(), w.Remaining(i), op.userData, nil)
		op.record.Delivered++
	}
}

// failLater schedules the single error callback of an operation that cannot run.
func (b *Browser) failLater(h Handle, err error) {
	b.registry.MarkOngoing(h)
	b.loop.Post(func() {
		if b.registry.IsCancelled(h) {
			err = ErrCancelled
		}
		b.terminate(h, err)
	})
}

// terminate delivers err as the terminal callback of h and finishes it.
func (b *Browser) terminate(h Handle, err error) {
	op, ok := b.registry.get(h)
	if !ok {
		return
	}
	if errors.Is(err, ErrCancelled) {
		op.record.Status = models.BrowseCancelled
	} else {
		op.record.Status = models.BrowseFailed
	}
	op.record.ErrorMessage = err.Error()
	op.record.Entries = nil

	op.callback(op.source, h, nil, 0, op.userData, err)
	b.finish(h)
}

func (b *Browser) finish(h Handle) {
	op, ok := b.registry.get(h)
	if !ok {
		return
	}
	b.registry.Finish(h)

	rec := op.record
	rec.FinishedAt = time.Now().UTC()
	b.logger.Debug("browse finished", "handle", h, "status", rec.Status, "delivered", rec.Delivered, "total", rec.Total)

	if b.recorder == nil {
		return
	}
	if err := b.recorder.Record(rec); err != nil {
		b.logger.Warn("failed to record browse", "handle", h, "error", err)
	}
}
