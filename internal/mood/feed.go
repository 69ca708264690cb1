package mood

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultInterval      = 100 * time.Millisecond
	DefaultModelInterval = 30 * time.Second
)

// FeedOptions tunes the polling cadence.
type FeedOptions struct {
	Interval      time.Duration
	ModelInterval time.Duration
	Now           func() time.Time
}

// Feed polls a Fetcher and, optionally, a ModelLister, publishing into a
// Store. It is the store's only writer.
type Feed struct {
	store  *Store
	source Fetcher
	models ModelLister
	logger *zap.Logger
	opts   FeedOptions
}

// NewFeed wires a feed. models may be nil.
func NewFeed(store *Store, source Fetcher, models ModelLister, logger *zap.Logger, opts FeedOptions) *Feed {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.ModelInterval <= 0 {
		opts.ModelInterval = DefaultModelInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Feed{
		store:  store,
		source: source,
		models: models,
		logger: logger.Named("mood_feed"),
		opts:   opts,
	}
}

// Run polls until ctx is done. It returns nil on cancellation.
func (f *Feed) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return f.loop(ctx, f.opts.Interval, func(ctx context.Context) { _ = f.Refresh(ctx) })
	})
	if f.models != nil {
		g.Go(func() error {
			return f.loop(ctx, f.opts.ModelInterval, func(ctx context.Context) { _ = f.RefreshModels(ctx) })
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (f *Feed) loop(ctx context.Context, every time.Duration, tick func(context.Context)) error {
	tick(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// Refresh performs one fetch. On failure the previous state stays
// published and the error is returned for logging only.
func (f *Feed) Refresh(ctx context.Context) error {
	st, err := f.source.Fetch(ctx)
	if err != nil {
		was := f.store.Snapshot().Connected
		f.store.Fail()
		if was {
			f.logger.Warn("Mood source lost, keeping last known state.", zap.Error(err))
		} else {
			f.logger.Debug("Mood fetch failed.", zap.Error(err))
		}
		return err
	}
	if !f.store.Snapshot().Connected {
		f.logger.Info("Mood source connected.", zap.String("mood", st.Mood))
	}
	f.store.Publish(st, f.opts.Now())
	return nil
}

// RefreshModels lists models once. A failure publishes an empty,
// disconnected status.
func (f *Feed) RefreshModels(ctx context.Context) error {
	ms, err := f.models.List(ctx)
	if err != nil {
		f.logger.Debug("Model listing failed.", zap.Error(err))
		f.store.PublishModels(ModelStatus{CheckedAt: f.opts.Now()})
		return err
	}
	f.logger.Debug("Models listed.", zap.Int("count", len(ms)))
	f.store.PublishModels(ModelStatus{Models: ms, Connected: true, CheckedAt: f.opts.Now()})
	return nil
}
