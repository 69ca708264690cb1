package mood

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

// fakeSource returns queued results, then repeats the last one.
type fakeSource struct {
	mu      sync.Mutex
	results []result
	calls   int
}

type result struct {
	st  State
	err error
}

func (f *fakeSource) Fetch(ctx context.Context) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.st, r.err
}

type fakeLister struct {
	models []Model
	err    error
}

func (f fakeLister) List(ctx context.Context) ([]Model, error) { return f.models, f.err }

func TestRefreshKeepsLastKnownState(t *testing.T) {
	excited := Default()
	excited.Mood = Excited
	src := &fakeSource{results: []result{
		{st: excited},
		{err: errors.New("connection refused")},
	}}
	store := NewStore()
	f := NewFeed(store, src, nil, zaptest.NewLogger(t), FeedOptions{Now: func() time.Time { return testNow }})

	require.NoError(t, f.Refresh(context.Background()))
	assert.Equal(t, Excited, store.Load().Mood)

	assert.Error(t, f.Refresh(context.Background()))
	assert.Error(t, f.Refresh(context.Background()))
	snap := store.Snapshot()
	assert.Equal(t, Excited, snap.State.Mood)
	assert.False(t, snap.Connected)
	assert.Equal(t, 2, snap.Failures)
}

func TestRefreshFailureBeforeFirstSuccessServesDefaults(t *testing.T) {
	src := &fakeSource{results: []result{{err: context.DeadlineExceeded}}}
	store := NewStore()
	f := NewFeed(store, src, nil, zaptest.NewLogger(t), FeedOptions{})
	assert.Error(t, f.Refresh(context.Background()))
	assert.Equal(t, Default(), store.Load())
}

func TestRefreshModels(t *testing.T) {
	store := NewStore()
	f := NewFeed(store, &fakeSource{}, fakeLister{models: []Model{{ID: "phi-3"}}}, zaptest.NewLogger(t), FeedOptions{})
	require.NoError(t, f.RefreshModels(context.Background()))
	assert.True(t, store.Models().Connected)
	assert.Len(t, store.Models().Models, 1)

	f = NewFeed(store, &fakeSource{}, fakeLister{err: errors.New("down")}, zaptest.NewLogger(t), FeedOptions{})
	assert.Error(t, f.RefreshModels(context.Background()))
	assert.False(t, store.Models().Connected)
	assert.Empty(t, store.Models().Models)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &fakeSource{results: []result{{st: Default()}}}
	store := NewStore()
	f := NewFeed(store, src, fakeLister{}, zaptest.NewLogger(t), FeedOptions{
		Interval:      5 * time.Millisecond,
		ModelInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= 3
	}, time.Second, 5*time.Millisecond)
	assert.True(t, store.Snapshot().Connected)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("feed did not stop")
	}
}
