package mood

import (
	"sync/atomic"
	"time"
)

// Snapshot is what the store publishes: the state plus where it came
// from.
type Snapshot struct {
	State     State
	Connected bool
	UpdatedAt time.Time
	Failures  int
}

// ModelStatus is the latest model listing.
type ModelStatus struct {
	Models    []Model
	Connected bool
	CheckedAt time.Time
}

// Store holds the current snapshot. It has a single writer (the Feed) and
// any number of readers; reads never block.
type Store struct {
	snap   atomic.Pointer[Snapshot]
	models atomic.Pointer[ModelStatus]
}

// NewStore returns a store serving Default until the first publish.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(&Snapshot{State: Default()})
	s.models.Store(&ModelStatus{})
	return s
}

// Load returns the current state.
func (s *Store) Load() State {
	return s.snap.Load().State
}

func (s *Store) Snapshot() Snapshot {
	return *s.snap.Load()
}

// Publish replaces the state after a successful fetch.
func (s *Store) Publish(st State, at time.Time) {
	s.snap.Store(&Snapshot{State: st.Sanitize(), Connected: true, UpdatedAt: at})
}

// Fail records a failed fetch while keeping the last known state.
func (s *Store) Fail() {
	prev := s.snap.Load()
	next := *prev
	next.Connected = false
	next.Failures++
	s.snap.Store(&next)
}

func (s *Store) Models() ModelStatus {
	return *s.models.Load()
}

func (s *Store) PublishModels(ms ModelStatus) {
	s.models.Store(&ms)
}
