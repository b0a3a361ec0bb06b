package tui

import (
	"context"
	"sync"

	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

// FetchState tracks the value fetch in flight with thread safety
type FetchState struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// Start records a new fetch and cancels the one it replaces
func (f *FetchState) Start(generation uint64, cancel context.CancelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	f.generation = generation
	f.cancel = cancel
}

// Done clears the fetch if generation is still the one in flight
func (f *FetchState) Done(generation uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.generation == generation && f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// IsLoading returns whether a fetch is in flight
func (f *FetchState) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancel != nil
}

// Cancel stops the fetch in flight, if any
func (f *FetchState) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// SpecChangeState queues slicing specs waiting to be written to the spec
// store. Widget listeners push, the update loop takes.
type SpecChangeState struct {
	mu      sync.RWMutex
	pending *shape.SlicingSpec
}

// Push replaces the queued spec with spec
func (s *SpecChangeState) Push(spec shape.SlicingSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &spec
}

// Take returns the queued spec and clears the queue
func (s *SpecChangeState) Take() *shape.SlicingSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec := s.pending
	s.pending = nil
	return spec
}

// HasPending returns whether a spec is waiting to be saved
func (s *SpecChangeState) HasPending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending != nil
}
