package paging

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// ReaderState describes the lifecycle of a producer.
// The producer is the only writer, any number of goroutines may read it.
type ReaderState struct {
	running  atomic.Bool
	finished atomic.Bool
	errored  atomic.Bool
	cause    atomic.Error

	started   chan struct{} // closed when running becomes true
	done      chan struct{} // closed when the producer reaches a terminal state
	startOnce sync.Once
	doneOnce  sync.Once
}

// MarkRunning reports that the remote side accepted the operation.
// Only the first call has an effect.
func (s *ReaderState) MarkRunning() {
	if s.running.CompareAndSwap(false, true) {
		s.startOnce.Do(func() { close(s.started) })
	}
}

// MarkFinished reports the normal exhaustion of results.
func (s *ReaderState) MarkFinished() {
	s.finished.Store(true)
	s.doneOnce.Do(func() { close(s.done) })
}

// MarkErrored reports a failure; err is kept as the cause.
func (s *ReaderState) MarkErrored(err error) {
	if err == nil {
		err = fmt.Errorf("unknown producer error")
	}

	// cause must be visible before the flag
	s.cause.Store(err)
	s.errored.Store(true)
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *ReaderState) Running() bool { return s.running.Load() }

func (s *ReaderState) Finished() bool { return s.finished.Load() }

func (s *ReaderState) Errored() bool { return s.errored.Load() }

// Err returns the failure cause, nil unless the producer errored.
func (s *ReaderState) Err() error {
	if !s.errored.Load() {
		return nil
	}

	return s.cause.Load()
}

// Terminal reports whether the producer will write nothing more.
func (s *ReaderState) Terminal() bool { return s.finished.Load() || s.errored.Load() }

func (s *ReaderState) Started() <-chan struct{} { return s.started }

func (s *ReaderState) Done() <-chan struct{} { return s.done }

func NewReaderState() *ReaderState {
	return &ReaderState{
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}
