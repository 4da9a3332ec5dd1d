package pipeline

import (
	"sync"
	"sync/atomic"
)

// Status is the lifecycle state of one stage.
type Status int32

const (
	// StatusRunning is the initial state.
	StatusRunning Status = iota
	// StatusDone means the stage finished its input.
	StatusDone
	// StatusAborted means the stage stopped early.
	StatusAborted
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is Done or Aborted.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusAborted
}

// StageState tracks one stage's status. Once terminal it never changes again.
type StageState struct {
	name   string
	status atomic.Int32
	mu     sync.Mutex
	err    error
}

// NewStageState creates a state in StatusRunning.
func NewStageState(name string) *StageState {
	return &StageState{name: name}
}

// Name returns the stage name.
func (s *StageState) Name() string {
	return s.name
}

// Finish moves the stage to Done (err == nil) or Aborted. Only the first
// call has an effect; it reports whether this call changed the state.
func (s *StageState) Finish(err error) bool {
	next := StatusDone
	if err != nil {
		next = StatusAborted
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.CompareAndSwap(int32(StatusRunning), int32(next)) {
		return false
	}
	s.err = err
	return true
}

// Status returns the current status.
func (s *StageState) Status() Status {
	return Status(s.status.Load())
}

// Err returns the abort reason recorded by Finish.
func (s *StageState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Report returns a snapshot of the state.
func (s *StageState) Report(items int) StageReport {
	return StageReport{
		Name:   s.name,
		Status: s.Status(),
		Err:    s.Err(),
		Items:  items,
	}
}
