package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds. A StageError unwraps to one of these and to its cause.
var (
	// ErrSourceRead is returned when the frame source fails.
	ErrSourceRead = errors.New("source read error")

	// ErrEncode is returned when the codec fails to open, encode or flush.
	ErrEncode = errors.New("encode error")

	// ErrSinkWrite is returned when the bitstream sink rejects a packet.
	ErrSinkWrite = errors.New("sink write error")

	// ErrAllocation is returned when a frame or packet buffer cannot be obtained.
	ErrAllocation = errors.New("allocation error")
)

var (
	// ErrClosed is returned by Push on a closed queue.
	ErrClosed = errors.New("pipeline: queue closed")

	// ErrAborted is returned by a stage that stopped because another stage
	// raised the abort signal.
	ErrAborted = errors.New("pipeline: aborted")

	// ErrCancelled is the abort reason when the caller's context ends.
	ErrCancelled = errors.New("pipeline: cancelled")

	// ErrStalled is returned when a stage waited longer than the stall
	// timeout for its upstream.
	ErrStalled = errors.New("pipeline: upstream stalled")
)

// StageError records a failure local to one stage.
type StageError struct {
	Stage string // Stage name (read, encode, write)
	Kind  error  // One of the error kinds above
	Seq   int64  // Frame or packet sequence number, -1 if not applicable
	Err   error  // Underlying cause
}

func (e *StageError) Error() string {
	if e.Seq >= 0 {
		return fmt.Sprintf("%s stage: %v at seq %d: %v", e.Stage, e.Kind, e.Seq, e.Err)
	}
	return fmt.Sprintf("%s stage: %v: %v", e.Stage, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewStageError builds a StageError.
func NewStageError(stage string, kind error, seq int64, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Seq: seq, Err: err}
}
