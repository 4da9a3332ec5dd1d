// Package pipeline provides the building blocks of the read → encode → write
// pipeline: closable queues, the shared abort signal, stage status and the
// run outcome.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// Stage is one concurrent pipeline task. It consumes from link.In, produces
// to link.Out and reports what it did.
type Stage[In, Out, Input, Result any] interface {
	Execute(link Link[In, Out], input Input) (Result, error)
}

// The three stages of an encoding run.
type (
	ReadStage   = Stage[struct{}, ports.Frame, ReadInput, ReadResult]
	EncodeStage = Stage[ports.Frame, ports.Packet, EncodeInput, EncodeResult]
	WriteStage  = Stage[ports.Packet, struct{}, WriteInput, WriteResult]
)

// Link is the environment a stage runs in: the shared abort signal and the
// queue it consumes from and/or produces to. Source stages have a nil In,
// sink stages a nil Out.
type Link[In, Out any] struct {
	Abort *Abort
	In    *Queue[In]
	Out   *Queue[Out]
}

// Fail escalates a stage failure: it raises the abort signal with err and
// closes the output queue so downstream stages terminate. It returns err.
func (l Link[In, Out]) Fail(err error) error {
	l.Abort.Raise(err)
	if l.Out != nil {
		l.Out.Close()
	}
	return err
}

// Stop is used when the stage observed an abort raised elsewhere.
// It closes the output queue and returns ErrAborted wrapped with the stage name.
func (l Link[In, Out]) Stop(stage string) error {
	if l.Out != nil {
		l.Out.Close()
	}
	return &StageError{Stage: stage, Kind: ErrAborted, Seq: -1, Err: l.Abort.Reason()}
}

// Push hands item to the output queue. It gives up once the abort signal is
// raised, so a producer never stays blocked on a full queue nobody drains.
func (l Link[In, Out]) Push(item Out) error {
	return l.Out.PushContext(l.Abort.Context(), item)
}

// Pop takes the next item from the input queue. A positive stall limits the
// wait; exceeding it returns ErrStalled. When ctx ends the wait is abandoned
// and its cause returned.
func (l Link[In, Out]) Pop(ctx context.Context, stall time.Duration) (In, bool, error) {
	if stall > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, stall, ErrStalled)
		defer cancel()
	}
	item, ok, err := l.In.PopContext(ctx)
	if err != nil {
		return item, false, context.Cause(ctx)
	}
	return item, ok, nil
}

// Cancelled reports whether the run was aborted by the caller rather than by
// a failing stage.
func (l Link[In, Out]) Cancelled() bool {
	return errors.Is(l.Abort.Reason(), ErrCancelled)
}
