package pipeline

import (
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// Stage names used in logs, errors and reports.
const (
	StageRead   = "read"
	StageEncode = "encode"
	StageWrite  = "write"
)

// =============================================================================
// Read Stage Types
// =============================================================================

// ReadInput contains parameters for the reader stage.
type ReadInput struct {
	Geometry      ports.Geometry
	MaxFrames     int // Stop after this many frames (0 = until end of input)
	DebugInterval int // Save a preview of every Nth frame when debug output is on (0 = never)
}

// DefaultReadInput returns ReadInput with the classic 480x272 geometry.
func DefaultReadInput() ReadInput {
	return ReadInput{
		Geometry:  ports.Geometry{Width: 480, Height: 272},
		MaxFrames: 100,
	}
}

// ReadResult contains what the reader stage produced.
type ReadResult struct {
	Frames    int   // Frames pushed onto the frame queue
	Bytes     int64 // Raw bytes read
	Truncated bool  // Input ended inside a frame
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains parameters for the encoder stage.
type EncodeInput struct {
	Options      ports.EncoderOptions
	StallTimeout time.Duration // Fail if no frame arrives for this long (0 = wait forever)
}

// EncodeResult contains what the encoder stage produced.
type EncodeResult struct {
	Frames  int // Frames submitted to the codec
	Packets int // Packets pushed onto the packet queue, flushed ones included
	Flushed int // Packets produced while draining the codec
}

// =============================================================================
// Write Stage Types
// =============================================================================

// WriteInput contains parameters for the writer stage.
type WriteInput struct {
	StallTimeout time.Duration // Fail if no packet arrives for this long (0 = wait forever)
}

// WriteResult contains what the writer stage produced.
type WriteResult struct {
	Packets   int   // Packets written to the sink
	Bytes     int64 // Bytes written to the sink
	Discarded int   // Packets drained without writing after a failure
}

// =============================================================================
// Outcome Types
// =============================================================================

// StageReport is the final state of one stage.
type StageReport struct {
	Name   string
	Status Status
	Err    error
	Items  int // Frames read, frames encoded or packets written
}

// OutcomeStatus distinguishes a completed run from an aborted one.
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeAborted   OutcomeStatus = "aborted"
)

// Outcome is produced once per run, after all stages have terminated.
type Outcome struct {
	RunID   string
	Status  OutcomeStatus
	Reason  error // First abort reason; nil when completed
	Written int   // Packets written to the sink

	Read   ReadResult
	Encode EncodeResult
	Write  WriteResult
	Stages []StageReport

	StartedAt time.Time
	Elapsed   time.Duration
}

// Completed reports whether every stage finished normally.
func (o Outcome) Completed() bool {
	return o.Status == OutcomeCompleted
}
