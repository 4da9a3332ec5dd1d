// Package summarizer turns a finished run into a human-readable report.
package summarizer

import (
	"time"

	"github.com/user/yuvenc/pkg/pipeline"
)

// Summary contains everything reported about one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Run identity and result
	Run RunInfo

	// Raw input
	Input InputInfo

	// Encoder settings
	Settings Settings

	// Written bitstream
	Output OutputInfo

	// Per-stage terminal states
	Stages []StageInfo

	// NAL statistics, nil when the bitstream was not inspected
	Bitstream *BitstreamInfo
}

// RunInfo identifies the run and its result.
type RunInfo struct {
	ID        string
	Status    string
	Reason    string
	StartedAt time.Time
	Elapsed   time.Duration
}

// InputInfo describes the frame source.
type InputInfo struct {
	Path      string
	Source    string
	Width     int
	Height    int
	Frames    int
	Bytes     int64
	Truncated bool
}

// Settings contains the encoder configuration.
type Settings struct {
	Codec         string
	Preset        string
	Bitrate       int
	FPS           int
	GOPSize       int
	MaxBFrames    int
	QueueCapacity int
}

// OutputInfo describes what reached the sink.
type OutputInfo struct {
	Path      string
	Packets   int
	Flushed   int
	Bytes     int64
	Discarded int
}

// StageInfo is the final state of one stage.
type StageInfo struct {
	Name   string
	Status string
	Items  int
	Error  string
}

// BitstreamInfo contains NAL unit counts.
type BitstreamInfo struct {
	Codec         string
	NALUs         int
	Keyframes     int
	ParameterSets int
	Types         map[string]int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithOutcome copies run status, counters and stage reports from outcome.
func (b *Builder) WithOutcome(outcome pipeline.Outcome) *Builder {
	s := b.summary
	s.Run = RunInfo{
		ID:        outcome.RunID,
		Status:    string(outcome.Status),
		StartedAt: outcome.StartedAt,
		Elapsed:   outcome.Elapsed,
	}
	if outcome.Reason != nil {
		s.Run.Reason = outcome.Reason.Error()
	}

	s.Input.Frames = outcome.Read.Frames
	s.Input.Bytes = outcome.Read.Bytes
	s.Input.Truncated = outcome.Read.Truncated

	s.Output.Packets = outcome.Written
	s.Output.Flushed = outcome.Encode.Flushed
	s.Output.Bytes = outcome.Write.Bytes
	s.Output.Discarded = outcome.Write.Discarded

	s.Stages = s.Stages[:0]
	for _, st := range outcome.Stages {
		info := StageInfo{Name: st.Name, Status: st.Status.String(), Items: st.Items}
		if st.Err != nil {
			info.Error = st.Err.Error()
		}
		s.Stages = append(s.Stages, info)
	}
	return b
}

// WithInput sets the source description.
func (b *Builder) WithInput(path, source string, width, height int) *Builder {
	b.summary.Input.Path = path
	b.summary.Input.Source = source
	b.summary.Input.Width = width
	b.summary.Input.Height = height
	return b
}

// WithSettings sets encoder settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutputPath sets the bitstream path.
func (b *Builder) WithOutputPath(path string) *Builder {
	b.summary.Output.Path = path
	return b
}

// WithBitstream sets NAL statistics.
func (b *Builder) WithBitstream(info BitstreamInfo) *Builder {
	b.summary.Bitstream = &info
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
