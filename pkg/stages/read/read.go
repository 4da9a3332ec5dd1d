// Package read implements the frame reading stage.
package read

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/yuv"
)

// Stage reads raw YUV420P frames from a source and feeds the frame queue.
type Stage struct {
	source ports.FrameSource
	sink   ports.DebugSink
	logger ports.Logger
	alloc  pipeline.Allocator
}

// NewStage creates a new read stage.
func NewStage(source ports.FrameSource, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		source: source,
		sink:   sink,
		logger: logger.WithComponent("read"),
		alloc:  pipeline.NewAllocator(pipeline.DefaultMaxBufferSize),
	}
}

// WithAllocator replaces the frame buffer allocator.
func (s *Stage) WithAllocator(alloc pipeline.Allocator) *Stage {
	s.alloc = alloc
	return s
}

// Execute reads frames until end of input, MaxFrames or abort.
// The stage owns the source and closes it together with the frame queue on
// every exit path.
func (s *Stage) Execute(link pipeline.Link[struct{}, ports.Frame], input pipeline.ReadInput) (pipeline.ReadResult, error) {
	result := pipeline.ReadResult{}
	defer link.Out.Close()
	defer func() {
		if err := s.source.Close(); err != nil {
			s.logger.Warn("Failed to close source: %v", err)
		}
	}()

	if !input.Geometry.Valid() {
		return result, link.Fail(pipeline.NewStageError(pipeline.StageRead, pipeline.ErrSourceRead, -1,
			fmt.Errorf("invalid geometry %dx%d", input.Geometry.Width, input.Geometry.Height)))
	}
	size := input.Geometry.FrameSize()

	for seq := int64(0); ; seq++ {
		if link.Abort.Raised() {
			return result, link.Stop(pipeline.StageRead)
		}
		if input.MaxFrames > 0 && seq >= int64(input.MaxFrames) {
			break
		}

		buf, err := s.alloc(size)
		if err != nil {
			return result, link.Fail(pipeline.NewStageError(pipeline.StageRead, pipeline.ErrAllocation, seq, err))
		}

		if err := s.source.ReadFrame(buf); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Warn("Input ends inside frame %d, discarding partial frame", seq)
				result.Truncated = true
				break
			}
			return result, link.Fail(pipeline.NewStageError(pipeline.StageRead, pipeline.ErrSourceRead, seq, err))
		}
		result.Bytes += int64(size)

		if s.sink.Enabled() && input.DebugInterval > 0 && seq%int64(input.DebugInterval) == 0 {
			s.savePreview(seq, buf, input.Geometry)
		}

		if err := link.Push(ports.Frame{Seq: seq, Data: buf}); err != nil {
			return result, link.Stop(pipeline.StageRead)
		}
		result.Frames++
		s.logger.Debug("Read frame: %5d", seq)
	}

	s.logger.Debug("Read %d frames", result.Frames)
	return result, nil
}

// savePreview runs before the push, while the stage still owns buf.
func (s *Stage) savePreview(seq int64, buf []byte, g ports.Geometry) {
	img, err := yuv.ToImage(buf, g)
	if err != nil {
		s.logger.Warn("Failed to convert frame %d for preview: %v", seq, err)
		return
	}
	if err := s.sink.SaveFrame(seq, img); err != nil {
		s.logger.Warn("Failed to save frame preview: %v", err)
	}
}
