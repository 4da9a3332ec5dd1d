// Package encode implements the video encoding stage.
package encode

import (
	"fmt"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// Stage encodes raw frames into packets. It is the only user of the encoder.
type Stage struct {
	encoder ports.VideoEncoder
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.VideoEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute pops frames until the frame queue is closed, then drains the
// encoder. The packet queue is closed on every exit path.
func (s *Stage) Execute(link pipeline.Link[ports.Frame, ports.Packet], input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}
	defer link.Out.Close()

	if err := s.encoder.Begin(input.Options); err != nil {
		return result, link.Fail(pipeline.NewStageError(pipeline.StageEncode, pipeline.ErrEncode, -1,
			fmt.Errorf("begin encoding: %w", err)))
	}
	defer func() {
		if err := s.encoder.Close(); err != nil {
			s.logger.Warn("Failed to close encoder: %v", err)
		}
	}()

	next := int64(0)
	for {
		if link.Abort.Raised() {
			return result, link.Stop(pipeline.StageEncode)
		}

		frame, ok, err := link.Pop(link.Abort.Context(), input.StallTimeout)
		if err != nil {
			if link.Abort.Raised() {
				return result, link.Stop(pipeline.StageEncode)
			}
			return result, link.Fail(pipeline.NewStageError(pipeline.StageEncode, pipeline.ErrEncode, -1, err))
		}
		if !ok {
			break
		}

		pkt, err := s.encoder.Encode(frame)
		if err != nil {
			return result, link.Fail(pipeline.NewStageError(pipeline.StageEncode, pipeline.ErrEncode, frame.Seq, err))
		}
		result.Frames++
		next = frame.Seq + 1

		if pkt == nil {
			continue
		}
		if pkt.Seq == ports.NoSeq {
			pkt.Seq = frame.Seq
		}
		if err := link.Push(*pkt); err != nil {
			return result, link.Stop(pipeline.StageEncode)
		}
		result.Packets++
		s.logger.Debug("Succeed to encode frame: %5d size: %5d", pkt.Seq, len(pkt.Data))
	}

	// Drain packets the encoder held back for reordering.
	for {
		if link.Abort.Raised() {
			return result, link.Stop(pipeline.StageEncode)
		}

		pkt, err := s.encoder.Flush()
		if err != nil {
			return result, link.Fail(pipeline.NewStageError(pipeline.StageEncode, pipeline.ErrEncode, -1,
				fmt.Errorf("flush encoder: %w", err)))
		}
		if pkt == nil {
			break
		}
		if pkt.Seq == ports.NoSeq {
			pkt.Seq = next
			next++
		}
		pkt.Flushed = true

		if err := link.Push(*pkt); err != nil {
			return result, link.Stop(pipeline.StageEncode)
		}
		result.Packets++
		result.Flushed++
		s.logger.Debug("Flush encoder: %5d size: %5d", pkt.Seq, len(pkt.Data))
	}

	s.logger.Debug("Encoded %d frames into %d packets (%d flushed)", result.Frames, result.Packets, result.Flushed)
	return result, nil
}
