// Package write implements the bitstream writing stage.
package write

import (
	"context"
	"fmt"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// Stage writes packets to the output sink in the order they were produced.
type Stage struct {
	sink      ports.PacketSink
	inspector ports.PacketInspector
	debug     ports.DebugSink
	logger    ports.Logger
}

// NewStage creates a new write stage.
func NewStage(sink ports.PacketSink, debug ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		debug:  debug,
		logger: logger.WithComponent("write"),
	}
}

// WithInspector sets a PacketInspector that sees every written packet.
func (s *Stage) WithInspector(inspector ports.PacketInspector) *Stage {
	s.inspector = inspector
	return s
}

// Execute writes packets until the packet queue is closed.
//
// After a write failure, or once the run is cancelled, the remaining packets
// are drained and discarded so the encoder never blocks on a full queue.
// The sink is closed before returning.
func (s *Stage) Execute(link pipeline.Link[ports.Packet, struct{}], input pipeline.WriteInput) (pipeline.WriteResult, error) {
	result := pipeline.WriteResult{}
	var failure error

	for {
		pkt, ok, err := link.Pop(context.Background(), input.StallTimeout)
		if err != nil {
			// The encoder pushes with the abort context, so it cannot stay
			// blocked on a queue nobody drains after this.
			failure = link.Fail(pipeline.NewStageError(pipeline.StageWrite, pipeline.ErrSinkWrite, -1, err))
			break
		}
		if !ok {
			break
		}

		if failure != nil || link.Cancelled() {
			result.Discarded++
			continue
		}

		if err := s.sink.WritePacket(pkt); err != nil {
			failure = link.Fail(pipeline.NewStageError(pipeline.StageWrite, pipeline.ErrSinkWrite, pkt.Seq, err))
			result.Discarded++
			s.logger.Debug("Discarding packets after write failure")
			continue
		}
		result.Packets++
		result.Bytes += int64(len(pkt.Data))

		if s.inspector != nil {
			s.inspector.Inspect(pkt)
		}
		if s.debug.Enabled() {
			if err := s.debug.SavePacket(pkt.Seq, pkt.Data); err != nil {
				s.logger.Warn("Failed to save packet dump: %v", err)
			}
		}
		s.logger.Debug("Wrote packet: %5d size: %5d", pkt.Seq, len(pkt.Data))
	}

	if err := s.sink.Close(); err != nil && failure == nil {
		failure = link.Fail(pipeline.NewStageError(pipeline.StageWrite, pipeline.ErrSinkWrite, -1,
			fmt.Errorf("close sink: %w", err)))
	}

	if result.Discarded > 0 {
		s.logger.Debug("Discarded %d packets", result.Discarded)
	}
	if failure != nil {
		return result, failure
	}
	if link.Cancelled() {
		return result, link.Stop(pipeline.StageWrite)
	}
	return result, nil
}
