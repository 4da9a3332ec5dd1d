package write

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/mocks"
	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

func newLink(packets int) pipeline.Link[ports.Packet, struct{}] {
	in := pipeline.NewQueue[ports.Packet](0)
	for i := 0; i < packets; i++ {
		in.Push(ports.Packet{Seq: int64(i), Data: []byte{byte(i), 0xff}})
	}
	in.Close()
	return pipeline.Link[ports.Packet, struct{}]{
		Abort: pipeline.NewAbort(context.Background()),
		In:    in,
	}
}

func TestStage_Execute(t *testing.T) {
	sink := mocks.NewPacketSink()
	inspector := &mocks.PacketInspector{}
	stage := NewStage(sink, &mocks.NullSink{}, logger.NewNoop()).WithInspector(inspector)
	link := newLink(4)

	result, err := stage.Execute(link, pipeline.WriteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Packets != 4 {
		t.Errorf("expected 4 packets, got %d", result.Packets)
	}
	if result.Bytes != 8 {
		t.Errorf("expected 8 bytes, got %d", result.Bytes)
	}
	if !sink.CloseCalled {
		t.Error("expected sink to be closed")
	}
	if len(inspector.Packets) != 4 {
		t.Errorf("expected inspector to see 4 packets, got %d", len(inspector.Packets))
	}

	for i, seq := range sink.Seqs() {
		if seq != int64(i) {
			t.Errorf("packet %d: expected seq %d, got %d", i, i, seq)
		}
	}
}

func TestStage_Execute_WriteErrorDrainsQueue(t *testing.T) {
	sinkErr := errors.New("disk full")
	sink := &mocks.PacketSink{
		WritePacketFunc: func(pkt ports.Packet) error {
			if pkt.Seq == 2 {
				return sinkErr
			}
			return nil
		},
	}
	stage := NewStage(sink, &mocks.NullSink{}, logger.NewNoop())
	link := newLink(6)

	result, err := stage.Execute(link, pipeline.WriteInput{})
	if !errors.Is(err, pipeline.ErrSinkWrite) || !errors.Is(err, sinkErr) {
		t.Fatalf("expected ErrSinkWrite wrapping the sink error, got %v", err)
	}
	if !link.Abort.Raised() {
		t.Error("expected abort to be raised")
	}
	if result.Packets != 2 {
		t.Errorf("expected 2 packets written, got %d", result.Packets)
	}
	if result.Discarded != 4 {
		t.Errorf("expected 4 packets discarded, got %d", result.Discarded)
	}
	if !link.In.IsEmpty() {
		t.Error("expected packet queue to be drained")
	}
}

func TestStage_Execute_WritesCommittedPacketsAfterUpstreamAbort(t *testing.T) {
	sink := mocks.NewPacketSink()
	stage := NewStage(sink, &mocks.NullSink{}, logger.NewNoop())
	link := newLink(3)
	link.Abort.Raise(pipeline.NewStageError(pipeline.StageEncode, pipeline.ErrEncode, 3, errors.New("bad frame")))

	result, err := stage.Execute(link, pipeline.WriteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Packets != 3 {
		t.Errorf("expected 3 packets written, got %d", result.Packets)
	}
}

func TestStage_Execute_DiscardsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := mocks.NewPacketSink()
	stage := NewStage(sink, &mocks.NullSink{}, logger.NewNoop())
	link := newLink(3)
	link.Abort = pipeline.NewAbort(ctx)
	cancel()

	// AfterFunc runs asynchronously.
	deadline := time.Now().Add(time.Second)
	for !link.Abort.Raised() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	result, err := stage.Execute(link, pipeline.WriteInput{})
	if !errors.Is(err, pipeline.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if result.Packets != 0 || result.Discarded != 3 {
		t.Errorf("expected all packets discarded, got %+v", result)
	}
}

func TestStage_Execute_CloseError(t *testing.T) {
	sink := &mocks.PacketSink{
		CloseFunc: func() error { return errors.New("flush failed") },
	}
	stage := NewStage(sink, &mocks.NullSink{}, logger.NewNoop())
	link := newLink(1)

	_, err := stage.Execute(link, pipeline.WriteInput{})
	if !errors.Is(err, pipeline.ErrSinkWrite) {
		t.Fatalf("expected ErrSinkWrite, got %v", err)
	}
}

func TestStage_Execute_DebugPacketDumps(t *testing.T) {
	debug := mocks.NewDebugSink(true)
	stage := NewStage(mocks.NewPacketSink(), debug, logger.NewNoop())
	link := newLink(3)

	if _, err := stage.Execute(link, pipeline.WriteInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debug.PacketCount() != 3 {
		t.Errorf("expected 3 packet dumps, got %d", debug.PacketCount())
	}
}

func TestStage_Execute_Stalled(t *testing.T) {
	stage := NewStage(mocks.NewPacketSink(), &mocks.NullSink{}, logger.NewNoop())
	link := pipeline.Link[ports.Packet, struct{}]{
		Abort: pipeline.NewAbort(context.Background()),
		In:    pipeline.NewQueue[ports.Packet](0),
	}

	_, err := stage.Execute(link, pipeline.WriteInput{StallTimeout: 10 * time.Millisecond})
	if !errors.Is(err, pipeline.ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
}
