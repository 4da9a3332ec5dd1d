package pipeline

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestStageError_UnwrapsKindAndCause(t *testing.T) {
	err := NewStageError(StageRead, ErrSourceRead, 7, io.ErrClosedPipe)

	if !errors.Is(err, ErrSourceRead) {
		t.Error("expected errors.Is to match the kind")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected errors.Is to match the cause")
	}
	if errors.Is(err, ErrEncode) {
		t.Error("unexpected match on another kind")
	}
}

func TestStageError_Message(t *testing.T) {
	withSeq := NewStageError(StageEncode, ErrEncode, 25, errors.New("bad frame"))
	if got := withSeq.Error(); !strings.Contains(got, "encode stage") || !strings.Contains(got, "seq 25") {
		t.Errorf("unexpected message %q", got)
	}

	noSeq := NewStageError(StageWrite, ErrSinkWrite, -1, errors.New("disk full"))
	if got := noSeq.Error(); strings.Contains(got, "seq") {
		t.Errorf("unexpected seq in message %q", got)
	}
}

func TestAllocator(t *testing.T) {
	alloc := NewAllocator(1024)

	buf, err := alloc(512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf) != 512 {
		t.Errorf("expected 512 bytes, got %d", len(buf))
	}

	if _, err := alloc(2048); err == nil {
		t.Error("expected error above limit")
	}
	if _, err := alloc(0); err == nil {
		t.Error("expected error for zero size")
	}
}
