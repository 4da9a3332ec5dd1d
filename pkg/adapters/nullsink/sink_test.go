package nullsink

import (
	"image"
	"testing"

	"github.com/user/yuvenc/pkg/ports"
)

func TestSink_Disabled(t *testing.T) {
	s := New()
	if s.Enabled() {
		t.Error("expected null sink to be disabled")
	}
	if err := s.SaveFrame(0, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Errorf("SaveFrame returned %v", err)
	}
	if err := s.SaveRunJSON([]byte("{}")); err != nil {
		t.Errorf("SaveRunJSON returned %v", err)
	}
}

func TestPackets_Counts(t *testing.T) {
	p := NewPackets()
	p.WritePacket(ports.Packet{Seq: 0, Data: make([]byte, 10)})
	p.WritePacket(ports.Packet{Seq: 1, Data: make([]byte, 5)})

	if p.Count != 2 || p.Bytes != 15 {
		t.Errorf("expected 2 packets / 15 bytes, got %d / %d", p.Count, p.Bytes)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}
