package nalinspect

import (
	"testing"

	"github.com/user/yuvenc/pkg/ports"
)

func annexB(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, 0, 0, 0, 1)
		out = append(out, n...)
	}
	return out
}

var (
	h264SPS = []byte{0x67, 0x42, 0xc0, 0x1e, 0xd9}
	h264PPS = []byte{0x68, 0xce, 0x3c, 0x80}
	h264IDR = []byte{0x65, 0x88, 0x84, 0x00, 0x33}
	h264P   = []byte{0x41, 0x9a, 0x02, 0x04}

	hevcVPS = []byte{0x40, 0x01, 0x0c, 0x01}
	hevcSPS = []byte{0x42, 0x01, 0x01, 0x01}
	hevcPPS = []byte{0x44, 0x01, 0xc1, 0x72}
	hevcIDR = []byte{0x26, 0x01, 0xaf, 0x06}
)

func TestDetectCodec(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Codec
	}{
		{"h264 sps", annexB(h264SPS), CodecH264},
		{"h264 idr", annexB(h264IDR), CodecH264},
		{"hevc vps", annexB(hevcVPS), CodecHEVC},
		{"empty", nil, CodecUnknown},
		{"no start code", []byte{1, 2, 3, 4, 5}, CodecUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCodec(tt.data); got != tt.want {
				t.Errorf("DetectCodec() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspector_H264(t *testing.T) {
	insp := New(CodecH264)
	insp.Inspect(ports.Packet{Seq: 0, Data: annexB(h264SPS, h264PPS, h264IDR)})
	insp.Inspect(ports.Packet{Seq: 1, Data: annexB(h264P)})
	insp.Inspect(ports.Packet{Seq: 2, Data: annexB(h264P)})

	stats := insp.Stats()
	if stats.Codec != CodecH264 {
		t.Errorf("Codec = %q, want h264", stats.Codec)
	}
	if stats.Packets != 3 {
		t.Errorf("Packets = %d, want 3", stats.Packets)
	}
	if stats.NALUs != 5 {
		t.Errorf("NALUs = %d, want 5", stats.NALUs)
	}
	if stats.Keyframes != 1 {
		t.Errorf("Keyframes = %d, want 1", stats.Keyframes)
	}
	if stats.ParameterSets != 2 {
		t.Errorf("ParameterSets = %d, want 2", stats.ParameterSets)
	}
}

func TestInspector_SplitAcrossPackets(t *testing.T) {
	stream := annexB(h264SPS, h264PPS, h264IDR, h264P)

	insp := New(CodecUnknown)
	// Split inside a start code and inside a NAL payload.
	cuts := []int{3, 7, 15, len(stream)}
	prev := 0
	for seq, c := range cuts {
		insp.Inspect(ports.Packet{Seq: int64(seq), Data: stream[prev:c]})
		prev = c
	}

	stats := insp.Stats()
	if stats.Codec != CodecH264 {
		t.Errorf("Codec = %q, want h264", stats.Codec)
	}
	if stats.NALUs != 4 {
		t.Errorf("NALUs = %d, want 4", stats.NALUs)
	}
	if stats.Bytes != int64(len(stream)) {
		t.Errorf("Bytes = %d, want %d", stats.Bytes, len(stream))
	}
}

func TestInspector_HEVC(t *testing.T) {
	insp := New(CodecUnknown)
	insp.Inspect(ports.Packet{Data: annexB(hevcVPS, hevcSPS, hevcPPS, hevcIDR)})

	stats := insp.Stats()
	if stats.Codec != CodecHEVC {
		t.Errorf("Codec = %q, want hevc", stats.Codec)
	}
	if stats.ParameterSets != 3 {
		t.Errorf("ParameterSets = %d, want 3", stats.ParameterSets)
	}
	if stats.Keyframes != 1 {
		t.Errorf("Keyframes = %d, want 1", stats.Keyframes)
	}
}

func TestInspector_StatsIsSnapshot(t *testing.T) {
	insp := New(CodecH264)
	insp.Inspect(ports.Packet{Data: annexB(h264SPS)})

	first := insp.Stats()
	second := insp.Stats()
	if first.NALUs != 1 || second.NALUs != 1 {
		t.Errorf("NALUs = %d, %d, want 1, 1", first.NALUs, second.NALUs)
	}

	first.Types["mutated"] = 1
	if _, ok := insp.Stats().Types["mutated"]; ok {
		t.Error("Stats() should return a copy of the type map")
	}
}
