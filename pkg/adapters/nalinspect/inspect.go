// Package nalinspect counts NAL units in an Annex-B elementary stream as it is written.
package nalinspect

import (
	"bytes"
	"sync"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/hevc"

	"github.com/user/yuvenc/pkg/ports"
)

// Codec represents a bitstream syntax the inspector understands.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecUnknown Codec = "unknown"
)

// Stats summarizes the NAL units seen so far.
type Stats struct {
	Codec         Codec
	Packets       int
	Bytes         int64
	NALUs         int
	Keyframes     int
	ParameterSets int
	Types         map[string]int
}

// Inspector implements ports.PacketInspector.
// NAL units split across packet boundaries are reassembled before counting.
type Inspector struct {
	mu    sync.Mutex
	codec Codec
	carry []byte
	stats Stats
}

var _ ports.PacketInspector = (*Inspector)(nil)

// New creates an inspector. CodecUnknown detects the codec from the first packet.
func New(codec Codec) *Inspector {
	return &Inspector{
		codec: codec,
		stats: Stats{Types: make(map[string]int)},
	}
}

// Inspect consumes one packet.
func (i *Inspector) Inspect(pkt ports.Packet) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stats.Packets++
	i.stats.Bytes += int64(len(pkt.Data))

	data := append(i.carry, pkt.Data...)
	if i.codec == "" || i.codec == CodecUnknown {
		i.codec = DetectCodec(data)
	}

	cut := lastStartCode(data)
	if cut <= 0 {
		i.carry = data
		return
	}
	i.count(&i.stats, data[:cut])
	i.carry = append([]byte(nil), data[cut:]...)
}

// Stats returns a snapshot that includes the trailing NAL unit still held back.
func (i *Inspector) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.stats
	out.Codec = i.codec
	if out.Codec == "" {
		out.Codec = CodecUnknown
	}
	out.Types = make(map[string]int, len(i.stats.Types))
	for k, v := range i.stats.Types {
		out.Types[k] = v
	}
	if len(i.carry) > 0 {
		i.count(&out, i.carry)
	}
	return out
}

func (i *Inspector) count(s *Stats, stream []byte) {
	for _, nalu := range avc.ExtractNalusFromByteStream(stream) {
		if len(nalu) == 0 {
			continue
		}
		s.NALUs++
		switch i.codec {
		case CodecH264:
			t := avc.GetNaluType(nalu[0])
			s.Types[t.String()]++
			switch t {
			case avc.NALU_IDR:
				s.Keyframes++
			case avc.NALU_SPS, avc.NALU_PPS:
				s.ParameterSets++
			}
		case CodecHEVC:
			t := hevc.GetNaluType(nalu[0])
			s.Types[t.String()]++
			switch t {
			case hevc.NALU_IDR_W_RADL, hevc.NALU_IDR_N_LP, hevc.NALU_CRA:
				s.Keyframes++
			case hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS:
				s.ParameterSets++
			}
		default:
			s.Types["unknown"]++
		}
	}
}

// DetectCodec guesses the codec from the first NAL unit header in an Annex-B stream.
func DetectCodec(data []byte) Codec {
	start := bytes.Index(data, []byte{0, 0, 1})
	if start < 0 || start+4 >= len(data) {
		return CodecUnknown
	}
	h0, h1 := data[start+3], data[start+4]

	// HEVC headers are two bytes with nuh_layer_id 0 and a non-zero temporal id.
	if h0&0x81 == 0 && h1&0x07 != 0 {
		switch hevc.GetNaluType(h0) {
		case hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS, hevc.NALU_AUD:
			return CodecHEVC
		}
	}
	switch avc.GetNaluType(h0) {
	case avc.NALU_SPS, avc.NALU_PPS, avc.NALU_AUD, avc.NALU_SEI, avc.NALU_IDR:
		return CodecH264
	}
	return CodecUnknown
}

// lastStartCode returns the offset of the last start code, counting a
// leading zero byte of a four-byte start code.
func lastStartCode(data []byte) int {
	idx := bytes.LastIndex(data, []byte{0, 0, 1})
	if idx > 0 && data[idx-1] == 0 {
		idx--
	}
	return idx
}
