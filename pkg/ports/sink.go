package ports

import (
	"image"
)

// PacketSink abstracts the output bitstream.
type PacketSink interface {
	// WritePacket appends the packet payload to the output.
	WritePacket(pkt Packet) error

	// Close flushes buffered data and releases the output.
	Close() error
}

// PacketInspector observes packets after they are written.
type PacketInspector interface {
	Inspect(pkt Packet)
}

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveFrame saves a preview image of a raw frame.
	SaveFrame(seq int64, img image.Image) error

	// SavePacket saves the payload of an encoded packet.
	SavePacket(seq int64, data []byte) error

	// SaveRunJSON saves the run outcome as JSON.
	SaveRunJSON(data []byte) error
}
