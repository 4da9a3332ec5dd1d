package ports

// VideoEncoder abstracts the external codec.
//
// Encoders may buffer and reorder frames internally, so Encode can return no
// packet for a given frame and Flush has to be called until it returns nil
// to drain whatever is still pending. A VideoEncoder is used by one
// goroutine at a time.
type VideoEncoder interface {
	// Begin opens the codec with the given options.
	Begin(opts EncoderOptions) error

	// Encode submits one frame and returns the packet that became available,
	// or nil if the encoder is holding output back.
	Encode(frame Frame) (*Packet, error)

	// Flush returns the next delayed packet, or nil once the encoder is drained.
	Flush() (*Packet, error)

	// Close releases codec resources.
	Close() error
}

// EncoderOptions configures the codec. The pipeline never reads these values.
type EncoderOptions struct {
	Codec      string   // Codec identifier (h264, hevc, mpeg2, rawvideo)
	Geometry   Geometry // Frame dimensions
	FPS        int      // Time base denominator (frames per second)
	Bitrate    int      // Target bitrate in bits per second
	GOPSize    int      // Distance between keyframes
	MaxBFrames int      // Maximum consecutive B-frames
	Preset     string   // Encoder speed preset (e.g. "slow")
}
