package ports

// NoSeq marks a packet whose originating frame is unknown to the encoder.
// The encode stage replaces it with a sequence number of its own.
const NoSeq int64 = -1

// Geometry describes the dimensions of a planar YUV 4:2:0 frame.
type Geometry struct {
	Width  int
	Height int
}

// LumaSize returns the size of the Y plane in bytes.
func (g Geometry) LumaSize() int {
	return g.Width * g.Height
}

// ChromaSize returns the size of one chroma plane (U or V) in bytes.
func (g Geometry) ChromaSize() int {
	return (g.Width / 2) * (g.Height / 2)
}

// FrameSize returns the size of one full frame in bytes.
func (g Geometry) FrameSize() int {
	return g.LumaSize() + 2*g.ChromaSize()
}

// Valid reports whether the geometry can hold a 4:2:0 frame.
func (g Geometry) Valid() bool {
	return g.Width > 0 && g.Height > 0 && g.Width%2 == 0 && g.Height%2 == 0
}

// Frame is one raw YUV420P picture travelling from the reader to the encoder.
// The buffer is owned by whoever holds the frame; it is never shared.
type Frame struct {
	Seq  int64  // Presentation order index, starting at 0
	Data []byte // Y plane, then U, then V
}

// Packet is one unit of encoded output travelling from the encoder to the writer.
type Packet struct {
	Seq     int64  // Sequence number of the originating frame
	Data    []byte // Encoded bytes, written verbatim
	Flushed bool   // Produced while draining the encoder
}
