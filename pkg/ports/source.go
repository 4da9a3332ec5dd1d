package ports

// FrameSource abstracts a sequential raw-frame input.
type FrameSource interface {
	// ReadFrame fills buf with the next frame.
	// It returns io.EOF when no bytes are left and io.ErrUnexpectedEOF when
	// the input ends inside a frame.
	ReadFrame(buf []byte) error

	// Close releases the underlying input.
	Close() error
}
