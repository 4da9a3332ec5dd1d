package ffmpegencoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegencoder: ffmpeg not found")

	// ErrUnsupportedCodec is returned for codecs ffmpeg is not set up to produce.
	ErrUnsupportedCodec = errors.New("ffmpegencoder: unsupported codec")

	// ErrFrameSize is returned when a frame does not match the configured geometry.
	ErrFrameSize = errors.New("ffmpegencoder: frame size mismatch")

	// ErrEncodingFailed is returned when the ffmpeg process exits with an error.
	ErrEncodingFailed = errors.New("ffmpegencoder: encoding failed")
)
