// Package ffmpegencoder encodes raw YUV420P frames into an elementary stream
// by piping them through an ffmpeg process.
package ffmpegencoder

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// codecSpec maps a codec identifier to ffmpeg's encoder and muxer names.
type codecSpec struct {
	encoder    string
	format     string
	hasPresets bool
}

var codecs = map[string]codecSpec{
	"h264":  {encoder: "libx264", format: "h264", hasPresets: true},
	"hevc":  {encoder: "libx265", format: "hevc", hasPresets: true},
	"mpeg2": {encoder: "mpeg2video", format: "mpeg2video"},
}

// Supports reports whether codec can be produced by this encoder.
func Supports(codec string) bool {
	_, ok := codecs[codec]
	return ok
}

const readChunkSize = 64 << 10

// Encoder runs one ffmpeg process per encoding run. Frames go to its stdin;
// whatever ffmpeg has written to stdout by the time a frame is submitted is
// returned as that frame's packet, so packets are not aligned to frames.
// Their sequence numbers are left as ports.NoSeq.
type Encoder struct {
	ffmpegPath string
	opts       ports.EncoderOptions

	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stderr   bytes.Buffer
	output   *pipeline.Queue[[]byte]
	readDone chan error
	flushing bool
}

// New creates an Encoder. An empty ffmpegPath is resolved with FindFFmpeg.
func New(ffmpegPath string) *Encoder {
	return &Encoder{ffmpegPath: ffmpegPath}
}

// BuildArgs returns the ffmpeg command line for opts.
func BuildArgs(opts ports.EncoderOptions) ([]string, error) {
	spec, ok := codecs[opts.Codec]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, opts.Codec)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "yuv420p",
		"-s", fmt.Sprintf("%dx%d", opts.Geometry.Width, opts.Geometry.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "pipe:0",
		"-c:v", spec.encoder,
	}
	if opts.Bitrate > 0 {
		args = append(args, "-b:v", strconv.Itoa(opts.Bitrate))
	}
	if opts.GOPSize > 0 {
		args = append(args, "-g", strconv.Itoa(opts.GOPSize))
	}
	args = append(args, "-bf", strconv.Itoa(opts.MaxBFrames))
	if spec.hasPresets && opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	args = append(args,
		"-pix_fmt", "yuv420p",
		"-f", spec.format,
		"pipe:1",
	)
	return args, nil
}

// Begin starts the ffmpeg process.
func (e *Encoder) Begin(opts ports.EncoderOptions) error {
	args, err := BuildArgs(opts)
	if err != nil {
		return err
	}

	path, err := FindFFmpeg(e.ffmpegPath)
	if err != nil {
		return err
	}

	e.opts = opts
	e.flushing = false
	e.stderr.Reset()
	cmd := exec.Command(path, args...)
	cmd.Stderr = &e.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	e.cmd = cmd
	e.stdin = stdin

	// Unbounded so ffmpeg never blocks on stdout while we block on its stdin.
	e.output = pipeline.NewQueue[[]byte](0)
	e.readDone = make(chan error, 1)
	go e.readOutput(stdout)
	return nil
}

func (e *Encoder) readOutput(stdout io.Reader) {
	defer e.output.Close()
	for {
		buf := make([]byte, readChunkSize)
		n, err := stdout.Read(buf)
		if n > 0 {
			e.output.Push(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				err = nil
			}
			e.readDone <- err
			return
		}
	}
}

// Encode writes the frame to ffmpeg and returns the output produced so far,
// or nil if there is none yet.
func (e *Encoder) Encode(frame ports.Frame) (*ports.Packet, error) {
	if e.stdin == nil || e.flushing {
		return nil, ErrNotInitialized
	}
	if len(frame.Data) != e.opts.Geometry.FrameSize() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(frame.Data), e.opts.Geometry.FrameSize())
	}

	if _, err := e.stdin.Write(frame.Data); err != nil {
		return nil, fmt.Errorf("%w: write frame %d: %v", ErrEncodingFailed, frame.Seq, err)
	}

	return e.available(), nil
}

// available collects all buffered output without blocking.
func (e *Encoder) available() *ports.Packet {
	var data []byte
	for e.output.Len() > 0 {
		chunk, ok := e.output.Pop()
		if !ok {
			break
		}
		data = append(data, chunk...)
	}
	if len(data) == 0 {
		return nil
	}
	return &ports.Packet{Seq: ports.NoSeq, Data: data}
}

// Flush signals end of input on the first call and then returns ffmpeg's
// remaining output one chunk at a time. It returns nil once ffmpeg exited.
func (e *Encoder) Flush() (*ports.Packet, error) {
	if e.cmd == nil {
		return nil, ErrNotInitialized
	}
	if !e.flushing {
		e.flushing = true
		if err := e.stdin.Close(); err != nil {
			return nil, fmt.Errorf("%w: close stdin: %v", ErrEncodingFailed, err)
		}
	}

	if chunk, ok := e.output.Pop(); ok {
		return &ports.Packet{Seq: ports.NoSeq, Data: chunk}, nil
	}

	if err := e.wait(); err != nil {
		return nil, err
	}
	return nil, nil
}

// wait reaps ffmpeg after its output is fully read.
func (e *Encoder) wait() error {
	if e.cmd == nil {
		return nil
	}
	cmd := e.cmd
	e.cmd = nil
	e.stdin = nil

	readErr := <-e.readDone
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrEncodingFailed, err, e.stderr.String())
	}
	if readErr != nil {
		return fmt.Errorf("%w: read output: %v", ErrEncodingFailed, readErr)
	}
	return nil
}

// closeGrace is how long Close lets ffmpeg finish on its own before killing it.
var closeGrace = time.Second

// Close ends input and reaps ffmpeg, killing it if it does not exit within
// closeGrace. It returns ffmpeg's failure unless the kill caused it. It is
// safe to call after Flush has drained the encoder.
func (e *Encoder) Close() error {
	if e.cmd == nil {
		return nil
	}

	var firstErr error
	if !e.flushing {
		e.flushing = true
		if err := e.stdin.Close(); err != nil {
			firstErr = fmt.Errorf("%w: close stdin: %v", ErrEncodingFailed, err)
		}
	}

	// The output queue is unbounded, so the reader finishes once ffmpeg
	// closes stdout.
	killed := false
	timer := time.NewTimer(closeGrace)
	defer timer.Stop()
	select {
	case err := <-e.readDone:
		e.readDone <- err
	case <-timer.C:
		if e.cmd.Process != nil && e.cmd.Process.Kill() == nil {
			killed = true
		}
	}

	if err := e.wait(); err != nil && !killed && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Ensure Encoder implements ports.VideoEncoder
var _ ports.VideoEncoder = (*Encoder)(nil)
