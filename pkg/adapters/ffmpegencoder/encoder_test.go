package ffmpegencoder

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

func testOptions(codec string) ports.EncoderOptions {
	return ports.EncoderOptions{
		Codec:      codec,
		Geometry:   ports.Geometry{Width: 64, Height: 48},
		FPS:        25,
		Bitrate:    400000,
		GOPSize:    10,
		MaxBFrames: 1,
		Preset:     "slow",
	}
}

func TestBuildArgs_H264(t *testing.T) {
	args, err := BuildArgs(testOptions("h264"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-f rawvideo -pix_fmt yuv420p -s 64x48 -r 25 -i pipe:0",
		"-c:v libx264",
		"-b:v 400000",
		"-g 10",
		"-bf 1",
		"-preset slow",
		"-f h264 pipe:1",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in %q", want, joined)
		}
	}
}

func TestBuildArgs_MPEG2HasNoPreset(t *testing.T) {
	args, err := BuildArgs(testOptions("mpeg2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-preset") {
		t.Errorf("mpeg2video takes no preset: %q", joined)
	}
	if !strings.Contains(joined, "-f mpeg2video pipe:1") {
		t.Errorf("unexpected muxer in %q", joined)
	}
}

func TestBuildArgs_UnsupportedCodec(t *testing.T) {
	if _, err := BuildArgs(testOptions("vp9")); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestSupports(t *testing.T) {
	for _, codec := range []string{"h264", "hevc", "mpeg2"} {
		if !Supports(codec) {
			t.Errorf("expected %s to be supported", codec)
		}
	}
	if Supports("rawvideo") {
		t.Error("rawvideo is handled by the passthrough encoder")
	}
}

func TestFindFFmpeg_CustomPath(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	path, err := FindFFmpeg(fake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fake {
		t.Errorf("expected %s, got %s", fake, path)
	}

	if _, err := FindFFmpeg(filepath.Join(dir, "missing")); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestFindFFmpeg_EnvPath(t *testing.T) {
	t.Setenv("FFMPEG_PATH", filepath.Join(t.TempDir(), "nope"))
	if _, err := FindFFmpeg(""); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestEncoder_NotInitialized(t *testing.T) {
	e := New("")
	if _, err := e.Encode(ports.Frame{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := e.Flush(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close on idle encoder returned %v", err)
	}
}

func TestEncoder_EncodeH264(t *testing.T) {
	if !IsFFmpegAvailable() {
		t.Skip("ffmpeg not available")
	}

	opts := testOptions("h264")
	opts.Preset = "ultrafast"
	e := New("")
	if err := e.Begin(opts); err != nil {
		t.Skipf("ffmpeg cannot encode h264 here: %v", err)
	}
	defer e.Close()

	var out []byte
	frame := make([]byte, opts.Geometry.FrameSize())
	for i := 0; i < 10; i++ {
		for j := range frame {
			frame[j] = byte(i * 10)
		}
		pkt, err := e.Encode(ports.Frame{Seq: int64(i), Data: frame})
		if err != nil {
			t.Fatalf("encode frame %d: %v", i, err)
		}
		if pkt != nil {
			if pkt.Seq != ports.NoSeq {
				t.Errorf("expected NoSeq, got %d", pkt.Seq)
			}
			out = append(out, pkt.Data...)
		}
	}

	for {
		pkt, err := e.Flush()
		if err != nil {
			t.Fatalf("flush: %v", err)
		}
		if pkt == nil {
			break
		}
		out = append(out, pkt.Data...)
	}

	if len(out) < 4 || out[0] != 0 || out[1] != 0 {
		t.Fatalf("expected an Annex B stream, got %d bytes", len(out))
	}
}

func TestEncoder_FrameSizeMismatch(t *testing.T) {
	if !IsFFmpegAvailable() {
		t.Skip("ffmpeg not available")
	}
	e := New("")
	if err := e.Begin(testOptions("mpeg2")); err != nil {
		t.Skipf("ffmpeg cannot encode mpeg2 here: %v", err)
	}
	defer e.Close()

	if _, err := e.Encode(ports.Frame{Data: make([]byte, 3)}); !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
}

// fakeFFmpeg writes a shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestEncoder_CloseReportsExitFailure(t *testing.T) {
	path := fakeFFmpeg(t, "cat >/dev/null\necho boom >&2\nexit 3\n")
	e := New(path)
	if err := e.Begin(testOptions("h264")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	err := e.Close()
	if !errors.Is(err, ErrEncodingFailed) {
		t.Fatalf("expected ErrEncodingFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected stderr in error, got %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}

func TestEncoder_CloseCleanExit(t *testing.T) {
	path := fakeFFmpeg(t, "cat >/dev/null\n")
	e := New(path)
	if err := e.Begin(testOptions("h264")); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestEncoder_CloseKillsHungProcess(t *testing.T) {
	orig := closeGrace
	closeGrace = 50 * time.Millisecond
	defer func() { closeGrace = orig }()

	// Ignores stdin and never exits on its own.
	path := fakeFFmpeg(t, "exec sleep 30\n")
	e := New(path)
	if err := e.Begin(testOptions("h264")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- e.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected kill failure to be ignored, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not kill the process")
	}
}
