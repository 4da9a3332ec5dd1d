package filesink

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/user/yuvenc/pkg/mocks"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	sink := New(testBaseDir, mocks.NewFileSystem())

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveRunJSON(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	data := []byte(`{"status": "completed"}`)
	if err := sink.SaveRunJSON(data); err != nil {
		t.Fatalf("SaveRunJSON failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "run.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SavePacket(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	payload := []byte{0, 0, 0, 1, 0x65}
	if err := sink.SavePacket(7, payload); err != nil {
		t.Fatalf("SavePacket failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "packets", "packet-0007.bin")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if !bytes.Equal(saved, payload) {
		t.Errorf("expected %v, got %v", payload, saved)
	}
}

func TestSink_SaveFrame_Thumbnail(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	img := image.NewYCbCr(image.Rect(0, 0, 480, 272), image.YCbCrSubsampleRatio420)
	if err := sink.SaveFrame(25, img); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "frame-0025.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}

	decoded, err := png.Decode(bytes.NewReader(saved))
	if err != nil {
		t.Fatalf("saved frame is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != DefaultThumbnailWidth {
		t.Errorf("expected width %d, got %d", DefaultThumbnailWidth, decoded.Bounds().Dx())
	}
	if decoded.Bounds().Dy() != 272*DefaultThumbnailWidth/480 {
		t.Errorf("unexpected height %d", decoded.Bounds().Dy())
	}
}

func TestSink_SaveFrame_SmallImageKeepsSize(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink := New(testBaseDir, fs)

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	if err := sink.SaveFrame(0, img); err != nil {
		t.Fatalf("SaveFrame failed: %v", err)
	}

	saved, _ := fs.GetFile(filepath.Join(testBaseDir, "frames", "frame-0000.png"))
	decoded, err := png.Decode(bytes.NewReader(saved))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bounds().Dx() != 64 {
		t.Errorf("expected width 64, got %d", decoded.Bounds().Dx())
	}
}
