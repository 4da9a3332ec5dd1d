package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/config"
	"github.com/user/yuvenc/pkg/mocks"
	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"yuvenc"}, args...))
	return out.String(), err
}

func TestEncode_PatternRawVideo(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.yuv")
	historyDB := filepath.Join(dir, "history.db")
	summary := filepath.Join(dir, "summary.md")

	out, err := runApp(t,
		"encode",
		"--source", "pattern",
		"--size", "64x48",
		"--frames", "5",
		"--codec", "rawvideo",
		"--output", output,
		"--history", historyDB,
		"--summary", summary,
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("encode failed: %v\n%s", err, out)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if want := int64(5 * 64 * 48 * 3 / 2); info.Size() != want {
		t.Errorf("output size = %d, want %d", info.Size(), want)
	}

	md, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("summary not written: %v", err)
	}
	if !strings.Contains(string(md), "completed") {
		t.Errorf("summary should report a completed run:\n%s", md)
	}

	out, err = runApp(t, "history", "--history", historyDB)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "rawvideo") || !strings.Contains(out, "64x48") {
		t.Errorf("history output missing run:\n%s", out)
	}
}

func TestEncode_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.yuv")

	out, err := runApp(t,
		"encode",
		"--source", "pattern",
		"--size", "32x32",
		"--frames", "3",
		"--codec", "rawvideo",
		"--output", output,
		"--dry-run",
		"--quiet",
	)
	if err != nil {
		t.Fatalf("encode failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("dry run should not create %s", output)
	}
}

func TestEncode_InvalidSize(t *testing.T) {
	_, err := runApp(t, "encode", "--size", "abc", "--quiet")
	if err == nil {
		t.Fatal("expected error for invalid size")
	}
}

func TestEncode_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t,
		"encode",
		"--codec", "rawvideo",
		"--output", filepath.Join(dir, "out.yuv"),
		"--quiet",
		filepath.Join(dir, "missing.yuv"),
	)
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestHistory_RequiresPath(t *testing.T) {
	_, err := runApp(t, "history")
	if err == nil {
		t.Fatal("expected error without a history path")
	}
}

func TestNewRunRecord(t *testing.T) {
	cfg := config.Defaults()
	cfg.Source = config.SourcePattern
	started := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	outcome := pipeline.Outcome{
		RunID:     "run-1",
		Status:    pipeline.OutcomeAborted,
		Reason:    pipeline.ErrCancelled,
		Written:   7,
		Read:      pipeline.ReadResult{Frames: 9},
		Write:     pipeline.WriteResult{Packets: 7, Bytes: 700},
		StartedAt: started,
		Elapsed:   2 * time.Second,
	}

	rec := newRunRecord(cfg, outcome)
	if rec.Input != config.SourcePattern {
		t.Errorf("Input = %q, want pattern", rec.Input)
	}
	if rec.Status != "aborted" || rec.Reason == "" {
		t.Errorf("Status/Reason = %q/%q", rec.Status, rec.Reason)
	}
	if !rec.FinishedAt.Equal(started.Add(2 * time.Second)) {
		t.Errorf("FinishedAt = %v", rec.FinishedAt)
	}
	if rec.Frames != 9 || rec.Packets != 7 || rec.Bytes != 700 {
		t.Errorf("counters = %d/%d/%d, want 9/7/700", rec.Frames, rec.Packets, rec.Bytes)
	}
}

func TestPrintHistory(t *testing.T) {
	store := &mocks.RunHistory{}
	var out bytes.Buffer

	if err := printHistory(context.Background(), &out, store, 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	if !strings.Contains(out.String(), "No runs recorded") {
		t.Errorf("expected empty message, got %q", out.String())
	}

	_ = store.Record(context.Background(), ports.RunRecord{RunID: "abcdef0123", Codec: "mpeg2", Status: "completed"})
	out.Reset()
	if err := printHistory(context.Background(), &out, store, 5); err != nil {
		t.Fatalf("printHistory() error = %v", err)
	}
	if !strings.Contains(out.String(), "mpeg2") {
		t.Errorf("expected recorded run in output:\n%s", out.String())
	}
}
