package config

import "testing"

func TestBuilder_Defaults(t *testing.T) {
	cfg := NewBuilder().Build()
	if cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestBuilder_Fluent(t *testing.T) {
	cfg := NewBuilder().
		WithInput("in.yuv").
		WithOutput("out.hevc").
		WithSize(640, 480).
		WithFrames(30).
		WithCodec(CodecHEVC).
		WithBitrate(1000000).
		WithGOPSize(12).
		WithMaxBFrames(2).
		WithFPS(30).
		WithQueueCapacity(8).
		WithHistory("runs.db").
		Build()

	if cfg.Input != "in.yuv" || cfg.Output != "out.hevc" {
		t.Errorf("unexpected paths %s/%s", cfg.Input, cfg.Output)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.Frames != 30 {
		t.Errorf("unexpected geometry %dx%d/%d", cfg.Width, cfg.Height, cfg.Frames)
	}
	if cfg.Codec != CodecHEVC || cfg.Bitrate != 1000000 || cfg.GOPSize != 12 || cfg.MaxBFrames != 2 {
		t.Errorf("unexpected encoding %+v", cfg)
	}
	if cfg.FPS != 30 || cfg.QueueCapacity != 8 || cfg.History != "runs.db" {
		t.Errorf("unexpected settings %+v", cfg)
	}
}

func TestBuilder_QualityPresets(t *testing.T) {
	low := NewBuilder().WithQuality(QualityLow).Build()
	high := NewBuilder().WithQuality(QualityHigh).Build()
	medium := NewBuilder().WithQuality(QualityMedium).Build()

	if low.Bitrate >= medium.Bitrate || medium.Bitrate >= high.Bitrate {
		t.Errorf("expected increasing bitrates, got %d/%d/%d", low.Bitrate, medium.Bitrate, high.Bitrate)
	}
	if medium.Bitrate != Defaults().Bitrate || medium.Preset != Defaults().Preset {
		t.Error("medium preset should match defaults")
	}
	if low.MaxBFrames != 0 {
		t.Errorf("expected no B-frames at low quality, got %d", low.MaxBFrames)
	}
}

func TestBuilder_Constraints(t *testing.T) {
	cfg := NewBuilder().
		WithFPS(0).
		WithQueueCapacity(-1).
		WithCodec(CodecRawVideo).
		WithDebug(true, "out/debug/").
		WithDebugInterval(0).
		Build()

	if cfg.FPS != 1 {
		t.Errorf("expected fps clamped to 1, got %d", cfg.FPS)
	}
	if cfg.QueueCapacity != 0 {
		t.Errorf("expected unbounded queue, got %d", cfg.QueueCapacity)
	}
	if cfg.MaxBFrames != 0 {
		t.Errorf("expected no B-frames for raw output, got %d", cfg.MaxBFrames)
	}
	if cfg.DebugDir != "out/debug" {
		t.Errorf("expected cleaned debug dir, got %q", cfg.DebugDir)
	}
	if cfg.DebugInterval != 25 {
		t.Errorf("expected default debug interval, got %d", cfg.DebugInterval)
	}
}

func TestBuilder_FromLoadedConfig(t *testing.T) {
	base := Defaults()
	base.Codec = CodecMPEG2
	cfg := NewBuilderFrom(base).WithFrames(5).Build()
	if cfg.Codec != CodecMPEG2 || cfg.Frames != 5 {
		t.Errorf("unexpected config %+v", cfg)
	}
}
