package config

import "path/filepath"

// QualityPreset represents a named encoding quality level.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains the encoding parameters a preset stands for.
type QualitySettings struct {
	Bitrate    int    // bits per second
	GOPSize    int    // frames between keyframes
	MaxBFrames int    // consecutive B-frames
	Preset     string // encoder speed preset
}

// GetQualitySettings returns quality settings for the given preset.
// Unknown names map to medium, which matches Defaults().
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{
			Bitrate:    200000,
			GOPSize:    25,
			MaxBFrames: 0,
			Preset:     "veryfast",
		}
	case QualityHigh:
		return QualitySettings{
			Bitrate:    1200000,
			GOPSize:    10,
			MaxBFrames: 2,
			Preset:     "slower",
		}
	default:
		return QualitySettings{
			Bitrate:    400000,
			GOPSize:    10,
			MaxBFrames: 1,
			Preset:     "slow",
		}
	}
}

// Builder provides a fluent interface for building Config.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder starting from Defaults().
func NewBuilder() *Builder {
	return &Builder{config: Defaults()}
}

// NewBuilderFrom creates a Builder starting from cfg, typically one loaded
// from a file.
func NewBuilderFrom(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// Build returns the final Config, applying constraints.
func (b *Builder) Build() Config {
	cfg := b.config

	if cfg.FPS < 1 {
		cfg.FPS = 1
	}
	if cfg.QueueCapacity < 0 {
		cfg.QueueCapacity = 0
	}
	// Raw output carries no codec configuration.
	if cfg.Codec == CodecRawVideo {
		cfg.MaxBFrames = 0
	}
	if cfg.Debug && cfg.DebugInterval <= 0 {
		cfg.DebugInterval = Defaults().DebugInterval
	}

	return cfg
}

// WithInput sets the raw input path ("-" for stdin).
func (b *Builder) WithInput(path string) *Builder {
	b.config.Input = path
	return b
}

// WithOutput sets the output path.
func (b *Builder) WithOutput(path string) *Builder {
	b.config.Output = path
	return b
}

// WithSource selects the frame source.
func (b *Builder) WithSource(source string) *Builder {
	b.config.Source = source
	return b
}

// WithSize sets the frame geometry.
func (b *Builder) WithSize(width, height int) *Builder {
	b.config.Width = width
	b.config.Height = height
	return b
}

// WithFrames limits the number of frames (0 = until end of input).
func (b *Builder) WithFrames(n int) *Builder {
	b.config.Frames = n
	return b
}

// WithCodec selects the codec.
func (b *Builder) WithCodec(codec string) *Builder {
	b.config.Codec = codec
	return b
}

// WithQuality applies a quality preset.
func (b *Builder) WithQuality(preset QualityPreset) *Builder {
	q := GetQualitySettings(preset)
	b.config.Bitrate = q.Bitrate
	b.config.GOPSize = q.GOPSize
	b.config.MaxBFrames = q.MaxBFrames
	b.config.Preset = q.Preset
	return b
}

// WithBitrate sets the target bitrate in bits per second.
func (b *Builder) WithBitrate(bps int) *Builder {
	b.config.Bitrate = bps
	return b
}

// WithGOPSize sets the keyframe interval.
func (b *Builder) WithGOPSize(n int) *Builder {
	b.config.GOPSize = n
	return b
}

// WithMaxBFrames sets the number of consecutive B-frames.
func (b *Builder) WithMaxBFrames(n int) *Builder {
	b.config.MaxBFrames = n
	return b
}

// WithFPS sets the frame rate.
func (b *Builder) WithFPS(fps int) *Builder {
	b.config.FPS = fps
	return b
}

// WithPreset sets the encoder speed preset.
func (b *Builder) WithPreset(preset string) *Builder {
	b.config.Preset = preset
	return b
}

// WithFFmpegPath sets the ffmpeg binary.
func (b *Builder) WithFFmpegPath(path string) *Builder {
	b.config.FFmpegPath = path
	return b
}

// WithQueueCapacity bounds both pipeline queues (0 = unbounded).
func (b *Builder) WithQueueCapacity(n int) *Builder {
	b.config.QueueCapacity = n
	return b
}

// WithStallTimeoutMs sets how long a stage waits for its upstream.
func (b *Builder) WithStallTimeoutMs(ms int) *Builder {
	b.config.StallTimeoutMs = ms
	return b
}

// WithInspect enables NAL unit statistics.
func (b *Builder) WithInspect(enabled bool) *Builder {
	b.config.Inspect = enabled
	return b
}

// WithHistory sets the run history database path.
func (b *Builder) WithHistory(path string) *Builder {
	b.config.History = path
	return b
}

// WithSummary sets the markdown summary path.
func (b *Builder) WithSummary(path string) *Builder {
	b.config.Summary = path
	return b
}

// WithDebug enables debug output into dir.
func (b *Builder) WithDebug(enabled bool, dir string) *Builder {
	b.config.Debug = enabled
	if dir != "" {
		b.config.DebugDir = filepath.Clean(dir)
	}
	return b
}

// WithDebugInterval sets how often a frame preview is saved.
func (b *Builder) WithDebugInterval(n int) *Builder {
	b.config.DebugInterval = n
	return b
}

// WithLogLevel sets the log level name.
func (b *Builder) WithLogLevel(level string) *Builder {
	b.config.LogLevel = level
	return b
}
