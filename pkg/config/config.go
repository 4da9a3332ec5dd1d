// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Supported codec identifiers.
const (
	CodecH264     = "h264"
	CodecHEVC     = "hevc"
	CodecMPEG2    = "mpeg2"
	CodecRawVideo = "rawvideo"
)

// Supported frame sources.
const (
	SourceFile    = "file"
	SourcePattern = "pattern"
)

// Configuration errors.
var (
	ErrInvalidSize    = errors.New("config: invalid frame size")
	ErrUnknownCodec   = errors.New("config: unknown codec")
	ErrUnknownSource  = errors.New("config: unknown source")
	ErrUnknownFormat  = errors.New("config: unknown file format")
	ErrMissingOutput  = errors.New("config: output path is required")
	ErrInvalidSetting = errors.New("config: invalid setting")
)

// Config represents the full configuration for yuvenc.
type Config struct {
	// Input/Output
	Input  string `yaml:"input" toml:"input"`   // Raw YUV file, "-" for stdin
	Output string `yaml:"output" toml:"output"` // Elementary stream file
	Source string `yaml:"source" toml:"source"` // file or pattern

	// Frames
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
	Frames int `yaml:"frames" toml:"frames"` // 0 = until end of input

	// Encoding
	Codec      string `yaml:"codec" toml:"codec"`
	Bitrate    int    `yaml:"bitrate" toml:"bitrate"` // bits per second
	GOPSize    int    `yaml:"gop_size" toml:"gop_size"`
	MaxBFrames int    `yaml:"max_b_frames" toml:"max_b_frames"`
	FPS        int    `yaml:"fps" toml:"fps"`
	Preset     string `yaml:"preset" toml:"preset"`
	FFmpegPath string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`

	// Pipeline
	QueueCapacity  int `yaml:"queue_capacity" toml:"queue_capacity"`
	StallTimeoutMs int `yaml:"stall_timeout_ms" toml:"stall_timeout_ms"`

	// Reporting
	Inspect  bool   `yaml:"inspect" toml:"inspect"` // Collect NAL unit statistics
	History  string `yaml:"history" toml:"history"` // SQLite run history, empty = off
	Summary  string `yaml:"summary" toml:"summary"` // Markdown summary file, empty = off
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Debug
	Debug         bool   `yaml:"debug" toml:"debug"`
	DebugDir      string `yaml:"debug_dir" toml:"debug_dir"`
	DebugInterval int    `yaml:"debug_interval" toml:"debug_interval"`
}

// Defaults returns a Config with default values.
// The encoding values are the classic 480x272, 400 kb/s, GOP 10 setup.
func Defaults() Config {
	return Config{
		Input:  "-",
		Output: "out.h264",
		Source: SourceFile,

		Width:  480,
		Height: 272,
		Frames: 100,

		Codec:      CodecH264,
		Bitrate:    400000,
		GOPSize:    10,
		MaxBFrames: 1,
		FPS:        25,
		Preset:     "slow",

		QueueCapacity: 16,

		LogLevel: "info",

		DebugDir:      "./debug",
		DebugInterval: 25,
	}
}

// LoadFromFile loads configuration from a YAML or TOML file on top of the
// defaults. The format is chosen by extension.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	g := ports.Geometry{Width: c.Width, Height: c.Height}
	if !g.Valid() {
		return fmt.Errorf("%w: %dx%d (width and height must be positive and even)", ErrInvalidSize, c.Width, c.Height)
	}
	if !IsKnownCodec(c.Codec) {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, c.Codec)
	}
	if c.Source != SourceFile && c.Source != SourcePattern {
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Source)
	}
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative", ErrInvalidSetting)
	}
	if c.Source == SourcePattern && c.Frames == 0 {
		return fmt.Errorf("%w: the pattern source needs a frame count", ErrInvalidSetting)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive", ErrInvalidSetting)
	}
	if c.Bitrate < 0 || c.GOPSize < 0 || c.MaxBFrames < 0 {
		return fmt.Errorf("%w: bitrate, gop_size and max_b_frames must not be negative", ErrInvalidSetting)
	}
	if c.QueueCapacity < 0 || c.StallTimeoutMs < 0 {
		return fmt.Errorf("%w: queue settings must not be negative", ErrInvalidSetting)
	}
	return nil
}

// IsKnownCodec reports whether codec is one of the supported identifiers.
func IsKnownCodec(codec string) bool {
	switch codec {
	case CodecH264, CodecHEVC, CodecMPEG2, CodecRawVideo:
		return true
	}
	return false
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "480x272".
func ParseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return width, height, nil
}

// Geometry returns the frame geometry.
func (c Config) Geometry() ports.Geometry {
	return ports.Geometry{Width: c.Width, Height: c.Height}
}

// EncoderOptions returns the options handed to the codec.
func (c Config) EncoderOptions() ports.EncoderOptions {
	return ports.EncoderOptions{
		Codec:      c.Codec,
		Geometry:   c.Geometry(),
		FPS:        c.FPS,
		Bitrate:    c.Bitrate,
		GOPSize:    c.GOPSize,
		MaxBFrames: c.MaxBFrames,
		Preset:     c.Preset,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Geometry:      c.Geometry(),
		MaxFrames:     c.Frames,
		QueueCapacity: c.QueueCapacity,
		StallTimeout:  time.Duration(c.StallTimeoutMs) * time.Millisecond,
		DebugInterval: c.DebugInterval,
		Encoder:       c.EncoderOptions(),
	}
}
