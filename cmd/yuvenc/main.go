// Package main provides the CLI entry point for yuvenc.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/yuvenc/pkg/adapters/bitstream"
	"github.com/user/yuvenc/pkg/adapters/ffmpegencoder"
	"github.com/user/yuvenc/pkg/adapters/filesink"
	"github.com/user/yuvenc/pkg/adapters/history"
	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/adapters/nalinspect"
	"github.com/user/yuvenc/pkg/adapters/nullsink"
	"github.com/user/yuvenc/pkg/adapters/osfilesystem"
	"github.com/user/yuvenc/pkg/adapters/passthrough"
	"github.com/user/yuvenc/pkg/adapters/patternsource"
	"github.com/user/yuvenc/pkg/adapters/rawsource"
	"github.com/user/yuvenc/pkg/config"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/stages/encode"
	"github.com/user/yuvenc/pkg/stages/read"
	"github.com/user/yuvenc/pkg/stages/write"
	"github.com/user/yuvenc/pkg/summarizer"
)

var version = "dev"

func main() {
	app := newApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "yuvenc",
		Usage:   l10n.T("Encode raw YUV420P frames into a video elementary stream"),
		Version: version,
		Commands: []*cli.Command{
			encodeCommand(),
			historyCommand(),
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     l10n.T("Encode raw frames through the read, encode and write pipeline"),
		ArgsUsage: "[input]",
		Flags: []cli.Flag{
			// Input/Output
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("Configuration file (YAML or TOML)"), Category: l10n.T("Input and Output")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output elementary stream path"), Category: l10n.T("Input and Output")},
			&cli.StringFlag{Name: "source", Usage: l10n.T("Frame source (file, pattern)"), Category: l10n.T("Input and Output")},
			&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Usage: l10n.T("Frame size WIDTHxHEIGHT (default: 480x272)"), Category: l10n.T("Input and Output")},
			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Maximum number of frames (0 = until end of input)"), Category: l10n.T("Input and Output")},
			&cli.BoolFlag{Name: "dry-run", Usage: l10n.T("Encode but discard the output"), Category: l10n.T("Input and Output")},

			// Encoding
			&cli.StringFlag{Name: "codec", Usage: l10n.T("Codec (h264, hevc, mpeg2, rawvideo)"), Category: l10n.T("Encoding")},
			&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("Quality preset (low, medium, high)"), Category: l10n.T("Encoding")},
			&cli.IntFlag{Name: "bitrate", Usage: l10n.T("Target bitrate in bits per second"), Category: l10n.T("Encoding")},
			&cli.IntFlag{Name: "gop", Usage: l10n.T("Distance between keyframes"), Category: l10n.T("Encoding")},
			&cli.IntFlag{Name: "max-b-frames", Usage: l10n.T("Maximum consecutive B-frames"), Category: l10n.T("Encoding")},
			&cli.IntFlag{Name: "fps", Usage: l10n.T("Frames per second"), Category: l10n.T("Encoding")},
			&cli.StringFlag{Name: "preset", Usage: l10n.T("Encoder speed preset"), Category: l10n.T("Encoding")},
			&cli.StringFlag{Name: "ffmpeg-path", Usage: l10n.T("Path to ffmpeg executable"), Category: l10n.T("Encoding")},

			// Pipeline
			&cli.IntFlag{Name: "queue-capacity", Usage: l10n.T("Queue capacity (0 = unbounded)"), Category: l10n.T("Pipeline")},
			&cli.IntFlag{Name: "stall-timeout", Usage: l10n.T("Abort when a stage waits longer than this many milliseconds (0 = never)"), Category: l10n.T("Pipeline")},

			// Reporting
			&cli.BoolFlag{Name: "inspect", Usage: l10n.T("Collect NAL unit statistics"), Category: l10n.T("Reporting")},
			&cli.StringFlag{Name: "history", Usage: l10n.T("Record the run in this SQLite database"), Category: l10n.T("Reporting")},
			&cli.StringFlag{Name: "summary", Usage: l10n.T("Output execution summary to file (Markdown format)"), Category: l10n.T("Reporting")},

			// Debug
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
			&cli.IntFlag{Name: "debug-interval", Usage: l10n.T("Save a preview every N frames"), Category: l10n.T("Debug")},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
		},
		Action: runEncode,
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: l10n.T("Show recent encoding runs"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("Configuration file (YAML or TOML)")},
			&cli.StringFlag{Name: "history", Usage: l10n.T("SQLite history database")},
			&cli.IntFlag{Name: "limit", Value: 10, Usage: l10n.T("Number of runs to show")},
		},
		Action: runHistory,
	}
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	b := config.NewBuilderFrom(cfg)

	if c.Args().Present() {
		b.WithInput(c.Args().First())
	}
	if c.IsSet("output") {
		b.WithOutput(c.String("output"))
	}
	if c.IsSet("source") {
		b.WithSource(c.String("source"))
	}
	if c.IsSet("size") {
		w, h, err := config.ParseSize(c.String("size"))
		if err != nil {
			return cfg, err
		}
		b.WithSize(w, h)
	}
	if c.IsSet("frames") {
		b.WithFrames(c.Int("frames"))
	}

	// Quality first so that explicit values win.
	if c.IsSet("quality") {
		b.WithQuality(config.QualityPreset(c.String("quality")))
	}
	if c.IsSet("codec") {
		b.WithCodec(c.String("codec"))
	}
	if c.IsSet("bitrate") {
		b.WithBitrate(c.Int("bitrate"))
	}
	if c.IsSet("gop") {
		b.WithGOPSize(c.Int("gop"))
	}
	if c.IsSet("max-b-frames") {
		b.WithMaxBFrames(c.Int("max-b-frames"))
	}
	if c.IsSet("fps") {
		b.WithFPS(c.Int("fps"))
	}
	if c.IsSet("preset") {
		b.WithPreset(c.String("preset"))
	}
	if c.IsSet("ffmpeg-path") {
		b.WithFFmpegPath(c.String("ffmpeg-path"))
	}
	if c.IsSet("queue-capacity") {
		b.WithQueueCapacity(c.Int("queue-capacity"))
	}
	if c.IsSet("stall-timeout") {
		b.WithStallTimeoutMs(c.Int("stall-timeout"))
	}
	if c.IsSet("inspect") {
		b.WithInspect(c.Bool("inspect"))
	}
	if c.IsSet("history") {
		b.WithHistory(c.String("history"))
	}
	if c.IsSet("summary") {
		b.WithSummary(c.String("summary"))
	}
	if c.IsSet("debug") || c.IsSet("debug-dir") {
		dir := cfg.DebugDir
		if c.IsSet("debug-dir") {
			dir = c.String("debug-dir")
		}
		b.WithDebug(c.Bool("debug") || cfg.Debug, dir)
	}
	if c.IsSet("debug-interval") {
		b.WithDebugInterval(c.Int("debug-interval"))
	}
	if c.IsSet("log-level") {
		b.WithLogLevel(c.String("log-level"))
	}

	cfg = b.Build()
	return cfg, cfg.Validate()
}

func runEncode(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dryRun := c.Bool("dry-run")

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	fs := osfilesystem.New()

	source, err := openSource(fs, cfg)
	if err != nil {
		return err
	}

	encoder, err := newEncoder(cfg, log)
	if err != nil {
		_ = source.Close()
		return err
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			_ = source.Close()
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	var packets ports.PacketSink
	if dryRun {
		packets = nullsink.NewPackets()
	} else {
		out, err := bitstream.Create(fs, cfg.Output)
		if err != nil {
			_ = source.Close()
			return err
		}
		packets = out
	}

	readStage := read.NewStage(source, sink, log)
	encodeStage := encode.NewStage(encoder, log)
	writeStage := write.NewStage(packets, sink, log)

	var inspector *nalinspect.Inspector
	if cfg.Inspect && (cfg.Codec == config.CodecH264 || cfg.Codec == config.CodecHEVC) {
		inspector = nalinspect.New(nalinspect.Codec(cfg.Codec))
		writeStage.WithInspector(inspector)
	}

	orch := orchestrator.New(readStage, encodeStage, writeStage, sink, log)

	input := cfg.Input
	if cfg.Source == config.SourcePattern {
		input = config.SourcePattern
	}
	log.Info("Encoding %s to %s", input, cfg.Output)

	outcome, runErr := orch.Run(c.Context, cfg.ToOrchestratorConfig())

	recordHistory(cfg, outcome, log)
	summary := buildSummary(cfg, outcome, inspector, dryRun)
	writeSummary(cfg, summary, fs, log)

	if !c.Bool("quiet") {
		fmt.Fprintln(c.App.Writer, summarizer.StageTable(summary))
	}

	if runErr != nil {
		return runErr
	}
	if !dryRun {
		log.Info("Output saved to %s", cfg.Output)
	}
	return nil
}

func openSource(fs ports.FileSystem, cfg config.Config) (ports.FrameSource, error) {
	if cfg.Source == config.SourcePattern {
		return patternsource.New(cfg.Geometry(), cfg.Frames)
	}
	return rawsource.Open(fs, cfg.Input)
}

func newEncoder(cfg config.Config, log ports.Logger) (ports.VideoEncoder, error) {
	if cfg.Codec == config.CodecRawVideo {
		return passthrough.New(), nil
	}
	if !ffmpegencoder.Supports(cfg.Codec) {
		return nil, fmt.Errorf("%w: %s", ffmpegencoder.ErrUnsupportedCodec, cfg.Codec)
	}
	path, err := ffmpegencoder.FindFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Using ffmpeg at %s", path)
	return ffmpegencoder.New(path), nil
}

func recordHistory(cfg config.Config, outcome pipeline.Outcome, log ports.Logger) {
	if cfg.History == "" {
		return
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		log.Warn("Failed to record run history: %s", err)
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Record(ctx, newRunRecord(cfg, outcome)); err != nil {
		log.Warn("Failed to record run history: %s", err)
	}
}

func newRunRecord(cfg config.Config, outcome pipeline.Outcome) ports.RunRecord {
	rec := ports.RunRecord{
		RunID:      outcome.RunID,
		StartedAt:  outcome.StartedAt,
		FinishedAt: outcome.StartedAt.Add(outcome.Elapsed),
		Input:      cfg.Input,
		Output:     cfg.Output,
		Codec:      cfg.Codec,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Status:     string(outcome.Status),
		Frames:     outcome.Read.Frames,
		Packets:    outcome.Written,
		Bytes:      outcome.Write.Bytes,
	}
	if cfg.Source == config.SourcePattern {
		rec.Input = config.SourcePattern
	}
	if outcome.Reason != nil {
		rec.Reason = outcome.Reason.Error()
	}
	return rec
}

func buildSummary(cfg config.Config, outcome pipeline.Outcome, inspector *nalinspect.Inspector, dryRun bool) *summarizer.Summary {
	output := cfg.Output
	if dryRun {
		output = ""
	}

	b := summarizer.NewBuilder().
		WithOutcome(outcome).
		WithInput(cfg.Input, cfg.Source, cfg.Width, cfg.Height).
		WithSettings(summarizer.Settings{
			Codec:         cfg.Codec,
			Preset:        cfg.Preset,
			Bitrate:       cfg.Bitrate,
			FPS:           cfg.FPS,
			GOPSize:       cfg.GOPSize,
			MaxBFrames:    cfg.MaxBFrames,
			QueueCapacity: cfg.QueueCapacity,
		}).
		WithOutputPath(output)

	if inspector != nil {
		stats := inspector.Stats()
		b.WithBitstream(summarizer.BitstreamInfo{
			Codec:         string(stats.Codec),
			NALUs:         stats.NALUs,
			Keyframes:     stats.Keyframes,
			ParameterSets: stats.ParameterSets,
			Types:         stats.Types,
		})
	}
	return b.Build()
}

func writeSummary(cfg config.Config, summary *summarizer.Summary, fs ports.FileSystem, log ports.Logger) {
	if cfg.Summary == "" {
		return
	}
	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs)
	if err := w.Write(cfg.Summary, summary); err != nil {
		log.Warn("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary saved to %s", cfg.Summary)
}

func runHistory(c *cli.Context) error {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	path := cfg.History
	if c.IsSet("history") {
		path = c.String("history")
	}
	if path == "" {
		return errors.New(l10n.T("history database path is required"))
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return printHistory(c.Context, c.App.Writer, store, c.Int("limit"))
}

func printHistory(ctx context.Context, w io.Writer, store ports.RunHistory, limit int) error {
	records, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, l10n.T("No runs recorded"))
		return nil
	}
	fmt.Fprintln(w, summarizer.HistoryTable(records))
	return nil
}
