// Package orchestrator runs the read, encode and write stages concurrently
// and turns their terminal states into a single outcome.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/yuvenc/pkg/pipeline"
	"github.com/user/yuvenc/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	Geometry  ports.Geometry
	MaxFrames int // 0 = until end of input

	// Queues
	QueueCapacity int           // Bound for both queues (0 = unbounded)
	StallTimeout  time.Duration // Upstream inactivity limit (0 = none)

	// Debug
	DebugInterval int // Preview every Nth frame

	// Encoding, handed to the codec untouched
	Encoder ports.EncoderOptions
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	g := ports.Geometry{Width: 480, Height: 272}
	return Config{
		Geometry:      g,
		MaxFrames:     100,
		QueueCapacity: 16,
		DebugInterval: 25,
		Encoder: ports.EncoderOptions{
			Codec:      "h264",
			Geometry:   g,
			FPS:        25,
			Bitrate:    400000,
			GOPSize:    10,
			MaxBFrames: 1,
			Preset:     "slow",
		},
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	readStage   pipeline.ReadStage
	encodeStage pipeline.EncodeStage
	writeStage  pipeline.WriteStage
	sink        ports.DebugSink
	logger      ports.Logger
	newRunID    func() string
}

// New creates a new Orchestrator.
func New(
	readStage pipeline.ReadStage,
	encodeStage pipeline.EncodeStage,
	writeStage pipeline.WriteStage,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		readStage:   readStage,
		encodeStage: encodeStage,
		writeStage:  writeStage,
		sink:        sink,
		logger:      logger,
		newRunID:    uuid.NewString,
	}
}

// Run executes one encoding run and blocks until all three stages have
// terminated. The returned error is the outcome's reason, nil when the run
// completed. Cancelling ctx aborts the run.
func (o *Orchestrator) Run(ctx context.Context, config Config) (pipeline.Outcome, error) {
	outcome := pipeline.Outcome{
		RunID:     o.newRunID(),
		StartedAt: time.Now(),
	}
	o.logger.Info("Starting pipeline run %s", outcome.RunID)
	o.logger.Info("Input: %dx%d, codec %s", config.Geometry.Width, config.Geometry.Height, config.Encoder.Codec)

	abort := pipeline.NewAbort(ctx)
	defer abort.Stop()

	frames := pipeline.NewQueue[ports.Frame](config.QueueCapacity)
	packets := pipeline.NewQueue[ports.Packet](config.QueueCapacity)

	readState := pipeline.NewStageState(pipeline.StageRead)
	encodeState := pipeline.NewStageState(pipeline.StageEncode)
	writeState := pipeline.NewStageState(pipeline.StageWrite)

	var wg sync.WaitGroup
	wg.Add(3)

	go o.runStage(&wg, readState, abort, frames.Close, pipeline.ErrSourceRead, func() (err error) {
		link := pipeline.Link[struct{}, ports.Frame]{Abort: abort, Out: frames}
		outcome.Read, err = o.readStage.Execute(link, o.buildReadInput(config))
		return err
	})
	go o.runStage(&wg, encodeState, abort, packets.Close, pipeline.ErrEncode, func() (err error) {
		link := pipeline.Link[ports.Frame, ports.Packet]{Abort: abort, In: frames, Out: packets}
		outcome.Encode, err = o.encodeStage.Execute(link, o.buildEncodeInput(config))
		return err
	})
	go o.runStage(&wg, writeState, abort, nil, pipeline.ErrSinkWrite, func() (err error) {
		link := pipeline.Link[ports.Packet, struct{}]{Abort: abort, In: packets}
		outcome.Write, err = o.writeStage.Execute(link, o.buildWriteInput(config))
		return err
	})

	wg.Wait()

	outcome.Elapsed = time.Since(outcome.StartedAt)
	outcome.Written = outcome.Write.Packets
	outcome.Stages = []pipeline.StageReport{
		readState.Report(outcome.Read.Frames),
		encodeState.Report(outcome.Encode.Frames),
		writeState.Report(outcome.Write.Packets),
	}

	outcome.Status = pipeline.OutcomeCompleted
	for _, st := range outcome.Stages {
		if st.Status != pipeline.StatusDone {
			outcome.Status = pipeline.OutcomeAborted
		}
	}
	if outcome.Status == pipeline.OutcomeAborted {
		outcome.Reason = abort.Reason()
		if outcome.Reason == nil {
			outcome.Reason = pipeline.ErrAborted
		}
	}

	o.saveRunJSON(outcome)

	if outcome.Completed() {
		o.logger.Info("Pipeline completed: %d frames read, %d packets written", outcome.Read.Frames, outcome.Written)
		return outcome, nil
	}
	o.logger.Error("Pipeline aborted: %s", outcome.Reason)
	return outcome, outcome.Reason
}

// runStage runs body on the calling goroutine and records its terminal
// state. A panic is converted into an abort of kind; the stage's output
// queue is closed either way.
func (o *Orchestrator) runStage(
	wg *sync.WaitGroup,
	state *pipeline.StageState,
	abort *pipeline.Abort,
	closeOut func(),
	kind error,
	body func() error,
) {
	var err error
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			err = pipeline.NewStageError(state.Name(), kind, -1, fmt.Errorf("panic: %v", r))
			o.logger.Error("Stage %s panicked: %v", state.Name(), r)
		}
		if err != nil {
			abort.Raise(err)
		}
		if closeOut != nil {
			closeOut()
		}
		state.Finish(err)
		o.logger.Debug("Stage %s finished: %s", state.Name(), state.Status())
	}()
	err = body()
}

func (o *Orchestrator) buildReadInput(config Config) pipeline.ReadInput {
	return pipeline.ReadInput{
		Geometry:      config.Geometry,
		MaxFrames:     config.MaxFrames,
		DebugInterval: config.DebugInterval,
	}
}

func (o *Orchestrator) buildEncodeInput(config Config) pipeline.EncodeInput {
	opts := config.Encoder
	if opts.Geometry == (ports.Geometry{}) {
		opts.Geometry = config.Geometry
	}
	return pipeline.EncodeInput{
		Options:      opts,
		StallTimeout: config.StallTimeout,
	}
}

func (o *Orchestrator) buildWriteInput(config Config) pipeline.WriteInput {
	return pipeline.WriteInput{
		StallTimeout: config.StallTimeout,
	}
}

// runReport is the JSON form of an outcome saved with debug output.
type runReport struct {
	RunID     string        `json:"runId"`
	Status    string        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Written   int           `json:"written"`
	StartedAt time.Time     `json:"startedAt"`
	ElapsedMs int64         `json:"elapsedMs"`
	Stages    []stageReport `json:"stages"`
}

type stageReport struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Items  int    `json:"items"`
}

func (o *Orchestrator) saveRunJSON(outcome pipeline.Outcome) {
	if !o.sink.Enabled() {
		return
	}

	report := runReport{
		RunID:     outcome.RunID,
		Status:    string(outcome.Status),
		Written:   outcome.Written,
		StartedAt: outcome.StartedAt,
		ElapsedMs: outcome.Elapsed.Milliseconds(),
	}
	if outcome.Reason != nil {
		report.Reason = outcome.Reason.Error()
	}
	for _, st := range outcome.Stages {
		sr := stageReport{Name: st.Name, Status: st.Status.String(), Items: st.Items}
		if st.Err != nil {
			sr.Error = st.Err.Error()
		}
		report.Stages = append(report.Stages, sr)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		o.logger.Warn("Failed to encode run report: %s", err)
		return
	}
	if err := o.sink.SaveRunJSON(data); err != nil {
		o.logger.Warn("Failed to save run report: %s", err)
	}
}
