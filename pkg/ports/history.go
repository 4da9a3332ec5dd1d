package ports

import (
	"context"
	"time"
)

// RunRecord is one finished pipeline run.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Input      string
	Output     string
	Codec      string
	Width      int
	Height     int
	Status     string
	Reason     string
	Frames     int
	Packets    int
	Bytes      int64
}

// RunHistory persists finished runs.
type RunHistory interface {
	// Record stores a run.
	Record(ctx context.Context, rec RunRecord) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases the store.
	Close() error
}
