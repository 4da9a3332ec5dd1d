package mocks

import (
	"context"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// RunHistory is an in-memory implementation of ports.RunHistory.
type RunHistory struct {
	mu sync.Mutex

	RecordFunc func(ctx context.Context, rec ports.RunRecord) error

	Records     []ports.RunRecord
	CloseCalled bool
}

func (m *RunHistory) Record(ctx context.Context, rec ports.RunRecord) error {
	if m.RecordFunc != nil {
		if err := m.RecordFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

// Recent returns the newest records first.
func (m *RunHistory) Recent(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.RunRecord
	for i := len(m.Records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, m.Records[i])
	}
	return out, nil
}

func (m *RunHistory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

var _ ports.RunHistory = (*RunHistory)(nil)
