package pipeline

import (
	"errors"
	"testing"
)

func TestStageState_Done(t *testing.T) {
	s := NewStageState(StageRead)
	if s.Status() != StatusRunning {
		t.Fatalf("expected running, got %s", s.Status())
	}

	if !s.Finish(nil) {
		t.Error("expected first Finish to change state")
	}
	if s.Status() != StatusDone {
		t.Errorf("expected done, got %s", s.Status())
	}
	if s.Err() != nil {
		t.Errorf("expected no error, got %v", s.Err())
	}
}

func TestStageState_TerminalIsFinal(t *testing.T) {
	s := NewStageState(StageEncode)
	reason := errors.New("codec failure")
	s.Finish(reason)

	if s.Finish(nil) {
		t.Error("expected second Finish to be ignored")
	}
	if s.Status() != StatusAborted {
		t.Errorf("expected aborted, got %s", s.Status())
	}
	if s.Err() != reason {
		t.Errorf("expected original reason, got %v", s.Err())
	}
}

func TestStageState_Report(t *testing.T) {
	s := NewStageState(StageWrite)
	s.Finish(nil)

	r := s.Report(12)
	if r.Name != StageWrite || r.Status != StatusDone || r.Items != 12 {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		StatusRunning: "running",
		StatusDone:    "done",
		StatusAborted: "aborted",
		Status(42):    "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
	if StatusRunning.Terminal() {
		t.Error("running must not be terminal")
	}
	if !StatusAborted.Terminal() {
		t.Error("aborted must be terminal")
	}
}
