package api

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

//
// Helpers
//

type statRecord struct {
	WorkerID int64
	Kind     StatKind
	Value    float64
}

// testSink records every stat it receives.
type testSink struct {
	mu      sync.Mutex
	records []statRecord
}

func (s *testSink) PutStat(workerID int64, kind StatKind, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, statRecord{workerID, kind, value})
}

//
// NoopSink
//

func TestNoopSink_DoesNotPanic(t *testing.T) {
	var s StatSink = NoopSink{}
	s.PutStat(1, StatIterationTime, 0.5)
	s.PutStat(1, StatTaskSize, 10)
}

//
// CompositeSink
//

func TestNewCompositeSink_EmptyReturnsNoop(t *testing.T) {
	s := NewCompositeSink()
	if _, ok := s.(NoopSink); !ok {
		t.Fatalf("expected NewCompositeSink() to return NoopSink, got %T", s)
	}
}

func TestNewCompositeSink_SingleReturnsThatSink(t *testing.T) {
	single := &testSink{}
	s := NewCompositeSink(single, nil)

	if got, ok := s.(*testSink); !ok || got != single {
		t.Fatalf("expected the single non-nil sink to be returned, got %T (%p)", s, s)
	}
}

func TestCompositeSink_ForwardsToAll(t *testing.T) {
	s1 := &testSink{}
	s2 := &testSink{}
	cs, ok := NewCompositeSink(s1, s2).(*CompositeSink)
	if !ok {
		t.Fatalf("expected *CompositeSink")
	}

	cs.PutStat(7, StatTaskTime, 12.5)
	cs.PutStat(7, StatTaskSize, 3)

	for i, s := range []*testSink{s1, s2} {
		if len(s.records) != 2 {
			t.Fatalf("sink %d: expected 2 records, got %d", i+1, len(s.records))
		}
		if s.records[0] != (statRecord{7, StatTaskTime, 12.5}) {
			t.Fatalf("sink %d: unexpected first record %+v", i+1, s.records[0])
		}
		if s.records[1] != (statRecord{7, StatTaskSize, 3}) {
			t.Fatalf("sink %d: unexpected second record %+v", i+1, s.records[1])
		}
	}
}

//
// LoggingSink
//

func TestNewLoggingSink_NilLoggerUsesGlobal(t *testing.T) {
	s := NewLoggingSink(nil)
	ls, ok := s.(*LoggingSink)
	if !ok {
		t.Fatalf("expected *LoggingSink, got %T", s)
	}
	if ls.Logger == nil {
		t.Fatalf("expected non-nil Logger when created with nil")
	}
}

func TestLoggingSink_EmitsDebugRecord(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewLoggingSink(zap.New(core))

	s.PutStat(3, StatIterationTime, 1.25)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %v", e.Level)
	}
	if e.Message != "worker_stat" {
		t.Fatalf("expected message worker_stat, got %q", e.Message)
	}

	fields := e.ContextMap()
	if fields["worker_id"] != int64(3) {
		t.Fatalf("expected worker_id=3, got %v", fields["worker_id"])
	}
	if fields["kind"] != string(StatIterationTime) {
		t.Fatalf("expected kind=%s, got %v", StatIterationTime, fields["kind"])
	}
	if fields["value"] != 1.25 {
		t.Fatalf("expected value=1.25, got %v", fields["value"])
	}
}
