package logger

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSlog_HonoursLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewSlog(zap.New(core))

	l.Debug("search service call completed", "op", "search.search")
	l.Warn("search service call failed", "op", "search.rag", "http_status", 500, "duration", 2*time.Second)

	if logs.Len() != 1 {
		t.Fatalf("entries = %d, want only the warning", logs.Len())
	}
	e := logs.All()[0]
	if e.Level != zapcore.WarnLevel || e.Message != "search service call failed" {
		t.Errorf("entry = %v %q", e.Level, e.Message)
	}
	fields := e.ContextMap()
	if fields["op"] != "search.rag" || fields["http_status"] != int64(500) {
		t.Errorf("fields = %v", fields)
	}
	if fields["duration"] != 2*time.Second {
		t.Errorf("duration = %v", fields["duration"])
	}
}

func TestNewSlog_AttrsAndGroups(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewSlog(zap.New(core)).With("component", "sdk").WithGroup("call")

	l.Error("failed", "err", errors.New("refused"))

	fields := logs.All()[0].ContextMap()
	if fields["component"] != "sdk" {
		t.Errorf("component = %v", fields["component"])
	}
	if _, ok := fields["call.err"]; !ok {
		t.Errorf("grouped key missing: %v", fields)
	}
	if logs.All()[0].Level != zapcore.ErrorLevel {
		t.Errorf("level = %v", logs.All()[0].Level)
	}
}
