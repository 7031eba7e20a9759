package log

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// captureTransporter records every delivered entry.
type captureTransporter struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *captureTransporter) Name() string { return "capture" }

func (c *captureTransporter) Write(entry Entry) error {
	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return nil
}

func (c *captureTransporter) Close() error { return nil }

func (c *captureTransporter) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// flushed logs through fn, closes the logger and returns what was delivered.
func flushed(level Level, fn func(l *Logger)) []Entry {
	capture := &captureTransporter{}
	l := New(level, capture)
	fn(l)
	l.Close()
	return capture.Entries()
}

func TestLogger_Info_DeliversEntry(t *testing.T) {
	entries := flushed(Info, func(l *Logger) {
		l.Info(context.Background(), "verification started", "username", "Notch")
	})

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Level != Info || e.Message != "verification started" {
		t.Errorf("entry = %v %q", e.Level, e.Message)
	}
	if e.Fields["username"] != "Notch" {
		t.Errorf("username field = %v", e.Fields["username"])
	}
	if !strings.HasPrefix(e.Caller, "logger_test.go:") {
		t.Errorf("Caller = %q, want logger_test.go:<line>", e.Caller)
	}
}

func TestLogger_BelowLevel_Dropped(t *testing.T) {
	entries := flushed(Warn, func(l *Logger) {
		l.Debug(nil, "noise")
		l.Info(nil, "noise")
		l.Warn(nil, "kept")
	})

	if len(entries) != 1 || entries[0].Message != "kept" {
		t.Fatalf("entries = %+v, want only the WARN entry", entries)
	}
}

func TestLogger_SetLevel_AppliesToChildren(t *testing.T) {
	entries := flushed(Error, func(l *Logger) {
		child := l.With("component", "hypixel")
		l.SetLevel(Debug)
		child.Debug(nil, "now visible")
	})

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Fields["component"] != "hypixel" {
		t.Errorf("component = %v", entries[0].Fields["component"])
	}
}

func TestLogger_ContextFieldsAndRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "run-1")
	ctx = WithFields(ctx, "guild_id", "g1")

	entries := flushed(Info, func(l *Logger) {
		l.With("base", true).Error(ctx, "failed", "error", errors.New("boom"), "guild_id", "override")
	})

	e := entries[0]
	if e.RequestID != "run-1" {
		t.Errorf("RequestID = %q", e.RequestID)
	}
	if e.Fields["base"] != true {
		t.Errorf("base field missing")
	}
	if e.Fields["guild_id"] != "override" {
		t.Errorf("call-site fields should win, got %v", e.Fields["guild_id"])
	}
	if e.Fields["error"] != "boom" {
		t.Errorf("errors should be stored as strings, got %v", e.Fields["error"])
	}
}

func TestDefault_WithoutSetDefault_Discards(t *testing.T) {
	SetDefault(nil)
	// must not panic
	InfoCtx(context.Background(), "dropped")
	Default().Close()
}

func TestSetDefault_PackageHelpersUseIt(t *testing.T) {
	capture := &captureTransporter{}
	l := New(Debug, capture)
	SetDefault(l)
	defer SetDefault(nil)

	WarnCtx(context.Background(), "via default")
	l.Close()

	entries := capture.Entries()
	if len(entries) != 1 || entries[0].Level != Warn {
		t.Fatalf("entries = %+v", entries)
	}
	if !strings.HasPrefix(entries[0].Caller, "logger_test.go:") {
		t.Errorf("Caller = %q", entries[0].Caller)
	}
}
