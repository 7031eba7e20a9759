// Package log is a small structured logger with context-carried fields and
// asynchronous delivery.
package log

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Logger emits entries at or above its level.
type Logger struct {
	level  *atomic.Int32
	buffer *Buffer
	base   map[string]any
}

// New creates a logger backed by a fresh buffer of 1000 entries.
func New(level Level, transporters ...Transporter) *Logger {
	lv := new(atomic.Int32)
	lv.Store(int32(level))
	return &Logger{
		level:  lv,
		buffer: NewBuffer(1000, transporters...),
		base:   map[string]any{},
	}
}

// SetLevel changes the minimum level of the logger and all its children.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// With returns a child logger that adds the given fields to every entry.
// The child shares the parent's buffer and level.
func (l *Logger) With(keysAndValues ...any) *Logger {
	base := make(map[string]any, len(l.base)+len(keysAndValues)/2)
	for k, v := range l.base {
		base[k] = v
	}
	addPairs(base, keysAndValues)
	return &Logger{level: l.level, buffer: l.buffer, base: base}
}

// Close flushes pending entries.
func (l *Logger) Close() {
	if l.buffer != nil {
		l.buffer.Close()
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(ctx, Debug, msg, keysAndValues)
}

func (l *Logger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(ctx, Info, msg, keysAndValues)
}

func (l *Logger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(ctx, Warn, msg, keysAndValues)
}

func (l *Logger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.emit(ctx, Error, msg, keysAndValues)
}

// emit must be called directly from an exported method so the caller frame
// depth stays fixed.
func (l *Logger) emit(ctx context.Context, level Level, msg string, keysAndValues []any) {
	if l.buffer == nil || !Level(l.level.Load()).Enables(level) {
		return
	}

	entry := newEntry(level, msg)
	entry.Caller = caller(callerDepth)
	for k, v := range l.base {
		entry.Fields[k] = v
	}
	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	addPairs(entry.Fields, keysAndValues)

	l.buffer.Send(entry)
}

// callerDepth skips runtime.Caller, caller, emit and the Logger method.
var callerDepth = 3

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
	discard       = &Logger{level: discardLevel(), base: map[string]any{}}
)

func discardLevel() *atomic.Int32 {
	lv := new(atomic.Int32)
	lv.Store(int32(Error + 1))
	return lv
}

// SetDefault installs the process-wide logger used by the package functions.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide logger, or a logger that drops everything
// and owns no goroutine.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return discard
	}
	return defaultLogger
}

// The package-level helpers log through Default. They call emit themselves
// so the reported caller is the helper's caller.

func DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(ctx, Debug, msg, keysAndValues)
}

func InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(ctx, Info, msg, keysAndValues)
}

func WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(ctx, Warn, msg, keysAndValues)
}

func ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().emit(ctx, Error, msg, keysAndValues)
}
