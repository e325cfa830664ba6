// Package logging is a thin wrapper over zap, giving every package in this
// module a structured logger without coupling them to zap's construction
// API directly.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// Logger is a structured, leveled logger. The zero value is not usable;
// obtain one from Default or New.
type Logger struct {
	z *zap.SugaredLogger
}

var (
	defaultOnce sync.Once
	defaultLog  *Logger
)

// Default returns the process-wide logger, configured from GIT_REMOTE_SQLITE_DEBUG.
// Git remote helpers must never write anything but protocol lines to
// stdout, so all logging here goes to stderr.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLog = New(os.Getenv("GIT_REMOTE_SQLITE_DEBUG") != "")
	})
	return defaultLog
}

// New builds a logger. When debug is false only warnings and above are
// emitted; when true, debug-level diagnostics are included too.
func New(debug bool) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		// Logging must never be fatal to the remote helper; fall back to
		// a no-op core rather than failing the whole process.
		z = zap.NewNop()
	}
	return &Logger{z: z.Sugar()}
}

// Named returns a derived logger tagged with the given subsystem name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{z: l.z.Named(name)}
}

func (l *Logger) Debugw(msg string, kv ...any) { l.z.Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...any)  { l.z.Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...any)  { l.z.Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...any) { l.z.Errorw(msg, kv...) }

// Sync flushes any buffered log entries. Call before process exit.
func (l *Logger) Sync() error { return l.z.Sync() }
