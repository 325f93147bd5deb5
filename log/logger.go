// Package log provides structured logging with capture session context.
//
// Two logger variants are available:
//   - Logger: Non-sugared zap.Logger for the capture pipeline (structured fields)
//   - SugaredLogger: Printf-style logging for CLI surfaces
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SessionMeta identifies the capture session a logger reports for.
type SessionMeta struct {
	SessionID      string
	StorageBackend string
	Policy         string
}

// Logger provides structured logging with session context.
// All entries carry session_id; storage_backend and policy are added when set.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a logger with session context writing to os.Stderr.
func NewLogger(meta SessionMeta) *Logger {
	return newLoggerWithWriter(meta, os.Stderr, zapcore.DebugLevel)
}

// NewLoggerWithLevel creates a logger that drops entries below level.
func NewLoggerWithLevel(meta SessionMeta, level zapcore.Level) *Logger {
	return newLoggerWithWriter(meta, os.Stderr, level)
}

// NewLoggerWithWriter creates a logger writing to w at the given level.
func NewLoggerWithWriter(meta SessionMeta, w io.Writer, level zapcore.Level) *Logger {
	return newLoggerWithWriter(meta, w, level)
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithOutput returns a new logger with a different output writer.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// newLoggerWithWriter creates a logger writing to the specified writer.
func newLoggerWithWriter(meta SessionMeta, w io.Writer, level zapcore.Level) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		level,
	)

	contextFields := []zap.Field{
		zap.String("session_id", meta.SessionID),
	}
	if meta.StorageBackend != "" {
		contextFields = append(contextFields, zap.String("storage_backend", meta.StorageBackend))
	}
	if meta.Policy != "" {
		contextFields = append(contextFields, zap.String("policy", meta.Policy))
	}

	return &Logger{zap: zap.New(core).With(contextFields...)}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}

// DebugEnabled reports whether debug entries are written.
func (l *Logger) DebugEnabled() bool {
	return l.zap.Core().Enabled(zapcore.DebugLevel)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger {
	return &SugaredLogger{sugar: l.zap.Sugar()}
}

// Debugf logs a debug message with printf-style formatting.
func (s *SugaredLogger) Debugf(template string, args ...any) {
	s.sugar.Debugf(template, args...)
}

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) {
	s.sugar.Infof(template, args...)
}

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) {
	s.sugar.Warnf(template, args...)
}

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) {
	s.sugar.Errorf(template, args...)
}

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
