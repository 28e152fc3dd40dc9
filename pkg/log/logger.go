package log

import (
	"context"
	"sync"
	"time"
)

// Transporter is a log output destination (stdout, files, Loki, ...).
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}

// Logger writes entries at or above its minimum level to every
// transporter, synchronously.
type Logger struct {
	mu           sync.Mutex
	level        Level
	transporters []Transporter
	baseFields   map[string]any
}

// New creates a logger with the given minimum level and transporters.
func New(level Level, transporters ...Transporter) *Logger {
	return &Logger{
		level:        level,
		transporters: transporters,
		baseFields:   map[string]any{},
	}
}

// With returns a child logger carrying additional base fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	l.mu.Lock()
	fields := make(map[string]any, len(l.baseFields))
	for k, v := range l.baseFields {
		fields[k] = v
	}
	l.mu.Unlock()

	mergeFields(fields, keysAndValues)
	return &Logger{
		level:        l.level,
		transporters: l.transporters,
		baseFields:   fields,
	}
}

// Close closes all transporters.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.transporters {
		_ = t.Close()
	}
}

func (l *Logger) log(level Level, ctx context.Context, msg string, keysAndValues ...any) {
	if !l.level.Enables(level) {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]any, len(l.baseFields)+len(keysAndValues)/2),
	}

	l.mu.Lock()
	for k, v := range l.baseFields {
		entry.Fields[k] = v
	}
	l.mu.Unlock()

	if ctx != nil {
		entry.RequestID = RequestIDFromContext(ctx)
		for k, v := range FieldsFromContext(ctx) {
			entry.Fields[k] = v
		}
	}
	mergeFields(entry.Fields, keysAndValues)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.transporters {
		_ = t.Write(entry)
	}
}

// mergeFields folds alternating key/value args into fields, skipping
// non-string keys and a trailing unpaired key.
func mergeFields(fields map[string]any, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
}

// Debug logs at Debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.log(Debug, nil, msg, keysAndValues...) }

// Info logs at Info level.
func (l *Logger) Info(msg string, keysAndValues ...any) { l.log(Info, nil, msg, keysAndValues...) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, keysAndValues ...any) { l.log(Warn, nil, msg, keysAndValues...) }

// Error logs at Error level.
func (l *Logger) Error(msg string, keysAndValues ...any) { l.log(Error, nil, msg, keysAndValues...) }

// Fatal logs at Fatal level. It does not exit; that is the caller's call.
func (l *Logger) Fatal(msg string, keysAndValues ...any) { l.log(Fatal, nil, msg, keysAndValues...) }

// DebugCtx logs at Debug level with context.
func (l *Logger) DebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Debug, ctx, msg, keysAndValues...)
}

// InfoCtx logs at Info level with context.
func (l *Logger) InfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Info, ctx, msg, keysAndValues...)
}

// WarnCtx logs at Warn level with context.
func (l *Logger) WarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Warn, ctx, msg, keysAndValues...)
}

// ErrorCtx logs at Error level with context.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(Error, ctx, msg, keysAndValues...)
}

// --- Global logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetDefault sets the global default logger.
func SetDefault(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Default returns the global logger, or a silent one if unset.
func Default() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return New(Fatal + 1)
	}
	return l
}

// GlobalDebug logs at Debug level on the global logger.
func GlobalDebug(msg string, keysAndValues ...any) { Default().Debug(msg, keysAndValues...) }

// GlobalInfo logs at Info level on the global logger.
func GlobalInfo(msg string, keysAndValues ...any) { Default().Info(msg, keysAndValues...) }

// GlobalWarn logs at Warn level on the global logger.
func GlobalWarn(msg string, keysAndValues ...any) { Default().Warn(msg, keysAndValues...) }

// GlobalError logs at Error level on the global logger.
func GlobalError(msg string, keysAndValues ...any) { Default().Error(msg, keysAndValues...) }

// GlobalFatal logs at Fatal level on the global logger.
func GlobalFatal(msg string, keysAndValues ...any) { Default().Fatal(msg, keysAndValues...) }

// GlobalDebugCtx logs at Debug level with context on the global logger.
func GlobalDebugCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().DebugCtx(ctx, msg, keysAndValues...)
}

// GlobalInfoCtx logs at Info level with context on the global logger.
func GlobalInfoCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().InfoCtx(ctx, msg, keysAndValues...)
}

// GlobalWarnCtx logs at Warn level with context on the global logger.
func GlobalWarnCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().WarnCtx(ctx, msg, keysAndValues...)
}

// GlobalErrorCtx logs at Error level with context on the global logger.
func GlobalErrorCtx(ctx context.Context, msg string, keysAndValues ...any) {
	Default().ErrorCtx(ctx, msg, keysAndValues...)
}
