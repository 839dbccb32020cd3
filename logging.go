package rxgo

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger receives structured lifecycle events from the schedulers that
// accept one: tasks scheduled through a monitored scheduler, and panics
// recovered by a monitored or thread-pool scheduler.
// It never sees on_next payloads — the data path stays undiagnosed per the
// core's "no error is logged by the core" guarantee.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a structured key/value pair, shaped after zap.Field so the
// zap-backed logger can pass them straight through without conversion.
type Field = zap.Field

func String(key, value string) Field   { return zap.String(key, value) }
func Int(key string, value int) Field  { return zap.Int(key, value) }
func Err(err error) Field              { return zap.Error(err) }
func Stringer(key string, value interface{ String() string }) Field {
	return zap.Stringer(key, value)
}

type nilLogger struct{}

func (nilLogger) Debug(string, ...Field) {}
func (nilLogger) Info(string, ...Field)  {}
func (nilLogger) Warn(string, ...Field)  {}
func (nilLogger) Error(string, ...Field) {}

// NilLogger is the default Logger: silent unless a host opts in.
var NilLogger Logger = nilLogger{}

type zapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps a *zap.Logger as a Logger. Passing nil falls back to
// zap.NewNop(), keeping the library silent without requiring the caller to
// special-case construction.
func NewZapLogger(z *zap.Logger) Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &zapLogger{z: z}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

var (
	globalLoggerMu sync.RWMutex
	globalLogger   Logger = NilLogger
)

// SetLogger installs the package-wide lifecycle logger. Operators and
// schedulers constructed after this call pick it up; existing instances
// keep whatever logger they were given explicitly via options.
func SetLogger(l Logger) {
	if l == nil {
		l = NilLogger
	}
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
}

func currentLogger() Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newCorrelationID tags a task scheduled through a monitored scheduler so
// its lifecycle log lines can be traced without threading extra state
// through every operator.
func newCorrelationID() string {
	return uuid.New().String()
}
