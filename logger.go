package shimtls

import (
	"fmt"
	"io"
	"log"

	"github.com/aristanetworks/glog"
)

// Log verbosity levels
const (
	LevelError = iota
	LevelInfo
	LevelDebug
)

// Logger is the interface that wraps basic logging methods.
type Logger interface {
	Log(level int, format string, args ...interface{})
	WithPrefix(prefix string) Logger
}

// noopLogger is a logger implementation that does nothing.
type noopLogger struct{}

func (l noopLogger) Log(level int, format string, args ...interface{}) {}
func (l noopLogger) WithPrefix(prefix string) Logger                   { return l }

// FuncLogger adapts a printf-style function, such as glog.Infof, to
// [Logger]. Messages above Level are dropped.
type FuncLogger struct {
	LoggerFunc func(format string, args ...interface{})
	Level      int
	Prefix     string
}

func (l *FuncLogger) Log(level int, format string, args ...interface{}) {
	if level > l.Level || l.LoggerFunc == nil {
		return
	}
	l.LoggerFunc("%s%s", l.Prefix, fmt.Sprintf(format, args...))
}

func (l *FuncLogger) WithPrefix(prefix string) Logger {
	newLogger := *l
	newLogger.Prefix = l.Prefix + prefix
	return &newLogger
}

// defaultLogger implements Logger using the standard library.
type defaultLogger struct {
	logger *log.Logger
	level  int
	prefix string
}

func newDefaultLogger(level int, w io.Writer, prefix string) *defaultLogger {
	return &defaultLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
		prefix: prefix,
	}
}

func (l *defaultLogger) Log(level int, format string, args ...interface{}) {
	if level > l.level {
		return
	}

	var levelStr string
	switch level {
	case LevelDebug:
		levelStr = "DEBUG"
	case LevelInfo:
		levelStr = "INFO"
	case LevelError:
		levelStr = "ERROR"
	}

	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("%s: %s %s", levelStr, l.prefix, msg)
}

// WithPrefix appends the new prefix to the current prefix.
func (l *defaultLogger) WithPrefix(prefix string) Logger {
	newLogger := *l
	newLogger.prefix = l.prefix + prefix
	return &newLogger
}

// pkgLogger is consulted by the session and Conn trace paths. It defaults
// to silent.
var pkgLogger Logger = noopLogger{}

// SetLogger replaces the package logger used for debug tracing.
func SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	pkgLogger = l
}

// EnableDebugLogging routes debug tracing through glog.
func EnableDebugLogging() {
	pkgLogger = &FuncLogger{
		LoggerFunc: glog.Infof,
		Level:      LevelDebug,
		Prefix:     "[shimtls] ",
	}
}

func debugf(format string, args ...interface{}) {
	pkgLogger.Log(LevelDebug, format, args...)
}
