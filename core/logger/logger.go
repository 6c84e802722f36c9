// Package logger is the engine's tagged logger. Messages are formatted with
// the strs marker language and written through logrus.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leafengine/leafcore/core/strs"
)

// Options configures a Logger.
type Options struct {
	Level   Level          // Minimum level written. Default: LevelInfo
	Color   bool           // Colorize the level column
	Markers strs.Formatter // Marker pair for Submit formats. Default: strs.DefaultMarkers
	Now     func() time.Time
}

// Logger submits tagged messages to a logrus backend.
type Logger struct {
	mu      sync.RWMutex
	backend *logrus.Logger
	level   Level
	markers strs.Formatter
	now     func() time.Time
}

// New returns a Logger writing to out.
func New(out io.Writer, opts Options) *Logger {
	backend := logrus.New()
	backend.SetOutput(out)
	backend.SetLevel(logrus.TraceLevel)
	backend.SetFormatter(&Formatter{Color: opts.Color})
	backend.ExitFunc = func(int) {}

	l := &Logger{backend: backend, level: opts.Level, markers: opts.Markers, now: opts.Now}
	if l.level == LevelUnknown {
		l.level = LevelInfo
	}
	if l.markers == (strs.Formatter{}) {
		l.markers = strs.DefaultMarkers
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// L is the process-wide logger. Init replaces it.
var L = New(os.Stdout, Options{})

// Init replaces L with a logger writing to out.
func Init(out io.Writer, opts Options) *Logger {
	L = New(out, opts)
	return L
}

// SetLevel changes the minimum level and returns the previous one.
func (l *Logger) SetLevel(level Level) Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.level
	l.level = level
	return prev
}

// Level returns the minimum level written.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// Submit writes one message. Without args the format is written verbatim.
// Fatal messages never exit the process.
func (l *Logger) Submit(level Level, tag, format string, args ...any) {
	l.submit(l.markers, level, tag, format, args)
}

// Submitf is Submit with the format always read using DefaultMarkers,
// whatever markers the logger was configured with.
func (l *Logger) Submitf(level Level, tag, format string, args ...any) {
	l.submit(strs.DefaultMarkers, level, tag, format, args)
}

func (l *Logger) submit(markers strs.Formatter, level Level, tag, format string, args []any) {
	if !l.Enabled(level) {
		return
	}
	msg := format
	if len(args) > 0 {
		s := scratch()
		markers.Append(s, format, args...)
		msg = s.String()
		s.Free()
	}
	l.backend.WithField(TagKey, tag).WithTime(l.now()).Log(level.toLogrus(), msg)
}

func (l *Logger) Debug(tag, format string, args ...any) { l.Submit(LevelDebug, tag, format, args...) }
func (l *Logger) Trace(tag, format string, args ...any) { l.Submit(LevelTrace, tag, format, args...) }
func (l *Logger) Info(tag, format string, args ...any)  { l.Submit(LevelInfo, tag, format, args...) }
func (l *Logger) Warn(tag, format string, args ...any)  { l.Submit(LevelWarn, tag, format, args...) }
func (l *Logger) Error(tag, format string, args ...any) { l.Submit(LevelError, tag, format, args...) }
func (l *Logger) Fatal(tag, format string, args ...any) { l.Submit(LevelFatal, tag, format, args...) }

// Submit writes through L.
func Submit(level Level, tag, format string, args ...any) { L.Submit(level, tag, format, args...) }

// Debug logs through L.
func Debug(tag, format string, args ...any) { L.Debug(tag, format, args...) }

// Info logs through L.
func Info(tag, format string, args ...any) { L.Info(tag, format, args...) }

// Warn logs through L.
func Warn(tag, format string, args ...any) { L.Warn(tag, format, args...) }

// Error logs through L.
func Error(tag, format string, args ...any) { L.Error(tag, format, args...) }
