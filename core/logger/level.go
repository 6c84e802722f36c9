package logger

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level is the severity of a submitted message. Levels are ordered from the
// most verbose.
type Level uint8

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelTrace
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"?????", "DEBUG", "TRACE", "INFO", "WARN", "ERROR", "FATAL"}

// String returns the name printed in the level column.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return levelNames[LevelUnknown]
}

// padding keeps the message column aligned for the four-letter names.
func (l Level) padding() string {
	if l == LevelInfo || l == LevelWarn {
		return " "
	}
	return ""
}

// ParseLevel maps a configuration name to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return LevelWarn, nil
	}
	for i := LevelDebug; i <= LevelFatal; i++ {
		if levelNames[i] == name {
			return i, nil
		}
	}
	return LevelUnknown, fmt.Errorf("logger: unknown level %q", s)
}

func (l Level) toLogrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelTrace:
		return logrus.TraceLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelFatal:
		return logrus.FatalLevel
	default:
		return logrus.TraceLevel
	}
}

func fromLogrus(l logrus.Level) Level {
	switch l {
	case logrus.DebugLevel:
		return LevelDebug
	case logrus.TraceLevel:
		return LevelTrace
	case logrus.InfoLevel:
		return LevelInfo
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel:
		return LevelError
	case logrus.FatalLevel, logrus.PanicLevel:
		return LevelFatal
	default:
		return LevelUnknown
	}
}
