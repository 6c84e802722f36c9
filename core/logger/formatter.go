package logger

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/leafengine/leafcore/core/mem"
	"github.com/leafengine/leafcore/core/strs"
)

// TagKey is the logrus field holding the subsystem tag.
const TagKey = "tag"

const lineFormat = "[%{,2}:%{,2}:%{,2}][%{}][%{}]:%{} %{}\n"

var levelColors = map[Level]*color.Color{
	LevelDebug: forced(color.FgHiBlack),
	LevelTrace: forced(color.FgCyan),
	LevelInfo:  forced(color.FgGreen),
	LevelWarn:  forced(color.FgYellow),
	LevelError: forced(color.FgRed),
	LevelFatal: forced(color.FgWhite, color.BgRed, color.Bold),
}

// forced ignores color.NoColor; Formatter.Color decides instead.
func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Formatter renders entries as [hh:mm:ss][LEVEL][TAG]: message.
type Formatter struct {
	// Color wraps the level name in ANSI colors.
	Color bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	level := fromLogrus(e.Level)
	name := level.String()
	if c, ok := levelColors[level]; ok && f.Color {
		name = c.Sprint(name)
	}
	tag, _ := e.Data[TagKey].(string)

	t := e.Time
	line := scratch()
	defer line.Free()
	strs.LegacyMarkers.Append(line, lineFormat,
		t.Hour(), t.Minute(), t.Second(), name, tag, level.padding(), e.Message)
	return append([]byte(nil), line.Bytes()...), nil
}

// scratch returns a string whose storage is not tracked.
func scratch() *strs.String {
	return strs.New(strs.WithAllocator(mem.Untracked))
}
