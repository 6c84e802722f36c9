package logger

import (
	"strconv"
	"strings"

	"github.com/leafengine/leafcore/core/assert"
)

// AssertTag tags the assertion box lines.
const AssertTag = "CORE"

const boxTitle = " ASSERTION FAILED "

// AssertionHandler returns an assert.Handler that reports failures as a boxed
// block of FATAL lines.
func (l *Logger) AssertionHandler() assert.Handler {
	return func(f *assert.Failure) {
		for _, line := range assertionBox(f) {
			l.Submit(LevelFatal, AssertTag, line)
		}
	}
}

func assertionBox(f *assert.Failure) []string {
	rows := []string{
		"EXPRESSION: " + f.Expression,
		"FILE:       " + f.File,
		"FUNCTION:   " + f.Function,
		"LINE:       " + strconv.Itoa(f.Line),
	}
	width := len(boxTitle)
	for _, r := range rows {
		width = max(width, len(r))
	}

	dashes := width - len(boxTitle)
	out := make([]string, 0, len(rows)+2)
	out = append(out, "+-"+strings.Repeat("-", dashes/2)+boxTitle+strings.Repeat("-", dashes-dashes/2)+"-+")
	for _, r := range rows {
		out = append(out, "| "+r+strings.Repeat(" ", width-len(r))+" |")
	}
	out = append(out, "+-"+strings.Repeat("-", width)+"-+")
	return out
}
