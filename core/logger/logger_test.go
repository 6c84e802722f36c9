package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/strs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixed = time.Date(2022, time.August, 22, 7, 3, 48, 0, time.UTC)

func newTestLogger(opts Options) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	opts.Now = func() time.Time { return fixed }
	return New(&buf, opts), &buf
}

func TestSubmit_LineShape(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "[07:03:48][DEBUG][CORE]: loaded 3 textures\n"},
		{LevelTrace, "[07:03:48][TRACE][CORE]: loaded 3 textures\n"},
		{LevelInfo, "[07:03:48][INFO][CORE]:  loaded 3 textures\n"},
		{LevelWarn, "[07:03:48][WARN][CORE]:  loaded 3 textures\n"},
		{LevelError, "[07:03:48][ERROR][CORE]: loaded 3 textures\n"},
		{LevelFatal, "[07:03:48][FATAL][CORE]: loaded 3 textures\n"},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			l, buf := newTestLogger(Options{Level: LevelDebug})
			l.Submit(tt.level, "CORE", "loaded {} textures", 3)
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSubmit_FiltersBelowLevel(t *testing.T) {
	l, buf := newTestLogger(Options{Level: LevelWarn})
	l.Debug("CORE", "hidden")
	l.Trace("CORE", "hidden")
	l.Info("CORE", "hidden")
	require.Empty(t, buf.String())

	l.Warn("CORE", "shown")
	require.Contains(t, buf.String(), "shown")

	prev := l.SetLevel(LevelError)
	require.Equal(t, LevelWarn, prev)
	require.False(t, l.Enabled(LevelWarn))
}

func TestSubmit_FatalDoesNotExit(t *testing.T) {
	l, buf := newTestLogger(Options{})
	l.Fatal("RENDERER", "device lost")
	l.Info("RENDERER", "still running")
	require.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestSubmit_WithoutArgsIsVerbatim(t *testing.T) {
	l, buf := newTestLogger(Options{})
	l.Info("CORE", "literal {} markers")
	require.Equal(t, "[07:03:48][INFO][CORE]:  literal {} markers\n", buf.String())
}

func TestSubmit_LegacyMarkers(t *testing.T) {
	l, buf := newTestLogger(Options{Markers: strs.LegacyMarkers})
	l.Info("CORE", "%{} took %{.1}ms", "frame", 16.66)
	require.Equal(t, "[07:03:48][INFO][CORE]:  frame took 16.7ms\n", buf.String())
}

func TestSubmitf_IgnoresConfiguredMarkers(t *testing.T) {
	l, buf := newTestLogger(Options{Markers: strs.LegacyMarkers})
	l.Submitf(LevelWarn, "CORE", "leaked {} bytes at {}", 32, "main.go:10")
	require.Equal(t, "[07:03:48][WARN][CORE]:  leaked 32 bytes at main.go:10\n", buf.String())
}

func TestFormatter_Color(t *testing.T) {
	l, buf := newTestLogger(Options{Color: true})
	l.Error("CORE", "boom")
	out := buf.String()
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "ERROR")
	require.True(t, strings.HasSuffix(out, "]: boom\n"))
}

func TestPackageLogger(t *testing.T) {
	prev := L
	t.Cleanup(func() { L = prev })

	var buf bytes.Buffer
	Init(&buf, Options{Level: LevelDebug, Now: func() time.Time { return fixed }})
	Debug("APP", "x={}", 1)
	Submit(LevelError, "APP", "y")
	require.Equal(t, "[07:03:48][DEBUG][APP]: x=1\n[07:03:48][ERROR][APP]: y\n", buf.String())
}

func TestAssertionHandler_Box(t *testing.T) {
	l, buf := newTestLogger(Options{})
	h := l.AssertionHandler()
	h(&assert.Failure{Expression: "x < 3", File: "map.go", Function: "hashmap.(*Map).At", Line: 12})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	var box []string
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "[07:03:48][FATAL][CORE]: "), line)
		box = append(box, strings.TrimPrefix(line, "[07:03:48][FATAL][CORE]: "))
	}
	require.Equal(t, "+------ ASSERTION FAILED -------+", box[0])
	require.Equal(t, "| EXPRESSION: x < 3             |", box[1])
	require.Equal(t, "| FUNCTION:   hashmap.(*Map).At |", box[3])
	require.Equal(t, "| LINE:       12                |", box[4])
	for _, b := range box {
		require.Len(t, b, len(box[0]))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"TRACE", LevelTrace, false},
		{" info ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", LevelFatal, false},
		{"?????", LevelUnknown, true},
		{"verbose", LevelUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
