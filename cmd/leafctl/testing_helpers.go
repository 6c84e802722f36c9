package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// resetFlags restores global flags and points --config at a missing file so
// only defaults and the environment apply.
func resetFlags(t *testing.T) {
	t.Helper()
	configPaths = []string{filepath.Join(t.TempDir(), "leaf.yaml")}
	verbose, quiet, jsonOut, noColor = false, false, false, true
	color.NoColor = true

	formatLegacy, formatRaw = false, false
	probeKeys, probeRemove, probeSeed, probeHasher, probeReinsert = 1000, 0.25, 1, "strings", false
	allocAllocator, allocSizeClasses = "", ""
	allocStrings, allocMaps, allocLeak = 200, 10, 0
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// decodeJSON unmarshals command output into v
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
