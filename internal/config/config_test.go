package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leafassert "github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/logger"
	"github.com/leafengine/leafcore/core/mem"
	"github.com/leafengine/leafcore/core/strs"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	var c Config
	require.NoError(t, Load(nil, &c))
	require.Equal(t, Default, c)

	s, err := c.Resolve()
	require.NoError(t, err)
	assert.Equal(t, leafassert.ModePanic, s.AssertMode)
	assert.Equal(t, "heap", s.Allocator)
	assert.Equal(t, mem.ConfigBalanced, s.SizeClasses)
	assert.True(t, s.Track)
	assert.Equal(t, strs.GrowExact, s.Growth)
	assert.Equal(t, strs.DefaultMarkers, s.Markers)
	assert.Equal(t, logger.LevelInfo, s.LogLevel)
	assert.False(t, s.Metrics)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
assert:
  mode: report
memory:
  allocator: slab
  size_classes: fine
strings:
  markers: legacy
log:
  level: debug
  color: true
`)
	var c Config
	require.NoError(t, Load([]string{filepath.Join(t.TempDir(), "missing.yaml"), path}, &c))
	require.Equal(t, path, c.OriginalPath)
	require.Equal(t, "slab", c.Memory.Allocator)
	require.True(t, c.Memory.Track, "keys absent from the file keep their defaults")
	require.Equal(t, "exact", c.Strings.Growth)

	s, err := c.Resolve()
	require.NoError(t, err)
	assert.Equal(t, leafassert.ModeReport, s.AssertMode)
	assert.Equal(t, mem.ConfigFineGrained, s.SizeClasses)
	assert.Equal(t, strs.LegacyMarkers, s.Markers)
	assert.Equal(t, logger.LevelDebug, s.LogLevel)
	assert.True(t, s.LogColor)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "memory:\n  size_classes: fine\nlog:\n  level: warn\n")
	t.Setenv("LEAF_MEMORY_SIZE_CLASSES", "coarse")
	t.Setenv("LEAF_MEMORY_TRACK", "false")
	t.Setenv("LEAF_STRINGS_GROWTH", "geometric")
	t.Setenv("LEAF_METRICS_ENABLED", "true")

	var c Config
	require.NoError(t, Load([]string{path}, &c))
	require.Equal(t, "coarse", c.Memory.SizeClasses)
	require.False(t, c.Memory.Track)
	require.Equal(t, "geometric", c.Strings.Growth)
	require.Equal(t, "warn", c.Log.Level, "file value survives without an override")
	require.True(t, c.Metrics.Enabled)
	require.Equal(t, "leaf", c.Metrics.Namespace)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeFile(t, "memory:\n  allocater: slab\n")
	var c Config
	err := Load([]string{path}, &c)
	require.ErrorIs(t, err, ErrDecode)
	require.Contains(t, err.Error(), path)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "")
	var c Config
	require.NoError(t, Load([]string{path}, &c))
	require.Equal(t, path, c.OriginalPath)
	c.OriginalPath = ""
	require.Equal(t, Default, c)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("LEAF_LOG_COLOR", "maybe")
	var c Config
	require.ErrorIs(t, Load(nil, &c), ErrEnv)
}

func TestResolve_ReportsEveryInvalidKey(t *testing.T) {
	c := Default
	c.Assert.Mode = "loud"
	c.Memory.Allocator = "arena"
	c.Memory.SizeClasses = "huge"
	c.Strings.Growth = "double"
	c.Strings.Markers = "angle"
	c.Log.Level = "verbose"
	c.Metrics.Enabled = true
	c.Metrics.Namespace = ""

	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, mem.ErrUnknownAllocator)
	for _, key := range []string{
		"assert.mode", "memory.allocator", "memory.size_classes", "strings.growth",
		"strings.markers", "log.level", "metrics.namespace",
	} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestResolve_NormalizesAllocatorName(t *testing.T) {
	c := Default
	c.Memory.Allocator = " Page "
	s, err := c.Resolve()
	require.NoError(t, err)
	require.Equal(t, "page", s.Allocator)
}
