// Package config loads engine settings: defaults, then an optional YAML file,
// then LEAF_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/logger"
	"github.com/leafengine/leafcore/core/mem"
	"github.com/leafengine/leafcore/core/strs"
)

const envPrefix = "LEAF"

var (
	// ErrDecode indicates a configuration file that is not valid YAML for Config.
	ErrDecode = errors.New("config: cannot decode file")

	// ErrEnv indicates an environment override that cannot be parsed.
	ErrEnv = errors.New("config: cannot process environment")

	// ErrInvalid wraps the aggregated validation errors.
	ErrInvalid = errors.New("config: invalid configuration")
)

type AssertConfig struct {
	Mode string `yaml:"mode"`
}

type MemoryConfig struct {
	Allocator   string `yaml:"allocator"`
	SizeClasses string `yaml:"size_classes" split_words:"true"`
	Track       bool   `yaml:"track"`
}

type StringsConfig struct {
	Growth  string `yaml:"growth"`
	Markers string `yaml:"markers"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Color bool   `yaml:"color"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Config is the engine configuration. Environment overrides are named
// LEAF_<SECTION>_<KEY>, e.g. LEAF_MEMORY_SIZE_CLASSES.
type Config struct {
	Assert  AssertConfig  `yaml:"assert"`
	Memory  MemoryConfig  `yaml:"memory"`
	Strings StringsConfig `yaml:"strings"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`

	// OriginalPath is the file the configuration was read from, if any.
	OriginalPath string `yaml:"-" ignored:"true"`
}

// Default is the configuration used when nothing overrides it.
var Default = Config{
	Assert:  AssertConfig{Mode: "panic"},
	Memory:  MemoryConfig{Allocator: "heap", SizeClasses: "balanced", Track: true},
	Strings: StringsConfig{Growth: "exact", Markers: "braces"},
	Log:     LogConfig{Level: "info"},
	Metrics: MetricsConfig{Namespace: "leaf"},
}

// Load fills conf from Default, the first existing file in paths and the
// environment, then validates the result. Missing files are skipped.
func Load(paths []string, conf *Config) error {
	*conf = Default
	for _, path := range paths {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		err = Decode(f, conf)
		f.Close()
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrDecode, path, err)
		}
		conf.OriginalPath = path
		break
	}
	if err := envconfig.Process(envPrefix, conf); err != nil {
		return fmt.Errorf("%w: %w", ErrEnv, err)
	}
	return conf.Validate()
}

// Decode overlays YAML from r onto conf. Unknown keys are rejected.
func Decode(r io.Reader, conf *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Settings is a validated Config in engine terms.
type Settings struct {
	AssertMode  assert.Mode
	Allocator   string
	SizeClasses mem.SizeClassConfig
	Track       bool
	Growth      strs.GrowthPolicy
	Markers     strs.Formatter
	LogLevel    logger.Level
	LogColor    bool
	Metrics     bool
	Namespace   string
}

// Resolve parses every key. All problems are reported together.
func (c *Config) Resolve() (Settings, error) {
	var (
		s    Settings
		errs *multierror.Error
		err  error
	)

	if s.AssertMode, err = assert.ParseMode(c.Assert.Mode); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("assert.mode: %w", err))
	}

	s.Allocator = strings.ToLower(strings.TrimSpace(c.Memory.Allocator))
	if s.Allocator == "" {
		s.Allocator = "heap"
	}
	if !slices.Contains(mem.AllocatorNames, s.Allocator) {
		errs = multierror.Append(errs, fmt.Errorf("memory.allocator: %w: %q", mem.ErrUnknownAllocator, c.Memory.Allocator))
	}

	var ok bool
	if s.SizeClasses, ok = mem.SizeClassPreset(c.Memory.SizeClasses); !ok {
		errs = multierror.Append(errs, fmt.Errorf("memory.size_classes: unknown preset %q", c.Memory.SizeClasses))
	}
	s.Track = c.Memory.Track

	if s.Growth, ok = strs.ParseGrowthPolicy(c.Strings.Growth); !ok {
		errs = multierror.Append(errs, fmt.Errorf("strings.growth: unknown policy %q", c.Strings.Growth))
	}
	if s.Markers, ok = strs.ParseMarkers(c.Strings.Markers); !ok {
		errs = multierror.Append(errs, fmt.Errorf("strings.markers: unknown markers %q", c.Strings.Markers))
	}

	if c.Log.Level == "" {
		s.LogLevel = logger.LevelInfo
	} else if s.LogLevel, err = logger.ParseLevel(c.Log.Level); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log.level: %w", err))
	}
	s.LogColor = c.Log.Color

	s.Metrics = c.Metrics.Enabled
	s.Namespace = c.Metrics.Namespace
	if s.Metrics && s.Namespace == "" {
		errs = multierror.Append(errs, errors.New("metrics.namespace: required when metrics are enabled"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return s, nil
}

// Validate reports every invalid key.
func (c *Config) Validate() error {
	_, err := c.Resolve()
	return err
}
