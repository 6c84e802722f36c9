// Package engine brings the core services up and down in a fixed order:
// allocation tracking, the default allocator, string defaults, logging,
// assertion reporting and metrics. Shutdown reverses it and reports leaks.
package engine

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/logger"
	"github.com/leafengine/leafcore/core/mem"
	"github.com/leafengine/leafcore/core/strs"
	"github.com/leafengine/leafcore/internal/config"
	"github.com/leafengine/leafcore/internal/memstats"
)

const tag = "CORE"

var running atomic.Bool

// Option adjusts Initialize.
type Option func(*options)

type options struct {
	out      io.Writer
	registry *prometheus.Registry
}

// WithOutput sends log output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// Engine owns the process-wide core services between Initialize and
// Shutdown.
type Engine struct {
	settings  config.Settings
	tracker   *mem.Tracker
	alloc     mem.Allocator
	log       *logger.Logger
	registry  *prometheus.Registry
	collector *memstats.Collector

	prevLogger  *logger.Logger
	prevAlloc   mem.Allocator
	prevGrowth  strs.GrowthPolicy
	prevMode    assert.Mode
	prevHandler assert.Handler
}

// Report is what Shutdown found still allocated.
type Report struct {
	Leaks  []mem.Block
	Totals mem.Totals
}

// Initialize validates cfg and installs the configured services. Only one
// engine may run at a time.
func Initialize(cfg config.Config, opts ...Option) (*Engine, error) {
	s, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	if !running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInitialized
	}

	e := &Engine{settings: s}
	if s.Track {
		e.tracker = mem.NewTracker()
	}
	switch {
	case !s.Track && s.Allocator == "heap":
		e.alloc = mem.Untracked
	default:
		if e.alloc, err = mem.Parse(s.Allocator, s.SizeClasses, e.tracker); err != nil {
			running.Store(false)
			return nil, err
		}
	}

	e.prevAlloc = mem.SetDefault(e.alloc)
	e.prevGrowth = strs.SetDefaultGrowth(s.Growth)

	e.log = logger.New(o.out, logger.Options{Level: s.LogLevel, Color: s.LogColor, Markers: s.Markers})
	e.prevLogger = logger.L
	logger.L = e.log

	e.prevMode = assert.SetMode(s.AssertMode)
	e.prevHandler = assert.SetHandler(e.log.AssertionHandler())

	if s.Metrics {
		e.registry = o.registry
		if e.registry == nil {
			e.registry = prometheus.NewRegistry()
		}
		e.collector = memstats.New(s.Namespace, e.tracker, memstats.WithAllocator(e.alloc))
		if err := e.registry.Register(e.collector); err != nil {
			e.teardown()
			return nil, err
		}
	}

	e.log.Submitf(logger.LevelInfo, tag, "engine initialized: allocator={} track={} assert={}", s.Allocator, s.Track, s.AssertMode.String())
	return e, nil
}

// Allocator returns the default allocator installed by Initialize.
func (e *Engine) Allocator() mem.Allocator { return e.alloc }

// Tracker returns the allocation tracker, or nil when tracking is off.
func (e *Engine) Tracker() *mem.Tracker { return e.tracker }

// Logger returns the engine logger.
func (e *Engine) Logger() *logger.Logger { return e.log }

// Registry returns the metrics registry, or nil when metrics are off.
func (e *Engine) Registry() *prometheus.Registry { return e.registry }

// Settings returns the resolved configuration.
func (e *Engine) Settings() config.Settings { return e.settings }

// Shutdown logs every leaked block, restores the services that were in place
// before Initialize and returns what was still allocated.
func (e *Engine) Shutdown() (Report, error) {
	if e.log == nil {
		return Report{}, ErrNotRunning
	}

	var r Report
	if e.tracker != nil {
		r.Leaks = e.tracker.Leaks()
		r.Totals = e.tracker.Totals()
		for _, b := range r.Leaks {
			e.log.Submitf(logger.LevelWarn, tag, "leaked {} bytes at {}", b.Size, b.Site.String())
		}
		if len(r.Leaks) > 0 {
			e.log.Submitf(logger.LevelError, tag, "{} blocks ({} bytes) still allocated at shutdown", len(r.Leaks), r.Totals.LiveBytes)
		}
	}
	e.log.Info(tag, "engine shut down")
	e.teardown()
	return r, nil
}

func (e *Engine) teardown() {
	if e.collector != nil {
		e.registry.Unregister(e.collector)
	}
	assert.SetHandler(e.prevHandler)
	assert.SetMode(e.prevMode)
	logger.L = e.prevLogger
	strs.SetDefaultGrowth(e.prevGrowth)
	mem.SetDefault(e.prevAlloc)
	if s, ok := e.alloc.(*mem.SlabAllocator); ok {
		s.Trim()
	}
	e.log = nil
	running.Store(false)
}
