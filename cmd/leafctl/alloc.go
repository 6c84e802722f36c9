package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leafengine/leafcore/core/engine"
	"github.com/leafengine/leafcore/core/hashmap"
	"github.com/leafengine/leafcore/core/mem"
	"github.com/leafengine/leafcore/core/strs"
)

var (
	allocAllocator   string
	allocSizeClasses string
	allocStrings     int
	allocMaps        int
	allocLeak        int
)

func init() {
	cmd := newAllocCmd()
	cmd.Flags().StringVar(&allocAllocator, "allocator", "", "Override memory.allocator (heap, slab, page)")
	cmd.Flags().StringVar(&allocSizeClasses, "size-classes", "", "Override memory.size_classes (fine, balanced, coarse)")
	cmd.Flags().IntVar(&allocStrings, "strings", 200, "Number of strings to build")
	cmd.Flags().IntVar(&allocMaps, "maps", 10, "Number of hash maps to fill")
	cmd.Flags().IntVar(&allocLeak, "leak", 0, "Number of strings to deliberately leak")
	rootCmd.AddCommand(cmd)
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Run an allocation workload and report tracker statistics",
		Long: `The alloc command starts the engine with tracking and metrics enabled,
builds strings and hash maps on the default allocator, shuts the engine down
and reports allocation totals, per-site usage and leaks.

Example:
  leafctl alloc --allocator slab --size-classes fine
  leafctl alloc --leak 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc()
		},
	}
	return cmd
}

type allocResult struct {
	Allocator   string             `json:"allocator"`
	Allocations uint64             `json:"allocations"`
	Frees       uint64             `json:"frees"`
	PeakBytes   int64              `json:"peak_bytes"`
	Leaks       int                `json:"leaks"`
	LeakedBytes int64              `json:"leaked_bytes"`
	Sites       []siteResult       `json:"sites,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	Slab        *mem.SlabStats     `json:"slab,omitempty"`
}

type siteResult struct {
	Site        string `json:"site"`
	Allocations uint64 `json:"allocations"`
	PeakBytes   int64  `json:"peak_bytes"`
}

func runAlloc() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if allocAllocator != "" {
		cfg.Memory.Allocator = allocAllocator
	}
	if allocSizeClasses != "" {
		cfg.Memory.SizeClasses = allocSizeClasses
	}
	cfg.Memory.Track = true
	cfg.Metrics.Enabled = true
	if !verbose {
		cfg.Log.Level = "warn"
	}

	e, err := engine.Initialize(cfg, engine.WithOutput(os.Stderr))
	if err != nil {
		return err
	}

	buildStrings(allocStrings, allocLeak)
	fillMaps(allocMaps)

	res := allocResult{Allocator: e.Settings().Allocator, Metrics: gatherMetrics(e)}
	if slab, ok := e.Allocator().(*mem.SlabAllocator); ok {
		st := slab.Stats()
		res.Slab = &st
	}
	for _, s := range e.Tracker().Sites() {
		res.Sites = append(res.Sites, siteResult{Site: s.Site.String(), Allocations: s.Allocations, PeakBytes: s.PeakBytes})
	}

	report, err := e.Shutdown()
	if err != nil {
		return err
	}
	res.Allocations = report.Totals.Allocations
	res.Frees = report.Totals.Frees
	res.PeakBytes = report.Totals.PeakBytes
	res.Leaks = len(report.Leaks)
	res.LeakedBytes = report.Totals.LiveBytes

	if jsonOut {
		return printJSON(res)
	}
	printAllocResult(res)
	return nil
}

func buildStrings(n, leak int) {
	for i := range n {
		s := strs.Format("asset/{,4}/", i)
		for j := 0; j <= i%8; j++ {
			s.AppendString("segment/")
		}
		if i < leak {
			continue
		}
		s.Free()
	}
}

func fillMaps(n int) {
	for i := range n {
		m := hashmap.New[int, int](hashmap.WithCapacity(8))
		for k := range 64 * (i + 1) {
			m.Add(k, k*k)
		}
		for k := 0; k < m.Len(); k += 3 {
			m.RemoveIfExists(k)
		}
		m.Free()
	}
}

func gatherMetrics(e *engine.Engine) map[string]float64 {
	out := map[string]float64{}
	if e.Registry() == nil {
		return out
	}
	mfs, err := e.Registry().Gather()
	if err != nil {
		printVerbose("metrics: %v\n", err)
		return out
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out
}

func printAllocResult(res allocResult) {
	printInfo("allocator: %s\n", res.Allocator)
	printInfo("allocations: %d frees: %d peak: %d bytes\n", res.Allocations, res.Frees, res.PeakBytes)

	leaks := color.New(color.FgGreen).SprintFunc()
	if res.Leaks > 0 {
		leaks = color.New(color.FgRed, color.Bold).SprintFunc()
	}
	printInfo("leaks: %s\n", leaks(fmt.Sprintf("%d blocks, %d bytes", res.Leaks, res.LeakedBytes)))

	if res.Slab != nil {
		printInfo("slab: hits=%d misses=%d large=%d pooled=%d\n",
			res.Slab.Hits, res.Slab.Misses, res.Slab.Large, res.Slab.Pooled)
	}

	if verbose {
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printInfo("  %s %g\n", name, res.Metrics[name])
		}
		for _, s := range res.Sites {
			printInfo("  %s: %d allocations, peak %d bytes\n", s.Site, s.Allocations, s.PeakBytes)
		}
	}
}
