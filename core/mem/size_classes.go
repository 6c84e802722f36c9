package mem

import (
	"fmt"
	"math"
	"sort"
)

// SizeClassConfig defines the slab size class strategy.
type SizeClassConfig struct {
	// Name for this configuration (for reports and configuration)
	Name string

	// Small block settings (linear increments)
	SmallMin       int // Smallest class size (typically 8)
	SmallMax       int // Largest linear class
	SmallIncrement int // Step between linear classes (8, 16, or 32)

	// Medium block settings (geometric growth)
	MediumMax    int     // Largest pooled block; bigger requests bypass the free-lists
	GrowthFactor float64 // Growth between medium classes (1.5, 2.0, etc.)
}

// Predefined configurations.
var (
	// FineGrained: many small classes, least internal waste.
	ConfigFineGrained = SizeClassConfig{
		Name:           "fine",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced: good balance between free-list count and granularity.
	ConfigBalanced = SizeClassConfig{
		Name:           "balanced",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse: few classes, more internal fragmentation.
	ConfigCoarse = SizeClassConfig{
		Name:           "coarse",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// Default configuration (used if none specified).
	DefaultSizeClasses = ConfigBalanced
)

// SizeClassPreset looks up a predefined configuration by name.
func SizeClassPreset(name string) (SizeClassConfig, bool) {
	switch name {
	case "", ConfigBalanced.Name:
		return ConfigBalanced, true
	case ConfigFineGrained.Name:
		return ConfigFineGrained, true
	case ConfigCoarse.Name:
		return ConfigCoarse, true
	default:
		return SizeClassConfig{}, false
	}
}

// Validate checks that the configuration yields a usable, 8-byte aligned
// class table.
func (c SizeClassConfig) Validate() error {
	switch {
	case c.SmallMin <= 0 || c.SmallMin%8 != 0:
		return fmt.Errorf("%w: SmallMin %d must be a positive multiple of 8", ErrBadSizeClasses, c.SmallMin)
	case c.SmallIncrement <= 0 || c.SmallIncrement%8 != 0:
		return fmt.Errorf("%w: SmallIncrement %d must be a positive multiple of 8", ErrBadSizeClasses, c.SmallIncrement)
	case c.SmallMax < c.SmallMin:
		return fmt.Errorf("%w: SmallMax %d below SmallMin %d", ErrBadSizeClasses, c.SmallMax, c.SmallMin)
	case c.MediumMax%8 != 0:
		return fmt.Errorf("%w: MediumMax %d must be a multiple of 8", ErrBadSizeClasses, c.MediumMax)
	case c.MediumMax < c.SmallMax:
		return fmt.Errorf("%w: MediumMax %d below SmallMax %d", ErrBadSizeClasses, c.MediumMax, c.SmallMax)
	case c.MediumMax > c.SmallMax && c.GrowthFactor <= 1:
		return fmt.Errorf("%w: GrowthFactor %.2f must exceed 1", ErrBadSizeClasses, c.GrowthFactor)
	}
	return nil
}

// sizeClassTable holds the computed class sizes in ascending order.
type sizeClassTable struct {
	config SizeClassConfig
	sizes  []int
}

// newSizeClassTable computes class sizes from a validated config.
func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	table := &sizeClassTable{
		config: config,
		sizes:  make([]int, 0, 64),
	}

	// Phase 1: linear small classes
	size := config.SmallMin
	for ; size <= config.SmallMax; size += config.SmallIncrement {
		table.sizes = append(table.sizes, size)
	}
	size -= config.SmallIncrement

	// Phase 2: geometric medium classes, rounded to 8 bytes
	for size < config.MediumMax {
		next := int(math.Ceil(float64(size) * config.GrowthFactor))
		next = (next + 7) &^ 7
		if next <= size {
			next = size + 8
		}
		next = min(next, config.MediumMax)
		table.sizes = append(table.sizes, next)
		size = next
	}
	return table
}

// classFor returns the index of the smallest class holding size bytes.
// Returns numClasses() for sizes above the largest class.
func (t *sizeClassTable) classFor(size int) int {
	return sort.SearchInts(t.sizes, size)
}

// classSize returns the block size of class idx.
func (t *sizeClassTable) classSize(idx int) int {
	return t.sizes[idx]
}

func (t *sizeClassTable) numClasses() int {
	return len(t.sizes)
}

func (t *sizeClassTable) String() string {
	return t.config.Name
}
