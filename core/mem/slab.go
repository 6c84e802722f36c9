package mem

import (
	"sync"
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
)

// SlabStats reports how a SlabAllocator served its requests.
type SlabStats struct {
	Classes int    // number of size classes
	Hits    uint64 // requests served from a free-list
	Misses  uint64 // requests that needed a fresh class block
	Large   uint64 // requests above the largest class
	Frees   uint64
	Pooled  int // blocks currently parked on free-lists
	Live    int // blocks currently handed out
}

// SlabAllocator recycles blocks through segregated free-lists, one per size
// class. Requests above the largest class are served directly and dropped on
// free. It is safe for concurrent use.
type SlabAllocator struct {
	mu      sync.Mutex
	table   *sizeClassTable
	free    [][]unsafe.Pointer
	live    map[unsafe.Pointer]int
	tracker *Tracker
	stats   SlabStats
}

// NewSlab builds a slab allocator over the classes of cfg. A non-nil tr also
// receives every live block.
func NewSlab(cfg SizeClassConfig, tr *Tracker) (*SlabAllocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table := newSizeClassTable(cfg)
	return &SlabAllocator{
		table:   table,
		free:    make([][]unsafe.Pointer, table.numClasses()),
		live:    make(map[unsafe.Pointer]int),
		tracker: tr,
		stats:   SlabStats{Classes: table.numClasses()},
	}, nil
}

func (s *SlabAllocator) ID() ID { return SlabID }

// Equal reports whether other is this very slab.
func (s *SlabAllocator) Equal(other Allocator) bool {
	o, ok := other.(*SlabAllocator)
	return ok && o == s
}

// Config returns the size class configuration.
func (s *SlabAllocator) Config() SizeClassConfig { return s.table.config }

// ClassSizes returns the block size of every class in ascending order.
func (s *SlabAllocator) ClassSizes() []int {
	return append([]int(nil), s.table.sizes...)
}

func (s *SlabAllocator) Allocate(size int) []byte {
	return s.AllocateTagged(size, Site{})
}

func (s *SlabAllocator) AllocateTagged(size int, site Site) []byte {
	if !assert.That(size >= 0, "allocation size must not be negative") || size == 0 {
		return nil
	}

	s.mu.Lock()
	var block []byte
	idx := s.table.classFor(size)
	switch {
	case idx == s.table.numClasses():
		s.stats.Large++
		block = make([]byte, size)
	case len(s.free[idx]) > 0:
		s.stats.Hits++
		n := len(s.free[idx]) - 1
		p := s.free[idx][n]
		s.free[idx][n] = nil
		s.free[idx] = s.free[idx][:n]
		s.stats.Pooled--
		block = unsafe.Slice((*byte)(p), size)
		clear(block)
	default:
		s.stats.Misses++
		block = make([]byte, s.table.classSize(idx))[:size:size]
	}
	p := blockPtr(block)
	s.live[p] = size
	s.stats.Live++
	s.mu.Unlock()

	if s.tracker != nil {
		s.tracker.Record(p, size, site)
	}
	return block
}

func (s *SlabAllocator) Free(block []byte) {
	if len(block) == 0 {
		return
	}
	p := blockPtr(block)

	s.mu.Lock()
	size, ok := s.live[p]
	if !assert.That(ok && size == len(block), "freed block was not allocated by this slab allocator") {
		s.mu.Unlock()
		return
	}
	delete(s.live, p)
	s.stats.Live--
	s.stats.Frees++
	if idx := s.table.classFor(size); idx < s.table.numClasses() {
		s.free[idx] = append(s.free[idx], p)
		s.stats.Pooled++
	}
	s.mu.Unlock()

	if s.tracker != nil {
		s.tracker.Forget(p, size)
	}
}

// Trim drops every pooled block so the GC can reclaim it.
func (s *SlabAllocator) Trim() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.free {
		clear(s.free[i])
		s.free[i] = s.free[i][:0]
	}
	s.stats.Pooled = 0
}

// Stats returns a snapshot of the allocator's counters.
func (s *SlabAllocator) Stats() SlabStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
