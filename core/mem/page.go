package mem

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/internal/buf"
)

// PageStats reports the mappings held by a PageAllocator.
type PageStats struct {
	Mappings    int
	MappedBytes int
}

// PageAllocator serves page-granular blocks. On unix systems every block is
// its own anonymous mapping and Free unmaps it; elsewhere blocks come from
// the GC heap rounded to whole pages. Memory from mappings is invisible to
// the collector, so it must only hold pointer-free data.
type PageAllocator struct {
	mu       sync.Mutex
	pageSize int
	live     map[unsafe.Pointer]int
	mapped   int
	tracker  *Tracker
}

// NewPage returns a page allocator. A non-nil tr receives every live block.
func NewPage(tr *Tracker) *PageAllocator {
	return &PageAllocator{
		pageSize: os.Getpagesize(),
		live:     make(map[unsafe.Pointer]int),
		tracker:  tr,
	}
}

func (pa *PageAllocator) ID() ID { return PageID }

// Equal reports whether other is this very page allocator.
func (pa *PageAllocator) Equal(other Allocator) bool {
	o, ok := other.(*PageAllocator)
	return ok && o == pa
}

// PageSize returns the granularity of mappings.
func (pa *PageAllocator) PageSize() int { return pa.pageSize }

func (pa *PageAllocator) Allocate(size int) []byte {
	return pa.AllocateTagged(size, Site{})
}

func (pa *PageAllocator) AllocateTagged(size int, site Site) []byte {
	block, err := pa.Map(size, site)
	if err != nil {
		assert.That(false, err.Error())
		return nil
	}
	return block
}

// Map is AllocateTagged with the mapping error returned instead of asserted.
func (pa *PageAllocator) Map(size int, site Site) ([]byte, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	if size == 0 {
		return nil, nil
	}
	rounded, ok := buf.RoundUp(size, pa.pageSize)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes overflows page rounding", ErrMapFailed, size)
	}
	region, err := mapPages(rounded)
	if err != nil {
		return nil, err
	}
	block := region[:size:size]
	p := blockPtr(block)

	pa.mu.Lock()
	pa.live[p] = size
	pa.mapped += rounded
	pa.mu.Unlock()

	if pa.tracker != nil {
		pa.tracker.Record(p, size, site)
	}
	return block, nil
}

func (pa *PageAllocator) Free(block []byte) {
	if err := pa.Unmap(block); err != nil {
		assert.That(false, err.Error())
	}
}

// Unmap is Free with the failure returned instead of asserted.
func (pa *PageAllocator) Unmap(block []byte) error {
	if len(block) == 0 {
		return nil
	}
	p := blockPtr(block)

	pa.mu.Lock()
	size, ok := pa.live[p]
	if !ok || size != len(block) {
		pa.mu.Unlock()
		return fmt.Errorf("%w: block was not mapped by this page allocator", ErrUnmapFailed)
	}
	rounded, _ := buf.RoundUp(size, pa.pageSize)
	delete(pa.live, p)
	pa.mapped -= rounded
	pa.mu.Unlock()

	if pa.tracker != nil {
		pa.tracker.Forget(p, size)
	}
	return unmapPages(unsafe.Slice((*byte)(p), rounded))
}

// Stats returns the current mapping counters.
func (pa *PageAllocator) Stats() PageStats {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	return PageStats{Mappings: len(pa.live), MappedBytes: pa.mapped}
}
