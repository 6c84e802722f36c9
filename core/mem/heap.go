package mem

import (
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
)

// HeapAllocator serves blocks from the GC heap and records every block in a
// Tracker. Freeing a block the tracker does not know is a contract violation.
type HeapAllocator struct {
	tracker *Tracker
}

// NewHeap returns a heap allocator recording into tr. A nil tr gets a private
// tracker.
func NewHeap(tr *Tracker) *HeapAllocator {
	if tr == nil {
		tr = NewTracker()
	}
	return &HeapAllocator{tracker: tr}
}

func (h *HeapAllocator) ID() ID { return HeapID }

// Tracker returns the tracker this allocator records into.
func (h *HeapAllocator) Tracker() *Tracker { return h.tracker }

// Equal reports whether other is a heap allocator sharing the same tracker.
func (h *HeapAllocator) Equal(other Allocator) bool {
	o, ok := other.(*HeapAllocator)
	return ok && o.tracker == h.tracker
}

func (h *HeapAllocator) Allocate(size int) []byte {
	return h.AllocateTagged(size, Site{})
}

func (h *HeapAllocator) AllocateTagged(size int, site Site) []byte {
	if !assert.That(size >= 0, "allocation size must not be negative") || size == 0 {
		return nil
	}
	block := make([]byte, size)
	h.tracker.Record(blockPtr(block), size, site)
	return block
}

func (h *HeapAllocator) Free(block []byte) {
	if len(block) == 0 {
		return
	}
	assert.That(h.tracker.Forget(blockPtr(block), len(block)),
		"freed block was not allocated by this heap allocator")
}

func (h *HeapAllocator) Account(p unsafe.Pointer, size int, site Site) {
	if p == nil || size == 0 {
		return
	}
	h.tracker.Record(p, size, site)
}

func (h *HeapAllocator) Unaccount(p unsafe.Pointer, size int) {
	if p == nil || size == 0 {
		return
	}
	assert.That(h.tracker.Forget(p, size), "unaccounted storage was not accounted by this heap allocator")
}

// UntrackedAllocator serves GC memory without bookkeeping. Free is a no-op.
type UntrackedAllocator struct{}

// Untracked is the shared untracked allocator.
var Untracked = UntrackedAllocator{}

func (UntrackedAllocator) ID() ID { return UntrackedID }

func (u UntrackedAllocator) Allocate(size int) []byte {
	return u.AllocateTagged(size, Site{})
}

func (UntrackedAllocator) AllocateTagged(size int, _ Site) []byte {
	if !assert.That(size >= 0, "allocation size must not be negative") || size == 0 {
		return nil
	}
	return make([]byte, size)
}

func (UntrackedAllocator) Free([]byte) {}

func (UntrackedAllocator) Account(unsafe.Pointer, int, Site) {}

func (UntrackedAllocator) Unaccount(unsafe.Pointer, int) {}

var (
	_ Managed = (*HeapAllocator)(nil)
	_ Managed = UntrackedAllocator{}
)
