package mem

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"
)

// ID tags an allocator type.
type ID uint8

const (
	HeapID      ID = 1
	UntrackedID ID = 2
	SlabID      ID = 3
	PageID      ID = 4
)

// String returns the allocator name used in configuration and reports.
func (id ID) String() string {
	switch id {
	case HeapID:
		return "heap"
	case UntrackedID:
		return "untracked"
	case SlabID:
		return "slab"
	case PageID:
		return "page"
	default:
		return fmt.Sprintf("allocator(%d)", uint8(id))
	}
}

// Allocator hands out and takes back byte blocks.
type Allocator interface {
	ID() ID

	// Allocate returns a zeroed block of exactly size bytes. A zero size
	// returns nil.
	Allocate(size int) []byte

	// AllocateTagged is Allocate with the requesting call site attached.
	AllocateTagged(size int, site Site) []byte

	// Free returns a block obtained from this allocator. Freeing nil is a no-op.
	Free(block []byte)
}

// Equaler is implemented by stateful allocators whose instances are not
// interchangeable.
type Equaler interface {
	Equal(other Allocator) bool
}

// Managed allocators hand out GC memory and can account for typed storage
// they did not carve themselves.
type Managed interface {
	Allocator
	Account(p unsafe.Pointer, size int, site Site)
	Unaccount(p unsafe.Pointer, size int)
}

// Compatible reports whether memory obtained from a may be released through b.
func Compatible(a, b Allocator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.ID() != b.ID() {
		return false
	}
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	return true
}

// Site identifies the code that requested an allocation.
type Site struct {
	File     string
	Function string
	Line     int
}

// Here captures the caller's site. skip counts additional frames above the
// caller of Here.
func Here(skip int) Site {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{}
	}
	s := Site{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		s.Function = fn.Name()
	}
	return s
}

// IsZero reports whether the site is unknown.
func (s Site) IsZero() bool {
	return s == Site{}
}

func (s Site) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d (%s)", s.File, s.Line, s.Function)
}

var (
	defaultMu      sync.RWMutex
	defaultTracker = NewTracker()
	defaultAlloc   Allocator = NewHeap(defaultTracker)
)

// Default returns the process-wide allocator used when a container is
// created without one.
func Default() Allocator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAlloc
}

// SetDefault replaces the process-wide allocator and returns the previous
// one. A nil a restores the tracked heap.
func SetDefault(a Allocator) Allocator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultAlloc
	if a == nil {
		a = NewHeap(defaultTracker)
	}
	defaultAlloc = a
	return prev
}

// DefaultTracker returns the tracker behind the default heap allocator.
func DefaultTracker() *Tracker {
	return defaultTracker
}

// OrDefault returns a, or Default() when a is nil.
func OrDefault(a Allocator) Allocator {
	if a == nil {
		return Default()
	}
	return a
}

// AllocatorNames lists the names Parse accepts.
var AllocatorNames = []string{"heap", "untracked", "slab", "page"}

// Parse builds an allocator by configuration name. Slab allocators use cfg;
// tracked allocators record into tr.
func Parse(name string, cfg SizeClassConfig, tr *Tracker) (Allocator, error) {
	switch name {
	case "", "heap":
		return NewHeap(tr), nil
	case "untracked":
		return Untracked, nil
	case "slab":
		return NewSlab(cfg, tr)
	case "page":
		return NewPage(tr), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAllocator, name)
	}
}

func blockPtr(block []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(block))
}
