package mem

import (
	"cmp"
	"slices"
	"sync"
	"unsafe"
)

// Block is one live allocation known to a Tracker.
type Block struct {
	Addr uintptr
	Size int
	Site Site
}

// SiteStats aggregates the allocations made from one call site.
type SiteStats struct {
	Site        Site
	Allocations uint64
	Frees       uint64
	LiveBytes   int64
	PeakBytes   int64
}

// Totals aggregates every site of a Tracker.
type Totals struct {
	Allocations uint64
	Frees       uint64
	LiveBlocks  int
	LiveBytes   int64
	PeakBytes   int64
}

type liveRecord struct {
	size int
	site Site
}

// Tracker records live blocks and per-site statistics. It is safe for
// concurrent use. Live blocks are held by pointer, so a block that is never
// freed stays reachable and shows up in Leaks.
type Tracker struct {
	mu     sync.Mutex
	live   map[unsafe.Pointer]liveRecord
	sites  map[Site]*SiteStats
	totals Totals
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		live:  make(map[unsafe.Pointer]liveRecord),
		sites: make(map[Site]*SiteStats),
	}
}

// Record registers a live block of size bytes at p.
func (t *Tracker) Record(p unsafe.Pointer, size int, site Site) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.live[p] = liveRecord{size: size, site: site}

	st := t.sites[site]
	if st == nil {
		st = &SiteStats{Site: site}
		t.sites[site] = st
	}
	st.Allocations++
	st.LiveBytes += int64(size)
	st.PeakBytes = max(st.PeakBytes, st.LiveBytes)

	t.totals.Allocations++
	t.totals.LiveBlocks++
	t.totals.LiveBytes += int64(size)
	t.totals.PeakBytes = max(t.totals.PeakBytes, t.totals.LiveBytes)
}

// Forget unregisters the block at p. It returns false, leaving the tracker
// unchanged, when p is not live or was recorded with a different size.
func (t *Tracker) Forget(p unsafe.Pointer, size int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.live[p]
	if !ok || rec.size != size {
		return false
	}
	delete(t.live, p)

	if st := t.sites[rec.site]; st != nil {
		st.Frees++
		st.LiveBytes -= int64(size)
	}
	t.totals.Frees++
	t.totals.LiveBlocks--
	t.totals.LiveBytes -= int64(size)
	return true
}

// Owns reports whether p is a live block of this tracker.
func (t *Tracker) Owns(p unsafe.Pointer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.live[p]
	return ok
}

// Leaks returns every live block, largest first.
func (t *Tracker) Leaks() []Block {
	t.mu.Lock()
	out := make([]Block, 0, len(t.live))
	for p, rec := range t.live {
		out = append(out, Block{Addr: uintptr(p), Size: rec.size, Site: rec.site})
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b Block) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Addr, b.Addr)
	})
	return out
}

// Sites returns a snapshot of per-site statistics ordered by live bytes.
func (t *Tracker) Sites() []SiteStats {
	t.mu.Lock()
	out := make([]SiteStats, 0, len(t.sites))
	for _, st := range t.sites {
		out = append(out, *st)
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b SiteStats) int {
		if c := cmp.Compare(b.LiveBytes, a.LiveBytes); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Site.File, b.Site.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Site.Line, b.Site.Line)
	})
	return out
}

// Totals returns the aggregate counters.
func (t *Tracker) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals
}

// Reset drops every live block and statistic.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.live)
	clear(t.sites)
	t.totals = Totals{}
}
