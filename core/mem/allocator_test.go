package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leafassert "github.com/leafengine/leafcore/core/assert"
)

// reportMode switches assertions to ModeReport and collects failures.
func reportMode(t *testing.T) *[]*leafassert.Failure {
	t.Helper()
	var got []*leafassert.Failure
	prevMode := leafassert.SetMode(leafassert.ModeReport)
	prevHandler := leafassert.SetHandler(func(f *leafassert.Failure) { got = append(got, f) })
	t.Cleanup(func() {
		leafassert.SetMode(prevMode)
		leafassert.SetHandler(prevHandler)
	})
	return &got
}

func TestCompatible(t *testing.T) {
	trA, trB := NewTracker(), NewTracker()
	heapA, heapA2, heapB := NewHeap(trA), NewHeap(trA), NewHeap(trB)
	slab1, err := NewSlab(ConfigBalanced, nil)
	require.NoError(t, err)
	slab2, err := NewSlab(ConfigBalanced, nil)
	require.NoError(t, err)

	assert.True(t, Compatible(heapA, heapA2), "heaps sharing a tracker are interchangeable")
	assert.False(t, Compatible(heapA, heapB), "heaps with different trackers are not")
	assert.True(t, Compatible(Untracked, UntrackedAllocator{}), "stateless allocators of one tag")
	assert.False(t, Compatible(heapA, Untracked), "different IDs")
	assert.True(t, Compatible(slab1, slab1))
	assert.False(t, Compatible(slab1, slab2))
	assert.True(t, Compatible(nil, nil))
	assert.False(t, Compatible(heapA, nil))
}

func TestHeap_AllocateFreeTracksSites(t *testing.T) {
	tr := NewTracker()
	h := NewHeap(tr)

	site := Here(0)
	require.Contains(t, site.File, "allocator_test.go")
	require.Contains(t, site.Function, "TestHeap_AllocateFreeTracksSites")

	a := h.AllocateTagged(32, site)
	b := h.AllocateTagged(64, site)
	require.Len(t, a, 32)
	require.Len(t, b, 64)
	require.Nil(t, h.Allocate(0), "zero-size requests return nil")

	totals := tr.Totals()
	require.Equal(t, uint64(2), totals.Allocations)
	require.Equal(t, int64(96), totals.LiveBytes)
	require.Equal(t, 2, totals.LiveBlocks)

	h.Free(a)
	sites := tr.Sites()
	require.Len(t, sites, 1)
	require.Equal(t, uint64(2), sites[0].Allocations)
	require.Equal(t, uint64(1), sites[0].Frees)
	require.Equal(t, int64(64), sites[0].LiveBytes)
	require.Equal(t, int64(96), sites[0].PeakBytes)

	leaks := tr.Leaks()
	require.Len(t, leaks, 1)
	require.Equal(t, 64, leaks[0].Size)
	require.Equal(t, site, leaks[0].Site)

	h.Free(b)
	require.Empty(t, tr.Leaks())
	require.Equal(t, int64(0), tr.Totals().LiveBytes)
}

func TestHeap_FreeForeignBlockIsViolation(t *testing.T) {
	got := reportMode(t)
	h := NewHeap(nil)

	h.Free(make([]byte, 16))
	require.Len(t, *got, 1)

	block := h.Allocate(16)
	h.Free(block[:8])
	require.Len(t, *got, 2, "freeing with a different size is a violation")
	h.Free(block)
	require.Len(t, *got, 2)
}

func TestHeap_FreePanicsByDefault(t *testing.T) {
	prev := leafassert.SetMode(leafassert.ModePanic)
	prevHandler := leafassert.SetHandler(func(*leafassert.Failure) {})
	defer func() {
		leafassert.SetMode(prev)
		leafassert.SetHandler(prevHandler)
	}()

	h := NewHeap(nil)
	require.Panics(t, func() { h.Free(make([]byte, 4)) })
}

func TestUntracked_NoBookkeeping(t *testing.T) {
	block := Untracked.Allocate(10)
	require.Len(t, block, 10)
	Untracked.Free(block)
	Untracked.Free(make([]byte, 3))
}

func TestParse(t *testing.T) {
	tr := NewTracker()
	for _, name := range []string{"", "heap", "untracked", "slab", "page"} {
		a, err := Parse(name, ConfigCoarse, tr)
		require.NoError(t, err, name)
		require.NotNil(t, a, name)
	}
	_, err := Parse("arena", ConfigCoarse, tr)
	require.ErrorIs(t, err, ErrUnknownAllocator)
}

func TestSetDefault(t *testing.T) {
	slab, err := NewSlab(ConfigFineGrained, nil)
	require.NoError(t, err)

	prev := SetDefault(slab)
	require.Same(t, slab, Default())
	require.Same(t, slab, OrDefault(nil))
	require.Equal(t, Untracked, OrDefault(Untracked))

	SetDefault(nil)
	require.Equal(t, HeapID, Default().ID())
	SetDefault(prev)
}

func TestID_String(t *testing.T) {
	require.Equal(t, "heap", HeapID.String())
	require.Equal(t, "untracked", UntrackedID.String())
	require.Equal(t, "slab", SlabID.String())
	require.Equal(t, "page", PageID.String())
	require.Equal(t, "allocator(9)", ID(9).String())
}
