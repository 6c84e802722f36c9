package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type vec3 struct{ X, Y, Z float32 }

type named struct {
	Name string
	N    int
}

func TestPointerFree(t *testing.T) {
	require.True(t, PointerFree[int]())
	require.True(t, PointerFree[vec3]())
	require.True(t, PointerFree[[4]uint64]())
	require.True(t, PointerFree[struct{}]())
	require.False(t, PointerFree[string]())
	require.False(t, PointerFree[*int]())
	require.False(t, PointerFree[named]())
	require.False(t, PointerFree[[]byte]())
	require.False(t, PointerFree[map[int]int]())
	require.False(t, PointerFree[[2]any]())
}

func TestMakeSlice_PointerFreeUsesAllocatorMemory(t *testing.T) {
	s, err := NewSlab(ConfigBalanced, nil)
	require.NoError(t, err)

	v := MakeSlice[vec3](s, 10, Here(0))
	require.Len(t, v, 10)
	v[9] = vec3{1, 2, 3}
	require.Equal(t, 1, s.Stats().Live, "one raw block backs the slice")

	FreeSlice(s, v)
	require.Equal(t, 0, s.Stats().Live)
	require.Equal(t, 1, s.Stats().Pooled)
}

func TestMakeSlice_PointerTypesAreAccounted(t *testing.T) {
	tr := NewTracker()
	h := NewHeap(tr)

	v := MakeSlice[named](h, 3, Here(0))
	require.Len(t, v, 3)
	v[0].Name = "leaf"

	leaks := tr.Leaks()
	require.Len(t, leaks, 1)
	require.Equal(t, 3*int(unsafe.Sizeof(named{})), leaks[0].Size)

	FreeSlice(h, v)
	require.Empty(t, tr.Leaks())
}

func TestNewDelete(t *testing.T) {
	tr := NewTracker()
	h := NewHeap(tr)

	p := New[uint64](h, Here(0))
	*p = 42
	require.Len(t, tr.Leaks(), 1)
	Delete(h, p)
	require.Empty(t, tr.Leaks())

	e := New[struct{}](h, Here(0))
	require.NotNil(t, e)
	Delete(h, e)
	Delete[int](h, nil)
}

func TestMakeSlice_NilAllocatorUsesDefault(t *testing.T) {
	before := DefaultTracker().Totals().Allocations
	v := MakeSlice[int32](nil, 4, Here(0))
	require.Len(t, v, 4)
	require.Equal(t, before+1, DefaultTracker().Totals().Allocations)
	FreeSlice[int32](nil, v)
}

func TestMakeSlice_Empty(t *testing.T) {
	require.Nil(t, MakeSlice[int](Untracked, 0, Site{}))
	FreeSlice[int](Untracked, nil)
}
