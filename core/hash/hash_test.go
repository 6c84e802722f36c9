package hash

import (
	"math"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

func TestInts_BitPattern(t *testing.T) {
	require.Equal(t, uint64(42), Ints[int]().Hash(42))
	require.Equal(t, uint64(0xFF), Ints[int8]().Hash(-1), "no sign extension")
	require.Equal(t, uint64(0xFFFF), Ints[int16]().Hash(-1))
	require.Equal(t, uint64(0xFFFFFFFF), Ints[int32]().Hash(-1))
	require.Equal(t, uint64(math.MaxUint64), Ints[int64]().Hash(-1))
	require.Equal(t, uint64(7), Ints[uint16]().Hash(7))

	type entityID uint32
	require.Equal(t, uint64(9), Ints[entityID]().Hash(9))
}

func TestFloats(t *testing.T) {
	h := Floats[float64]()
	require.Equal(t, math.Float64bits(1.5), h.Hash(1.5))
	require.Equal(t, h.Hash(0), h.Hash(math.Copysign(0, -1)), "-0 and +0 compare equal so hash equal")
	require.Equal(t, uint64(math.Float32bits(2.25)), Floats[float32]().Hash(2.25))
}

func TestPointers(t *testing.T) {
	a, b := new(int), new(int)
	h := Pointers[int]()
	require.Equal(t, h.Hash(a), h.Hash(a))
	require.NotEqual(t, h.Hash(a), h.Hash(b))
	require.Zero(t, h.Hash(nil))
}

func TestStrings(t *testing.T) {
	h := Strings[string]()
	require.Equal(t, xxhash.Sum64String("leaf"), h.Hash("leaf"))
	require.NotEqual(t, h.Hash("leaf"), h.Hash("Leaf"))
}

func TestBytes(t *testing.T) {
	h := Bytes()
	a := []byte("engine")
	b := append([]byte(nil), a...)
	require.Equal(t, h.Hash(a), h.Hash(b), "content hash, not identity")
	require.NotEqual(t, h.Hash(a), h.Hash([]byte("Engine")))
	require.True(t, BytesEqual().Equal(a, b))
	require.False(t, BytesEqual().Equal(a, nil))
}

func TestComparable(t *testing.T) {
	type point struct{ X, Y int }
	h := Comparable[point]()
	require.Equal(t, h.Hash(point{1, 2}), h.Hash(point{1, 2}))
	require.NotEqual(t, h.Hash(point{1, 2}), h.Hash(point{2, 1}))
}

func TestDefault(t *testing.T) {
	require.Equal(t, uint64(5), Default[int]().Hash(5))
	require.Equal(t, uint64(5), Default[uint8]().Hash(5))
	require.Equal(t, math.Float64bits(0.5), Default[float64]().Hash(0.5))
	require.Equal(t, xxhash.Sum64String("x"), Default[string]().Hash("x"))

	type name string
	h := Default[name]()
	require.Equal(t, h.Hash("x"), h.Hash("x"))
}

func TestFuncAdaptors(t *testing.T) {
	h := HashFunc[string](func(s string) uint64 { return uint64(len(s)) })
	require.Equal(t, uint64(3), h.Hash("abc"))

	eq := EqualFunc[string](func(a, b string) bool { return len(a) == len(b) })
	require.True(t, eq.Equal("ab", "cd"))
	require.True(t, DefaultEqual[int]().Equal(3, 3))
	require.False(t, DefaultEqual[int]().Equal(3, 4))
}
