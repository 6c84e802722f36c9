// Package hash provides the hashing and equality strategies used by
// hashmap.Map.
//
// A key type needs a Hasher and an Equaler that agree: keys that compare
// equal must hash equally. Integers and pointers hash to their bit pattern,
// floats to their IEEE-754 bits (with -0 folded into +0), strings through
// xxhash and byte slices through murmur3. Any other comparable type can use
// Comparable, which is seeded per process.
package hash

import (
	"bytes"
	"hash/maphash"
	"math"
	"unsafe"

	"github.com/TykTechnologies/murmur3"
	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to a 64-bit hash.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// Equaler decides key equality.
type Equaler[K any] interface {
	Equal(a, b K) bool
}

// HashFunc adapts a function to Hasher.
type HashFunc[K any] func(key K) uint64

func (f HashFunc[K]) Hash(key K) uint64 { return f(key) }

// EqualFunc adapts a function to Equaler.
type EqualFunc[K any] func(a, b K) bool

func (f EqualFunc[K]) Equal(a, b K) bool { return f(a, b) }

// Integer is the set of integer key types hashed by their bits.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of floating-point key types.
type Float interface {
	~float32 | ~float64
}

type intHasher[K Integer] struct{}

func (intHasher[K]) Hash(key K) uint64 {
	switch unsafe.Sizeof(key) {
	case 1:
		return uint64(*(*uint8)(unsafe.Pointer(&key)))
	case 2:
		return uint64(*(*uint16)(unsafe.Pointer(&key)))
	case 4:
		return uint64(*(*uint32)(unsafe.Pointer(&key)))
	default:
		return *(*uint64)(unsafe.Pointer(&key))
	}
}

// Ints hashes an integer key to its unsigned bit pattern, so negative keys
// are not sign-extended.
func Ints[K Integer]() Hasher[K] { return intHasher[K]{} }

type floatHasher[K Float] struct{}

func (floatHasher[K]) Hash(key K) uint64 {
	if key == 0 {
		return 0
	}
	if unsafe.Sizeof(key) == 4 {
		return uint64(math.Float32bits(float32(key)))
	}
	return math.Float64bits(float64(key))
}

// Floats hashes a float key to its IEEE-754 bits. NaN keys never compare
// equal and so are never found again.
func Floats[K Float]() Hasher[K] { return floatHasher[K]{} }

type ptrHasher[T any] struct{}

func (ptrHasher[T]) Hash(key *T) uint64 { return uint64(uintptr(unsafe.Pointer(key))) }

// Pointers hashes a pointer to its address.
func Pointers[T any]() Hasher[*T] { return ptrHasher[T]{} }

type stringHasher[K ~string] struct{}

func (stringHasher[K]) Hash(key K) uint64 { return xxhash.Sum64String(string(key)) }

// Strings hashes string contents with xxhash64.
func Strings[K ~string]() Hasher[K] { return stringHasher[K]{} }

type bytesHasher struct{}

func (bytesHasher) Hash(key []byte) uint64 {
	h := murmur3.New64()
	_, _ = h.Write(key)
	return h.Sum64()
}

// Bytes hashes byte-slice contents with murmur3.
func Bytes() Hasher[[]byte] { return bytesHasher{} }

// BytesEqual compares byte slices by content.
func BytesEqual() Equaler[[]byte] { return EqualFunc[[]byte](bytes.Equal) }

var seed = maphash.MakeSeed()

type comparableHasher[K comparable] struct{}

func (comparableHasher[K]) Hash(key K) uint64 { return maphash.Comparable(seed, key) }

// Comparable hashes any comparable key with the runtime's seeded hash. Values
// differ between processes.
func Comparable[K comparable]() Hasher[K] { return comparableHasher[K]{} }

type builtinEqual[K comparable] struct{}

func (builtinEqual[K]) Equal(a, b K) bool { return a == b }

// DefaultEqual compares keys with ==.
func DefaultEqual[K comparable]() Equaler[K] { return builtinEqual[K]{} }

// Default picks the strategy for K by its dynamic kind: bit patterns for
// integers and floats, xxhash for strings, Comparable for everything else.
func Default[K comparable]() Hasher[K] {
	var zero K
	var h any
	switch any(zero).(type) {
	case int:
		h = Ints[int]()
	case int8:
		h = Ints[int8]()
	case int16:
		h = Ints[int16]()
	case int32:
		h = Ints[int32]()
	case int64:
		h = Ints[int64]()
	case uint:
		h = Ints[uint]()
	case uint8:
		h = Ints[uint8]()
	case uint16:
		h = Ints[uint16]()
	case uint32:
		h = Ints[uint32]()
	case uint64:
		h = Ints[uint64]()
	case uintptr:
		h = Ints[uintptr]()
	case float32:
		h = Floats[float32]()
	case float64:
		h = Floats[float64]()
	case string:
		h = Strings[string]()
	default:
		return Comparable[K]()
	}
	return h.(Hasher[K])
}
