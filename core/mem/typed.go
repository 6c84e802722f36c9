package mem

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/internal/buf"
)

var pointerFreeCache sync.Map // reflect.Type -> bool

// PointerFree reports whether values of type T contain no pointers, which is
// what allows them to live in raw allocator memory.
func PointerFree[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := pointerFreeCache.Load(t); ok {
		return v.(bool)
	}
	free := typePointerFree(t)
	pointerFreeCache.Store(t, free)
	return free
}

func typePointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || typePointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !typePointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MakeSlice returns a zeroed slice of n values of T obtained through a.
// The slice must be released with FreeSlice on the same allocator and must
// not be grown with append.
func MakeSlice[T any](a Allocator, n int, site Site) []T {
	if !assert.That(n >= 0, "slice length must not be negative") || n == 0 {
		return nil
	}
	a = OrDefault(a)
	elem := int(unsafe.Sizeof(*new(T)))

	if elem == 0 || !PointerFree[T]() {
		s := make([]T, n)
		if m, ok := a.(Managed); ok && elem > 0 {
			m.Account(unsafe.Pointer(unsafe.SliceData(s)), n*elem, site)
		}
		return s
	}

	size, err := buf.ByteSize(n, elem)
	if !assert.That(err == nil, "typed allocation size overflows") {
		return nil
	}
	block := a.AllocateTagged(size, site)
	if block == nil {
		return nil
	}
	p := blockPtr(block)
	if !assert.That(uintptr(p)%unsafe.Alignof(*new(T)) == 0, "allocator returned a misaligned block") {
		a.Free(block)
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}

// FreeSlice releases a slice obtained from MakeSlice with the same allocator.
func FreeSlice[T any](a Allocator, s []T) {
	if len(s) == 0 {
		return
	}
	a = OrDefault(a)
	elem := int(unsafe.Sizeof(*new(T)))
	p := unsafe.Pointer(unsafe.SliceData(s))

	if elem == 0 || !PointerFree[T]() {
		if m, ok := a.(Managed); ok && elem > 0 {
			m.Unaccount(p, len(s)*elem)
		}
		return
	}
	a.Free(unsafe.Slice((*byte)(p), len(s)*elem))
}

// New returns a zeroed *T obtained through a.
func New[T any](a Allocator, site Site) *T {
	s := MakeSlice[T](a, 1, site)
	if s == nil {
		return new(T)
	}
	return &s[0]
}

// Delete releases a value obtained from New with the same allocator.
func Delete[T any](a Allocator, p *T) {
	if p == nil {
		return
	}
	if unsafe.Sizeof(*p) == 0 {
		return
	}
	FreeSlice(a, unsafe.Slice(p, 1))
}
