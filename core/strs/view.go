package strs

import (
	"bytes"
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/internal/buf"
)

// NotFound is returned by Find when the substring does not occur.
const NotFound = -1

// ToEnd selects the end of the string as a Substring bound.
const ToEnd = -1

// Direction selects where Find starts scanning.
type Direction uint8

const (
	FromStart Direction = iota
	FromEnd
)

// Case selects how Find compares bytes.
type Case uint8

const (
	CaseSensitive Case = iota
	IgnoreCase // ASCII letters only
)

// FindOptions restricts a search to [Start, End). A zero End means the end of
// the string, so the zero value searches everything forward, case-sensitive.
type FindOptions struct {
	Start     int
	End       int
	Direction Direction
	Case      Case
}

// View is a borrowed byte window.
type View struct {
	b []byte
}

// ViewOf views the bytes of s without copying. The view must not be written
// through.
func ViewOf(s string) View {
	return View{b: unsafe.Slice(unsafe.StringData(s), len(s))}
}

// ViewBytes views b without copying.
func ViewBytes(b []byte) View {
	return View{b: b}
}

func (v View) Len() int       { return len(v.b) }
func (v View) IsEmpty() bool  { return len(v.b) == 0 }
func (v View) Bytes() []byte  { return v.b }
func (v View) String() string { return string(v.b) }

// At returns the byte at index i.
func (v View) At(i int) byte {
	if !assert.That(i >= 0 && i < len(v.b), "view index is out of range") {
		return 0
	}
	return v.b[i]
}

// Substring returns the window [start, end). end may be ToEnd.
func (v View) Substring(start, end int) View {
	if end == ToEnd {
		end = len(v.b)
	}
	if !assert.That(buf.InRange(len(v.b), start, end), "substring range is out of bounds") {
		return View{}
	}
	return View{b: v.b[start:end:end]}
}

// Equal reports byte-wise equality.
func (v View) Equal(o View) bool {
	return bytes.Equal(v.b, o.b)
}

// EqualFold reports equality ignoring ASCII case.
func (v View) EqualFold(o View) bool {
	if len(v.b) != len(o.b) {
		return false
	}
	for i := range v.b {
		if lowerASCII(v.b[i]) != lowerASCII(o.b[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether v begins with p.
func (v View) HasPrefix(p View) bool {
	return bytes.HasPrefix(v.b, p.b)
}

// Find returns the index of sub inside the window described by opts, or
// NotFound. An empty sub matches at the start of the window (or its end when
// searching FromEnd).
func (v View) Find(sub View, opts FindOptions) int {
	end := opts.End
	if end == 0 {
		end = len(v.b)
	}
	if !assert.That(buf.InRange(len(v.b), opts.Start, end), "search range is out of bounds") {
		return NotFound
	}
	n := len(sub.b)
	if n > end-opts.Start {
		return NotFound
	}

	last := end - n
	if opts.Direction == FromStart {
		for i := opts.Start; i <= last; i++ {
			if matchAt(v.b[i:i+n], sub.b, opts.Case) {
				return i
			}
		}
		return NotFound
	}
	for i := last; i >= opts.Start; i-- {
		if matchAt(v.b[i:i+n], sub.b, opts.Case) {
			return i
		}
	}
	return NotFound
}

func matchAt(window, sub []byte, c Case) bool {
	if c == CaseSensitive {
		return bytes.Equal(window, sub)
	}
	for i := range sub {
		if lowerASCII(window[i]) != lowerASCII(sub[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// overlaps reports whether a and b share backing memory.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return a0 < b0+uintptr(len(b)) && b0 < a0+uintptr(len(a))
}
