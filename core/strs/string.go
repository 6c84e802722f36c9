package strs

import (
	"unsafe"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/mem"
)

// SSOSize is the inline capacity of a String in bytes, terminator included.
const SSOSize = int(unsafe.Sizeof(uintptr(0))) + 8

// GrowthPolicy selects how a String sizes its heap block when it must grow.
type GrowthPolicy uint8

const (
	// GrowExact reallocates to exactly the required length plus terminator.
	GrowExact GrowthPolicy = iota
	// GrowGeometric at least doubles the capacity on every reallocation.
	GrowGeometric
)

func (g GrowthPolicy) String() string {
	if g == GrowGeometric {
		return "geometric"
	}
	return "exact"
}

// ParseGrowthPolicy maps a configuration name to a GrowthPolicy.
func ParseGrowthPolicy(s string) (GrowthPolicy, bool) {
	switch s {
	case "", "exact":
		return GrowExact, true
	case "geometric":
		return GrowGeometric, true
	default:
		return GrowExact, false
	}
}

var defaultGrowth GrowthPolicy

// SetDefaultGrowth sets the policy of strings created without WithGrowth and
// returns the previous one.
func SetDefaultGrowth(g GrowthPolicy) GrowthPolicy {
	prev := defaultGrowth
	defaultGrowth = g
	return prev
}

// String is an owned byte string with inline storage for short content.
// The zero value is an empty inline string using the default allocator and
// the default growth policy in effect when it first grows.
// A String must not be copied by value once it holds heap storage; use Clone
// or MoveFrom.
type String struct {
	inline [SSOSize]byte
	heap   []byte // full heap block, len is the capacity
	length int
	onHeap bool

	alloc  mem.Allocator
	growth GrowthPolicy
	fixed  bool // growth was chosen at construction
	site   mem.Site
}

// Option configures a String at construction.
type Option func(*String)

// WithAllocator selects the allocator for heap storage.
func WithAllocator(a mem.Allocator) Option {
	return func(s *String) { s.alloc = a }
}

// WithGrowth selects the growth policy.
func WithGrowth(g GrowthPolicy) Option {
	return func(s *String) { s.growth, s.fixed = g, true }
}

// New returns an empty string.
func New(opts ...Option) *String {
	return newString(opts)
}

// From returns a string holding a copy of str.
func From(str string, opts ...Option) *String {
	s := newString(opts)
	s.Append(ViewOf(str))
	return s
}

// FromView returns a string holding a copy of v.
func FromView(v View, opts ...Option) *String {
	s := newString(opts)
	s.Append(v)
	return s
}

func newString(opts []Option) *String {
	s := &String{growth: defaultGrowth, fixed: true, site: mem.Here(2)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of bytes, terminator excluded.
func (s *String) Len() int { return s.length }

// IsEmpty reports whether the string has no content.
func (s *String) IsEmpty() bool { return s.length == 0 }

// IsInline reports whether the content lives in the inline buffer.
func (s *String) IsInline() bool { return !s.onHeap }

// MaxSize returns how many bytes fit without reallocating.
func (s *String) MaxSize() int { return s.capacity() - 1 }

// Growth returns the growth policy.
func (s *String) Growth() GrowthPolicy {
	if !s.fixed {
		return defaultGrowth
	}
	return s.growth
}

// Allocator returns the allocator used for heap storage.
func (s *String) Allocator() mem.Allocator { return mem.OrDefault(s.alloc) }

// Bytes returns the content. The slice aliases the string's storage.
func (s *String) Bytes() []byte { return s.storage()[:s.length] }

// CStr returns the content followed by its NUL terminator.
func (s *String) CStr() []byte { return s.storage()[:s.length+1] }

// String returns a Go copy of the content.
func (s *String) String() string { return string(s.Bytes()) }

// View borrows the content.
func (s *String) View() View { return View{b: s.Bytes()} }

// At returns the byte at index i.
func (s *String) At(i int) byte { return s.View().At(i) }

// Equal reports whether the content equals v.
func (s *String) Equal(v View) bool { return s.View().Equal(v) }

func (s *String) capacity() int {
	if s.onHeap {
		return len(s.heap)
	}
	return SSOSize
}

func (s *String) storage() []byte {
	if s.onHeap {
		return s.heap
	}
	return s.inline[:]
}

// grow makes room for n content bytes plus terminator. When the string moves
// to a new block the previous heap block is returned; the caller frees it with
// drop once it no longer reads from it.
func (s *String) grow(n int) (old []byte) {
	if n+1 <= s.capacity() {
		return nil
	}
	newCap := n + 1
	if s.Growth() == GrowGeometric {
		newCap = max(newCap, 2*s.capacity())
	}
	return s.reallocate(newCap)
}

func (s *String) reallocate(newCap int) (old []byte) {
	if s.alloc == nil {
		s.alloc = mem.Default()
	}
	block := s.alloc.AllocateTagged(newCap, s.site)
	copy(block, s.Bytes())
	block[s.length] = 0

	if s.onHeap {
		old = s.heap
	}
	s.heap = block
	s.onHeap = true
	return old
}

func (s *String) drop(block []byte) {
	if block != nil {
		s.alloc.Free(block)
	}
}

func (s *String) setLen(n int) {
	s.length = n
	s.storage()[n] = 0
}

// Append adds v to the end of the string.
func (s *String) Append(v View) {
	if v.Len() == 0 {
		return
	}
	n := s.length + v.Len()
	old := s.grow(n)
	copy(s.storage()[s.length:], v.b)
	s.setLen(n)
	s.drop(old)
}

// AppendString adds str to the end of the string.
func (s *String) AppendString(str string) {
	s.Append(ViewOf(str))
}

// AppendChar adds one byte to the end of the string.
func (s *String) AppendChar(c byte) {
	old := s.grow(s.length + 1)
	s.storage()[s.length] = c
	s.setLen(s.length + 1)
	s.drop(old)
}

// Write implements io.Writer.
func (s *String) Write(p []byte) (int, error) {
	s.Append(ViewBytes(p))
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (s *String) WriteString(str string) (int, error) {
	s.AppendString(str)
	return len(str), nil
}

// WriteByte implements io.ByteWriter.
func (s *String) WriteByte(c byte) error {
	s.AppendChar(c)
	return nil
}

// InsertSelf inserts v at index, shifting the suffix right.
func (s *String) InsertSelf(v View, index int) {
	if !assert.That(index >= 0 && index <= s.length, "insert index is out of range") || v.Len() == 0 {
		return
	}
	if overlaps(v.b, s.storage()) {
		v = ViewBytes(append([]byte(nil), v.b...))
	}

	n := v.Len()
	old := s.grow(s.length + n)
	data := s.storage()
	for i := s.length - 1; i >= index; i-- {
		data[i+n] = data[i]
	}
	copy(data[index:], v.b)
	s.setLen(s.length + n)
	s.drop(old)
}

// Insert returns a new string holding s with v inserted at index.
func (s *String) Insert(v View, index int) *String {
	out := s.Clone()
	out.InsertSelf(v, index)
	return out
}

// Assign replaces the content with a copy of v.
func (s *String) Assign(v View) {
	if overlaps(v.b, s.storage()) {
		v = ViewBytes(append([]byte(nil), v.b...))
	}
	s.length = 0
	old := s.grow(v.Len())
	copy(s.storage(), v.b)
	s.setLen(v.Len())
	s.drop(old)
}

// Find searches the content for sub.
func (s *String) Find(sub View, opts FindOptions) int {
	return s.View().Find(sub, opts)
}

// Substring returns a new string holding [start, end). end may be ToEnd.
func (s *String) Substring(start, end int) *String {
	out := &String{alloc: s.alloc, growth: s.growth, fixed: s.fixed, site: s.site}
	out.Append(s.View().Substring(start, end))
	return out
}

// Clone returns an independent copy using the same allocator and policy.
func (s *String) Clone() *String {
	out := &String{alloc: s.alloc, growth: s.growth, fixed: s.fixed, site: s.site}
	out.Append(s.View())
	return out
}

// MoveFrom replaces the content with other's and leaves other empty. Heap
// storage is stolen when the allocators are compatible.
func (s *String) MoveFrom(other *String) {
	if other == s {
		return
	}
	if other.onHeap && mem.Compatible(s.Allocator(), other.Allocator()) {
		s.Free()
		s.heap, s.onHeap, s.length = other.heap, true, other.length
		s.alloc = other.alloc
		other.heap, other.onHeap = nil, false
		other.setLen(0)
		return
	}
	s.Assign(other.View())
	other.Free()
}

// SetMaxSize makes room for at least n bytes without further growth.
func (s *String) SetMaxSize(n int) {
	if n+1 <= s.capacity() {
		return
	}
	s.drop(s.reallocate(n + 1))
}

// Clear empties the string and keeps its storage.
func (s *String) Clear() {
	s.setLen(0)
}

// Shrink releases unused capacity, moving the content back inline when it
// fits.
func (s *String) Shrink() {
	if !s.onHeap {
		return
	}
	if s.length+1 <= SSOSize {
		old := s.heap
		copy(s.inline[:], old[:s.length])
		s.heap, s.onHeap = nil, false
		s.setLen(s.length)
		s.drop(old)
		return
	}
	if len(s.heap) > s.length+1 {
		s.drop(s.reallocate(s.length + 1))
	}
}

// ClearAndShrink empties the string and returns to inline storage.
func (s *String) ClearAndShrink() {
	s.Free()
}

// Free returns any heap storage to the allocator and leaves the string empty
// and inline.
func (s *String) Free() {
	if s.onHeap {
		old := s.heap
		s.heap, s.onHeap = nil, false
		s.drop(old)
	}
	s.setLen(0)
}

// Release implements the container release hook.
func (s *String) Release() { s.Free() }
