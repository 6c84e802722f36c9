package hashmap

import (
	"iter"

	"github.com/leafengine/leafcore/core/assert"
	"github.com/leafengine/leafcore/core/hash"
	"github.com/leafengine/leafcore/core/mem"
)

// NotFound is the slot index returned for a missing key.
const NotFound = -1

// MaxLoadFactor is the fraction of slots that may be occupied.
const MaxLoadFactor = 0.75

// Flag tags the state of one slot.
type Flag uint8

const (
	FlagFree      Flag = 0x00
	FlagOccupied  Flag = 0xFF
	FlagTombstone Flag = 0xDD
)

func (f Flag) String() string {
	switch f {
	case FlagFree:
		return "free"
	case FlagOccupied:
		return "occupied"
	case FlagTombstone:
		return "tombstone"
	default:
		return "invalid"
	}
}

// Releaser is implemented by keys and values that own resources. Release is
// called through a pointer to the stored key or value when its entry is
// destroyed.
type Releaser interface {
	Release()
}

type entry[K, V any] struct {
	key   K
	value V
}

// Map is an open-addressing hash table.
type Map[K, V any] struct {
	entries    []entry[K, V]
	flags      []Flag
	size       int
	tombstones int

	alloc  mem.Allocator
	hasher hash.Hasher[K]
	equal  hash.Equaler[K]
	site   mem.Site
}

type options struct {
	alloc    mem.Allocator
	capacity int
}

// Option configures a Map at construction.
type Option func(*options)

// WithAllocator selects the allocator backing the map's storage.
func WithAllocator(a mem.Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// WithCapacity reserves room for n entries up front.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// New returns an empty map using the default hasher and == for K.
func New[K comparable, V any](opts ...Option) *Map[K, V] {
	return newMap[K, V](hash.Default[K](), hash.DefaultEqual[K](), opts)
}

// NewWith returns an empty map using the given hashing strategy.
func NewWith[K, V any](h hash.Hasher[K], eq hash.Equaler[K], opts ...Option) *Map[K, V] {
	return newMap[K, V](h, eq, opts)
}

func newMap[K, V any](h hash.Hasher[K], eq hash.Equaler[K], opts []Option) *Map[K, V] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	m := &Map[K, V]{
		alloc:  mem.OrDefault(o.alloc),
		hasher: h,
		equal:  eq,
		site:   mem.Here(2),
	}
	if o.capacity > 0 {
		m.Reserve(o.capacity)
	}
	return m
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int { return m.size }

// Capacity returns the number of slots.
func (m *Map[K, V]) Capacity() int { return len(m.flags) }

// IsEmpty reports whether the map has no live entries.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// Allocator returns the allocator backing the map.
func (m *Map[K, V]) Allocator() mem.Allocator { return m.alloc }

func (m *Map[K, V]) home(key K) int {
	return int(m.hasher.Hash(key) % uint64(len(m.flags)))
}

// Find returns the slot holding key, or NotFound.
func (m *Map[K, V]) Find(key K) int {
	capacity := len(m.flags)
	if capacity == 0 {
		return NotFound
	}
	idx := m.home(key)
	for range capacity {
		switch m.flags[idx] {
		case FlagFree:
			return NotFound
		case FlagOccupied:
			if m.equal.Equal(m.entries[idx].key, key) {
				return idx
			}
		}
		if idx++; idx == capacity {
			idx = 0
		}
	}
	return NotFound
}

// FindExisting is Find for a key the caller knows is present.
func (m *Map[K, V]) FindExisting(key K) int {
	idx := m.Find(key)
	assert.That(idx != NotFound, "key does not exist in the map")
	return idx
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.Find(key) != NotFound
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if idx := m.Find(key); idx != NotFound {
		return m.entries[idx].value, true
	}
	var zero V
	return zero, false
}

// At returns a pointer to the value stored under key, which must exist.
// The pointer is invalidated by the next growth.
func (m *Map[K, V]) At(key K) *V {
	idx := m.Find(key)
	if !assert.That(idx != NotFound, "key does not exist in the map") {
		return nil
	}
	return &m.entries[idx].value
}

// Add inserts a new entry and returns a pointer to its value. The key must
// not be present.
func (m *Map[K, V]) Add(key K, value V) *V {
	if !assert.That(m.Find(key) == NotFound, "key already exists in the map") {
		return nil
	}
	m.prepareInsert()
	idx := m.findFreeSlot(key)
	m.occupy(idx, key, value)
	return &m.entries[idx].value
}

// Index returns a pointer to the value stored under key, inserting the zero
// value first when the key is missing.
func (m *Map[K, V]) Index(key K) *V {
	m.prepareInsert()
	idx := m.findKeyOrFree(key)
	if m.flags[idx] != FlagOccupied {
		var zero V
		m.occupy(idx, key, zero)
	}
	return &m.entries[idx].value
}

// Set stores value under key, releasing any value it replaces.
func (m *Map[K, V]) Set(key K, value V) {
	if idx := m.Find(key); idx != NotFound {
		release(&m.entries[idx].value)
		m.entries[idx].value = value
		return
	}
	m.prepareInsert()
	m.occupy(m.findFreeSlot(key), key, value)
}

// Remove destroys the entry stored under key, which must exist.
func (m *Map[K, V]) Remove(key K) {
	idx := m.Find(key)
	if !assert.That(idx != NotFound, "key does not exist in the map") {
		return
	}
	m.destroy(idx)
}

// RemoveIndex destroys the entry in slot idx, which must be occupied.
func (m *Map[K, V]) RemoveIndex(idx int) {
	if !assert.That(idx >= 0 && idx < len(m.flags), "index is out of range") {
		return
	}
	if !assert.That(m.flags[idx] == FlagOccupied, "slot is not occupied") {
		return
	}
	m.destroy(idx)
}

// RemoveIfExists destroys the entry stored under key if there is one.
func (m *Map[K, V]) RemoveIfExists(key K) bool {
	idx := m.Find(key)
	if idx == NotFound {
		return false
	}
	m.destroy(idx)
	return true
}

// RemoveIndexIfExists destroys the entry in slot idx if it is occupied.
func (m *Map[K, V]) RemoveIndexIfExists(idx int) bool {
	if idx < 0 || idx >= len(m.flags) || m.flags[idx] != FlagOccupied {
		return false
	}
	m.destroy(idx)
	return true
}

// Clear destroys every entry and keeps the storage.
func (m *Map[K, V]) Clear() {
	for i, f := range m.flags {
		if f == FlagOccupied {
			m.releaseEntry(i)
		}
	}
	clear(m.entries)
	clear(m.flags)
	m.size = 0
	m.tombstones = 0
}

// Free destroys every entry and returns the storage to the allocator. The
// map stays usable and starts over empty.
func (m *Map[K, V]) Free() {
	for i, f := range m.flags {
		if f == FlagOccupied {
			m.releaseEntry(i)
		}
	}
	m.freeStorage()
}

// Release implements Releaser so maps can be nested.
func (m *Map[K, V]) Release() { m.Free() }

// Reserve grows the map so that n entries fit without another rehash.
func (m *Map[K, V]) Reserve(n int) {
	if n <= 0 || float64(n) < float64(len(m.flags))*MaxLoadFactor {
		return
	}
	m.rehash(int(float64(n)/MaxLoadFactor) + 1)
}

// NextCapacity returns the capacity the map grows to when it must hold
// required entries.
func (m *Map[K, V]) NextCapacity(required int) int {
	return max(2*len(m.flags)+1, int(float64(required)/MaxLoadFactor)+1)
}

// KeyAt returns the key in slot idx, which must be occupied.
func (m *Map[K, V]) KeyAt(idx int) K {
	if !m.checkSlot(idx) {
		var zero K
		return zero
	}
	return m.entries[idx].key
}

// ValueAt returns a pointer to the value in slot idx, which must be occupied.
func (m *Map[K, V]) ValueAt(idx int) *V {
	if !m.checkSlot(idx) {
		return nil
	}
	return &m.entries[idx].value
}

// FlagAt returns the tag of slot idx.
func (m *Map[K, V]) FlagAt(idx int) Flag {
	if !assert.That(idx >= 0 && idx < len(m.flags), "index is out of range") {
		return FlagFree
	}
	return m.flags[idx]
}

// All yields every live entry in slot order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, f := range m.flags {
			if f == FlagOccupied && !yield(m.entries[i].key, m.entries[i].value) {
				return
			}
		}
	}
}

// Keys yields every live key in slot order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every live value in slot order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Slots yields the index of every occupied slot. Removing the yielded slot
// during iteration is allowed; inserting is not.
func (m *Map[K, V]) Slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range m.flags {
			if m.flags[i] == FlagOccupied && !yield(i) {
				return
			}
		}
	}
}

// Clone copies the map into storage from a. A nil a reuses the map's own
// allocator. Keys and values are copied shallowly.
func (m *Map[K, V]) Clone(a mem.Allocator) *Map[K, V] {
	if a == nil {
		a = m.alloc
	}
	out := &Map[K, V]{alloc: a, hasher: m.hasher, equal: m.equal, site: m.site}
	if m.size == 0 {
		return out
	}
	out.rehash(int(float64(m.size)/MaxLoadFactor) + 1)
	for i, f := range m.flags {
		if f == FlagOccupied {
			out.occupy(out.findFreeSlot(m.entries[i].key), m.entries[i].key, m.entries[i].value)
		}
	}
	return out
}

// MoveFrom destroys the map's entries and takes over other's. Storage is
// stolen when the allocators are compatible and copied otherwise; other is
// left empty either way.
func (m *Map[K, V]) MoveFrom(other *Map[K, V]) {
	if other == m {
		return
	}
	m.Free()

	if mem.Compatible(m.alloc, other.alloc) {
		m.entries, m.flags = other.entries, other.flags
		m.size, m.tombstones = other.size, other.tombstones
		other.entries, other.flags = nil, nil
		other.size, other.tombstones = 0, 0
		return
	}

	if other.size > 0 {
		m.rehash(m.NextCapacity(other.size))
		for i, f := range other.flags {
			if f == FlagOccupied {
				m.occupy(m.findFreeSlot(other.entries[i].key), other.entries[i].key, other.entries[i].value)
			}
		}
	}
	other.freeStorage()
}

func (m *Map[K, V]) checkSlot(idx int) bool {
	return assert.That(idx >= 0 && idx < len(m.flags), "index is out of range") &&
		assert.That(m.flags[idx] == FlagOccupied, "slot is not occupied")
}

// prepareInsert makes room for one more entry.
func (m *Map[K, V]) prepareInsert() {
	capacity := len(m.flags)
	switch {
	case float64(m.size+1) >= float64(capacity)*MaxLoadFactor:
		m.rehash(m.NextCapacity(m.size + 1))
	case m.tombstones > 0 && m.size+m.tombstones+1 >= capacity:
		m.rehash(capacity)
	}
}

// findFreeSlot returns the first Free-or-Tombstone slot on key's probe chain.
func (m *Map[K, V]) findFreeSlot(key K) int {
	capacity := len(m.flags)
	idx := m.home(key)
	for range capacity {
		if m.flags[idx] != FlagOccupied {
			return idx
		}
		if idx++; idx == capacity {
			idx = 0
		}
	}
	assert.NoEntry("hash map has no free slot")
	return 0
}

// findKeyOrFree returns the slot holding key, or the slot an insertion of key
// should use: the first tombstone on the chain if any, else the Free slot
// that ends it. The whole chain is scanned so a key stored past a tombstone
// is never duplicated.
func (m *Map[K, V]) findKeyOrFree(key K) int {
	capacity := len(m.flags)
	idx := m.home(key)
	firstTombstone := NotFound
	for range capacity {
		switch m.flags[idx] {
		case FlagFree:
			if firstTombstone != NotFound {
				return firstTombstone
			}
			return idx
		case FlagTombstone:
			if firstTombstone == NotFound {
				firstTombstone = idx
			}
		case FlagOccupied:
			if m.equal.Equal(m.entries[idx].key, key) {
				return idx
			}
		}
		if idx++; idx == capacity {
			idx = 0
		}
	}
	if !assert.That(firstTombstone != NotFound, "hash map has no free slot") {
		return 0
	}
	return firstTombstone
}

func (m *Map[K, V]) occupy(idx int, key K, value V) {
	if m.flags[idx] == FlagTombstone {
		m.tombstones--
	}
	m.entries[idx] = entry[K, V]{key: key, value: value}
	m.flags[idx] = FlagOccupied
	m.size++
}

func (m *Map[K, V]) destroy(idx int) {
	m.releaseEntry(idx)
	m.entries[idx] = entry[K, V]{}
	m.flags[idx] = FlagTombstone
	m.size--
	m.tombstones++
}

func (m *Map[K, V]) releaseEntry(idx int) {
	release(&m.entries[idx].key)
	release(&m.entries[idx].value)
}

func release[T any](p *T) {
	if r, ok := any(p).(Releaser); ok {
		r.Release()
	}
}

// rehash moves every live entry into fresh storage of newCap slots.
func (m *Map[K, V]) rehash(newCap int) {
	oldEntries, oldFlags := m.entries, m.flags

	m.entries = mem.MakeSlice[entry[K, V]](m.alloc, newCap, m.site)
	m.flags = mem.MakeSlice[Flag](m.alloc, newCap, m.site)
	m.size = 0
	m.tombstones = 0

	for i, f := range oldFlags {
		if f == FlagOccupied {
			m.occupy(m.findFreeSlot(oldEntries[i].key), oldEntries[i].key, oldEntries[i].value)
		}
	}

	clear(oldEntries)
	mem.FreeSlice(m.alloc, oldEntries)
	mem.FreeSlice(m.alloc, oldFlags)
}

func (m *Map[K, V]) freeStorage() {
	clear(m.entries)
	mem.FreeSlice(m.alloc, m.entries)
	mem.FreeSlice(m.alloc, m.flags)
	m.entries, m.flags = nil, nil
	m.size = 0
	m.tombstones = 0
}
