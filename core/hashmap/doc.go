// Package hashmap implements Map, an open-addressing hash table with linear
// probing and tombstones.
//
// # Layout
//
// A Map owns two parallel arrays of capacity slots: the key/value entries and
// one tag byte per slot.
//
//	FlagFree      = 0x00  never used since the last rehash
//	FlagOccupied  = 0xFF  holds a live entry
//	FlagTombstone = 0xDD  held an entry that was removed
//
// Lookups start at hash(key) mod capacity and walk forward with wraparound.
// Tombstones keep probe chains intact: a lookup skips them and only stops at
// a Free slot. Insertions reuse the first Free-or-Tombstone slot they reach.
//
// # Growth
//
// The maximum load factor is 0.75. Before an insertion that would reach it the
// map rehashes into
//
//	max(2*capacity+1, floor(required/0.75)+1)
//
// slots, reinserting every live entry; tombstones do not survive a rehash.
// A map that accumulates tombstones until no Free slot would remain is
// rehashed at its current capacity.
//
// # Storage
//
// Both arrays come from the map's mem.Allocator through mem.MakeSlice. A map
// is created empty and allocates nothing until the first insertion.
//
// # Ownership
//
// Entries whose key or value implements Releaser through its pointer are
// released when the entry is destroyed (Remove, Clear, Free). This lets a
// map own handles:
//
//	m := hashmap.New[string, handle.Ref[Texture]]()
//	m.Add("albedo", ref)
//	m.Remove("albedo") // ref.Release()
//
// # Misuse
//
// Adding a key twice, removing a missing key or indexing a slot that is not
// occupied is reported through core/assert. When assertions do not panic the
// call degrades to a no-op.
//
// A Map is not safe for concurrent use.
package hashmap
