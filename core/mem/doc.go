// Package mem provides the engine's pluggable allocation capability.
//
// # Overview
//
// Every container and handle in leafcore obtains its storage through an
// Allocator. An allocator hands out byte blocks and takes them back; the block
// length carries the size, so Free must receive exactly the block Allocate
// returned.
//
// # Identity
//
// Each allocator type carries a small integer ID. Two allocators are
// Compatible when their IDs match and, for stateful allocators that implement
// Equal, the instances agree. Containers only move storage between compatible
// allocators; otherwise they copy.
//
//	HeapID      = 1  GC-backed, tracked per call site
//	UntrackedID = 2  GC-backed, no bookkeeping
//	SlabID      = 3  segregated free-lists over size classes
//	PageID      = 4  page-granular anonymous mappings
//
// # Typed storage
//
// New, Delete, MakeSlice and FreeSlice place typed values in allocator memory.
// Element types without pointers are carved out of the allocator's raw block.
// Element types holding pointers always live on the GC heap, since the
// collector cannot see pointers stored in raw bytes; Managed allocators still
// account for them so leak reports stay complete.
//
// # Usage Example
//
//	tr := mem.NewTracker()
//	heap := mem.NewHeap(tr)
//
//	block := heap.AllocateTagged(64, mem.Here(0))
//	// ...
//	heap.Free(block)
//
//	for _, b := range tr.Leaks() {
//	    fmt.Println(b.Site, b.Size)
//	}
//
// # Contract violations
//
// Freeing a block that did not come from the allocator, or freeing it with a
// different size, is reported through core/assert.
package mem
