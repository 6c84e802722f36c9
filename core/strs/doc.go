// Package strs provides the engine's owned and borrowed byte strings and the
// formatting mini-language used by the logger.
//
// # String
//
// String is a growable, allocator-aware byte string with a small-string
// optimization: content that fits in SSOSize bytes together with its NUL
// terminator is stored inline, anything longer lives in a block from the
// string's mem.Allocator. A string never moves back inline on its own; only
// Shrink and ClearAndShrink do that.
//
// By default growth is exact-fit: every reallocation requests precisely
// length+1 bytes. WithGrowth(GrowGeometric) doubles the capacity instead,
// trading memory for amortized O(1) appends.
//
// # View
//
// View is a borrowed window over bytes owned elsewhere. It never allocates and
// is only valid while the underlying storage is.
//
// # Format
//
// Format renders a template by replacing each marker pair with the next
// argument:
//
//	strs.Render("{} took {.2}ms", "frame", 16.6667) // "frame took 16.67ms"
//	strs.Render("{,4}", 7)                          // "0007"
//
// The text between the markers are the flags for that argument:
//
//	integers  ",N"  at least N digits, zero padded
//	floats    ".N"  N decimals (default 3), exponent form outside [1e-8, 1e8)
//
// Formatting never fails. Unrecognized flags render InvalidFlags in place of
// the argument and an unterminated marker renders InvalidFlags and stops.
// LegacyMarkers uses "%{" and "}" as markers for log templates.
package strs
