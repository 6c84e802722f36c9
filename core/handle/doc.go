// Package handle provides ownership handles over allocator-backed objects.
//
//   - Unique owns its object exclusively. Releasing it destroys the object.
//   - Ref shares an object through a count stored in the object itself
//     (objects embed RefCounted). The last Release destroys it.
//   - Weak observes a Ref's object without counting. ToRef promotes it only
//     while the object is alive; UnsafeToRef promotes it unconditionally.
//
// Go has no destructors, so every owning handle must be released explicitly.
// Copying a handle value does not copy ownership: use Clone for another
// owner and Move to transfer. Objects implementing Destroyer get Destroy
// called before their storage is returned to the allocator.
//
// Handles are not safe for concurrent use and Ref cycles are never
// collected.
package handle
