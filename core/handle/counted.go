package handle

import "sync/atomic"

// Destroyer is implemented by objects that must clean up before their
// storage is released.
type Destroyer interface {
	Destroy()
}

// RefCounted is embedded by objects shared through Ref.
type RefCounted struct {
	count uint64
	epoch uint64 // non-zero while alive
	free  func()
}

// RefCount returns the number of Refs currently owning the object.
func (rc *RefCounted) RefCount() uint64 { return rc.count }

func (rc *RefCounted) refCounted() *RefCounted { return rc }

// Counted is satisfied by pointers to types embedding RefCounted.
type Counted interface {
	refCounted() *RefCounted
}

var epochs atomic.Uint64

func (rc *RefCounted) retain() {
	if rc.epoch == 0 && rc.count == 0 {
		rc.epoch = epochs.Add(1)
	}
	rc.count++
}

// drop decrements the count and reports whether it reached zero.
func (rc *RefCounted) drop() bool {
	rc.count--
	return rc.count == 0
}

func (rc *RefCounted) destroy(obj any) {
	if d, ok := obj.(Destroyer); ok {
		d.Destroy()
	}
	rc.epoch = 0
	if free := rc.free; free != nil {
		rc.free = nil
		free()
	}
}
