package handle

import (
	"fmt"
	"reflect"

	"github.com/leafengine/leafcore/core/mem"
)

// Ref shares ownership of a counted object.
type Ref[T Counted] struct {
	obj T
	rc  *RefCounted
}

// NewRef takes a reference to obj. An object seen for the first time starts
// its life at count 1; the storage belongs to the collector.
func NewRef[T Counted](obj T) Ref[T] {
	rc := obj.refCounted()
	rc.retain()
	return Ref[T]{obj: obj, rc: rc}
}

// CreateRef allocates a zeroed E from a and returns the first reference to
// it. init, if non-nil, runs on the new object.
func CreateRef[E any, PE interface {
	*E
	Counted
}](a mem.Allocator, init func(PE)) Ref[PE] {
	a = mem.OrDefault(a)
	p := PE(mem.New[E](a, mem.Here(1)))
	if init != nil {
		init(p)
	}
	rc := p.refCounted()
	rc.free = func() { mem.Delete[E](a, (*E)(p)) }
	rc.retain()
	return Ref[PE]{obj: p, rc: rc}
}

// Get returns the object, or the zero T when empty.
func (r *Ref[T]) Get() T { return r.obj }

// IsValid reports whether the handle owns a reference.
func (r *Ref[T]) IsValid() bool { return r.rc != nil }

// Count returns the object's reference count, or 0 when empty.
func (r *Ref[T]) Count() uint64 {
	if r.rc == nil {
		return 0
	}
	return r.rc.count
}

// Clone returns another owning reference to the same object.
func (r *Ref[T]) Clone() Ref[T] {
	if r.rc == nil {
		return Ref[T]{}
	}
	r.rc.retain()
	return *r
}

// Move transfers the reference to the returned handle and empties r.
func (r *Ref[T]) Move() Ref[T] {
	out := *r
	*r = Ref[T]{}
	return out
}

// Release drops the reference, destroying the object when it was the last.
func (r *Ref[T]) Release() {
	if r.rc == nil {
		return
	}
	obj, rc := r.obj, r.rc
	*r = Ref[T]{}
	if rc.drop() {
		rc.destroy(obj)
	}
}

// Same reports whether both handles refer to the same object.
func (r *Ref[T]) Same(other Ref[T]) bool { return r.rc == other.rc }

// RefAs returns an additional reference typed as Q. It panics when the object
// is not a Q.
func RefAs[Q, T Counted](r *Ref[T]) Ref[Q] {
	if r.rc == nil {
		return Ref[Q]{}
	}
	q, ok := any(r.obj).(Q)
	if !ok {
		panic(fmt.Sprintf("handle: %T is not %s", r.obj, reflect.TypeFor[Q]()))
	}
	r.rc.retain()
	return Ref[Q]{obj: q, rc: r.rc}
}
