package handle

import (
	"fmt"
	"reflect"
)

// Weak observes a counted object without owning it.
type Weak[T Counted] struct {
	obj   T
	rc    *RefCounted
	epoch uint64
}

// WeakOf observes the object behind r. The count is not changed.
func WeakOf[T Counted](r Ref[T]) Weak[T] {
	if r.rc == nil {
		return Weak[T]{}
	}
	return Weak[T]{obj: r.obj, rc: r.rc, epoch: r.rc.epoch}
}

// Get returns the observed object without checking that it is alive.
func (w *Weak[T]) Get() T { return w.obj }

// IsValid reports whether the handle observes anything.
func (w *Weak[T]) IsValid() bool { return w.rc != nil }

// Alive reports whether the observed object has not been destroyed.
func (w *Weak[T]) Alive() bool {
	return w.rc != nil && w.rc.epoch != 0 && w.rc.epoch == w.epoch
}

// ToRef promotes to an owning reference, or returns an empty Ref once the
// object has been destroyed.
func (w *Weak[T]) ToRef() Ref[T] {
	if !w.Alive() {
		return Ref[T]{}
	}
	w.rc.count++
	return Ref[T]{obj: w.obj, rc: w.rc}
}

// UnsafeToRef promotes to an owning reference without checking liveness.
// After destruction it revives a dead counter; callers must know the object
// is alive.
func (w *Weak[T]) UnsafeToRef() Ref[T] {
	if w.rc == nil {
		return Ref[T]{}
	}
	w.rc.count++
	return Ref[T]{obj: w.obj, rc: w.rc}
}

// Release stops observing.
func (w *Weak[T]) Release() { *w = Weak[T]{} }

// Same reports whether w observes the object owned by r.
func (w *Weak[T]) Same(r Ref[T]) bool { return w.rc != nil && w.rc == r.rc }

// WeakAs re-types the observer as Q. It panics when the object is not a Q.
func WeakAs[Q, T Counted](w *Weak[T]) Weak[Q] {
	if w.rc == nil {
		return Weak[Q]{}
	}
	q, ok := any(w.obj).(Q)
	if !ok {
		panic(fmt.Sprintf("handle: %T is not %s", w.obj, reflect.TypeFor[Q]()))
	}
	return Weak[Q]{obj: q, rc: w.rc, epoch: w.epoch}
}
