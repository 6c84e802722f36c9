package handle

import (
	"fmt"
	"reflect"

	"github.com/leafengine/leafcore/core/mem"
)

// Unique exclusively owns an object of pointer-like type T.
type Unique[T any] struct {
	obj   T
	valid bool
	free  func()
}

// NewUnique adopts obj. Release only runs Destroy; the storage belongs to
// the collector.
func NewUnique[T any](obj T) Unique[T] {
	return Unique[T]{obj: obj, valid: true}
}

// CreateUnique allocates a zeroed E from a and owns it. init, if non-nil,
// runs on the new object.
func CreateUnique[E any, PE interface{ *E }](a mem.Allocator, init func(PE)) Unique[PE] {
	a = mem.OrDefault(a)
	p := PE(mem.New[E](a, mem.Here(1)))
	if init != nil {
		init(p)
	}
	return Unique[PE]{obj: p, valid: true, free: func() { mem.Delete[E](a, (*E)(p)) }}
}

// Get returns the owned object, or the zero T when empty.
func (u *Unique[T]) Get() T { return u.obj }

// IsValid reports whether the handle owns an object.
func (u *Unique[T]) IsValid() bool { return u.valid }

// Release destroys the owned object and empties the handle.
func (u *Unique[T]) Release() {
	if !u.valid {
		return
	}
	obj, free := u.obj, u.free
	*u = Unique[T]{}
	if d, ok := any(obj).(Destroyer); ok {
		d.Destroy()
	}
	if free != nil {
		free()
	}
}

// Move transfers ownership to the returned handle and empties u.
func (u *Unique[T]) Move() Unique[T] {
	out := *u
	*u = Unique[T]{}
	return out
}

// Reset releases the current object and takes ownership of other's.
func (u *Unique[T]) Reset(other *Unique[T]) {
	if u == other {
		return
	}
	u.Release()
	*u = other.Move()
}

// UniqueAs transfers ownership to a handle of type Q. It panics when the
// object is not a Q.
func UniqueAs[Q, T any](u *Unique[T]) Unique[Q] {
	if !u.valid {
		return Unique[Q]{}
	}
	q, ok := any(u.obj).(Q)
	if !ok {
		panic(fmt.Sprintf("handle: %T is not %s", u.obj, reflect.TypeFor[Q]()))
	}
	out := Unique[Q]{obj: q, valid: true, free: u.free}
	*u = Unique[T]{}
	return out
}
