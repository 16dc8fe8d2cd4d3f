package archecs

import (
	"reflect"
	"unsafe"
)

// The helpers below reinterpret component bytes as Go values. T must be a
// fixed-size type without pointers, and every component they are used with
// must have been registered with T's size, which Register guarantees.

// Register registers T under name with T's size. It returns NilComponent if
// T is zero-sized or contains pointers, in addition to the usual failures of
// RegisterComponent.
func Register[T any](w *World, name string) ComponentID {
	t := reflect.TypeFor[T]()
	if hasPointers(t) {
		return NilComponent
	}
	return w.RegisterComponent(name, int(t.Size()))
}

// Set stores v as component c of e, adding c if e lacks it.
func Set[T any](w *World, e Entity, c ComponentID, v T) bool {
	size := int(unsafe.Sizeof(v))
	if size == 0 || w.ComponentSize(c) != size {
		return false
	}
	return w.SetComponent(e, c, unsafe.Slice((*byte)(unsafe.Pointer(&v)), size))
}

// Get returns a pointer to component c of e, or nil if e is dead or lacks c.
// The pointer is invalidated by the next structural change of the world.
func Get[T any](w *World, e Entity, c ComponentID) *T {
	b := w.Component(e, c)
	if len(b) == 0 || len(b) != int(unsafe.Sizeof(*new(T))) {
		return nil
	}
	return (*T)(unsafe.Pointer(&b[0]))
}

// Column returns component c of the i-th archetype of v as a slice of T,
// parallel to v.Entities(i). It returns nil when the archetype has no rows,
// does not store c, or c's size differs from T's.
func Column[T any](v View, i int, c ComponentID) []T {
	b := v.Column(i, c)
	size := int(unsafe.Sizeof(*new(T)))
	if len(b) == 0 || size == 0 || v.world.ComponentSize(c) != size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/size)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
