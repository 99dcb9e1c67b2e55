package ecs

import (
	"fmt"
	"reflect"
)

// Insert attaches v to e, replacing the existing T in place so earlier
// borrows observe the new value.
func Insert[T any](w *World, e Entity, v T) error {
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, e)
	}
	c := w.column(reflect.TypeFor[T]())
	if ptr, ok := c.lookup(e); ok {
		*ptr.(*T) = v
		return nil
	}
	ptr := new(T)
	*ptr = v
	c.push(e, ptr)
	return nil
}

// Get borrows e's component of type T. The pointer must not be kept past the
// calling system.
func Get[T any](w *World, e Entity) (*T, bool) {
	c, ok := w.columns[reflect.TypeFor[T]()]
	if !ok || !w.entities.isAlive(e) {
		return nil, false
	}
	ptr, ok := c.lookup(e)
	if !ok {
		return nil, false
	}
	return ptr.(*T), true
}

// Component is Get for callers that propagate the absence as an error.
func Component[T any](w *World, e Entity) (*T, error) {
	if v, ok := Get[T](w, e); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrMissingComponent, reflect.TypeFor[T](), e)
}

func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove detaches T from e and reports whether it was present.
func Remove[T any](w *World, e Entity) bool {
	return w.RemoveType(e, reflect.TypeFor[T]())
}

// Count is the number of live entities holding a T.
func Count[T any](w *World) int {
	c, ok := w.columns[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	return c.len()
}
