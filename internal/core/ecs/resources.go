package ecs

import (
	"fmt"
	"reflect"
)

// resources holds one boxed pointer per type. Replacing a resource writes
// through the existing pointer.
type resources struct {
	items map[reflect.Type]any
	order []reflect.Type
}

func newResources() resources {
	return resources{items: make(map[reflect.Type]any, 16)}
}

func (r *resources) put(t reflect.Type, ptr any) {
	if _, ok := r.items[t]; !ok {
		r.order = append(r.order, t)
	}
	r.items[t] = ptr
}

func (r *resources) remove(t reflect.Type) (any, bool) {
	ptr, ok := r.items[t]
	if !ok {
		return nil, false
	}
	delete(r.items, t)
	for i, o := range r.order {
		if o == t {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return ptr, true
}

// AddResource inserts v as the singleton of type T or overwrites the current one.
func AddResource[T any](w *World, v T) {
	t := reflect.TypeFor[T]()
	if ptr, ok := w.resources.items[t]; ok {
		*ptr.(*T) = v
		return
	}
	ptr := new(T)
	*ptr = v
	w.resources.put(t, ptr)
}

// AddResourceAny is AddResource keyed by the dynamic type of v.
func (w *World) AddResourceAny(v any) error {
	if v == nil {
		return ErrNilResource
	}
	t := reflect.TypeOf(v)
	if ptr, ok := w.resources.items[t]; ok {
		reflect.ValueOf(ptr).Elem().Set(reflect.ValueOf(v))
		return nil
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(v))
	w.resources.put(t, ptr.Interface())
	return nil
}

// GetResource borrows the singleton of type T.
func GetResource[T any](w *World) (*T, bool) {
	ptr, ok := w.resources.items[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return ptr.(*T), true
}

// Resource is GetResource for systems that treat absence as an error.
func Resource[T any](w *World) (*T, error) {
	if v, ok := GetResource[T](w); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingResource, reflect.TypeFor[T]())
}

func HasResource[T any](w *World) bool {
	_, ok := w.resources.items[reflect.TypeFor[T]()]
	return ok
}

// TakeResource removes the singleton of type T and hands it to the caller.
// An absent resource is not an error.
func TakeResource[T any](w *World) (T, bool) {
	ptr, ok := w.resources.remove(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr.(*T), true
}

// RemoveResourceType drops the resource keyed by t.
func (w *World) RemoveResourceType(t reflect.Type) bool {
	_, ok := w.resources.remove(t)
	return ok
}

// ResourceTypes lists resource types in insertion order.
func (w *World) ResourceTypes() []reflect.Type {
	out := make([]reflect.Type, len(w.resources.order))
	copy(out, w.resources.order)
	return out
}
