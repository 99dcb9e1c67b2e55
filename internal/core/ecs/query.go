package ecs

import (
	"iter"
	"reflect"
)

// Query yields every live entity holding a T together with a borrow of the
// component, in insertion order. The sequence is lazy and may be ranged over
// again to observe later changes.
//
// Spawning, despawning and inserting while ranging is allowed: removed
// components stop being yielded immediately and components added during the
// walk show up on the next one.
func Query[T any](w *World) iter.Seq2[Entity, *T] {
	t := reflect.TypeFor[T]()
	return func(yield func(Entity, *T) bool) {
		c, ok := w.columns[t]
		if !ok {
			return
		}
		w.beginIteration()
		defer w.endIteration()
		c.each(func(e Entity, ptr any) bool {
			return yield(e, ptr.(*T))
		})
	}
}

// First returns the earliest inserted live holder of T.
func First[T any](w *World) (Entity, *T, bool) {
	for e, v := range Query[T](w) {
		return e, v, true
	}
	return Entity{}, nil, false
}
