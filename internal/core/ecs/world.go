package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/zeusync/phosphor/internal/core/observability/log"
)

// World owns every entity, component and resource. It is not safe for
// concurrent use: the driver lends it to one system at a time.
type World struct {
	entities  entityAllocator
	columns   map[reflect.Type]*column
	order     []reflect.Type // column creation order
	resources resources
	commands  Commands
	iterating int
	logger    log.Log
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger exposed through World.Logger.
func WithLogger(l log.Log) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithCapacity pre-sizes the entity slot tables.
func WithCapacity(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.entities = newEntityAllocator(n)
		}
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		entities:  newEntityAllocator(64),
		columns:   make(map[reflect.Type]*column),
		resources: newResources(),
		logger:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Logger() log.Log {
	return w.logger
}

// Spawn allocates an entity, tags it with name unless name is empty and
// attaches the given components by their dynamic type. Nil components are
// skipped with a warning.
func (w *World) Spawn(name string, components ...any) Entity {
	e := w.entities.allocate()
	if name != "" {
		n := Name(name)
		w.column(reflect.TypeFor[Name]()).push(e, &n)
	}
	for _, c := range components {
		if err := w.InsertAny(e, c); err != nil {
			w.logger.Warn("spawn: component skipped",
				log.Stringer("entity", e),
				log.String("name", name),
				log.Error(err),
			)
		}
	}
	return e
}

// Despawn removes the entity and all of its components. It reports whether
// the handle was alive.
func (w *World) Despawn(e Entity) bool {
	if !w.entities.isAlive(e) {
		return false
	}
	for _, t := range w.order {
		c := w.columns[t]
		if _, ok := c.remove(e); ok {
			w.maybeCompact(c)
		}
	}
	return w.entities.release(e)
}

// DespawnAll removes every entity. Resources are left untouched.
func (w *World) DespawnAll() {
	for e := range w.Entities() {
		w.Despawn(e)
	}
}

func (w *World) Alive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Len is the number of live entities.
func (w *World) Len() int {
	return w.entities.live
}

// Entities yields live entities in slot order.
func (w *World) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		n := len(w.entities.gens)
		for id := 0; id < n; id++ {
			e, ok := w.entities.handle(uint32(id))
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// InsertAny attaches v keyed by its dynamic type, replacing any component of
// that type already on e.
func (w *World) InsertAny(e Entity, v any) error {
	if v == nil {
		return ErrNilComponent
	}
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, e)
	}
	t := reflect.TypeOf(v)
	c := w.column(t)
	if ptr, ok := c.lookup(e); ok {
		reflect.ValueOf(ptr).Elem().Set(reflect.ValueOf(v))
		return nil
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(v))
	c.push(e, ptr.Interface())
	return nil
}

// RemoveType detaches the component of type t from e.
func (w *World) RemoveType(e Entity, t reflect.Type) bool {
	c, ok := w.columns[t]
	if !ok {
		return false
	}
	if _, ok = c.remove(e); !ok {
		return false
	}
	w.maybeCompact(c)
	return true
}

// ComponentTypes lists the component types attached to e in the order their
// storage was first created.
func (w *World) ComponentTypes(e Entity) []reflect.Type {
	if !w.entities.isAlive(e) {
		return nil
	}
	var out []reflect.Type
	for _, t := range w.order {
		if _, ok := w.columns[t].lookup(e); ok {
			out = append(out, t)
		}
	}
	return out
}

// ComponentAny returns a pointer to e's component of type t.
func (w *World) ComponentAny(e Entity, t reflect.Type) (any, bool) {
	c, ok := w.columns[t]
	if !ok || !w.entities.isAlive(e) {
		return nil, false
	}
	return c.lookup(e)
}

func (w *World) column(t reflect.Type) *column {
	if c, ok := w.columns[t]; ok {
		return c
	}
	c := newColumn(t)
	w.columns[t] = c
	w.order = append(w.order, t)
	return c
}

func (w *World) beginIteration() {
	w.iterating++
}

func (w *World) endIteration() {
	w.iterating--
	if w.iterating > 0 {
		return
	}
	for _, t := range w.order {
		w.columns[t].compact()
	}
}

// maybeCompact drops tombstones once they dominate a column, unless a query
// is walking the world.
func (w *World) maybeCompact(c *column) {
	if w.iterating > 0 {
		return
	}
	if c.dead >= 64 || c.dead*2 >= len(c.entries) {
		c.compact()
	}
}
