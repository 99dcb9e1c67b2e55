package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// Commands records World mutations to apply later, in record order. UI
// callbacks that render from a borrow of the World record their edits here
// instead of mutating what they are reading; the driver flushes after every
// system.
type Commands struct {
	world *World
	ops   []func(*World) error
}

// Commands returns the World's deferred mutation buffer.
func (w *World) Commands() *Commands {
	w.commands.world = w
	return &w.commands
}

// Spawn reserves an entity now and attaches its name and components on flush.
func (c *Commands) Spawn(name string, components ...any) Entity {
	e := c.world.entities.allocate()
	c.ops = append(c.ops, func(w *World) error {
		if !w.Alive(e) {
			return fmt.Errorf("%w: %s", ErrEntityNotFound, e)
		}
		var errs []error
		if name != "" {
			errs = append(errs, Insert(w, e, Name(name)))
		}
		for _, comp := range components {
			errs = append(errs, w.InsertAny(e, comp))
		}
		return errors.Join(errs...)
	})
	return e
}

func (c *Commands) Despawn(e Entity) {
	c.ops = append(c.ops, func(w *World) error {
		w.Despawn(e)
		return nil
	})
}

func (c *Commands) Insert(e Entity, v any) {
	c.ops = append(c.ops, func(w *World) error {
		return w.InsertAny(e, v)
	})
}

func (c *Commands) Remove(e Entity, t reflect.Type) {
	c.ops = append(c.ops, func(w *World) error {
		w.RemoveType(e, t)
		return nil
	})
}

func (c *Commands) AddResource(v any) {
	c.ops = append(c.ops, func(w *World) error {
		return w.AddResourceAny(v)
	})
}

func (c *Commands) RemoveResource(t reflect.Type) {
	c.ops = append(c.ops, func(w *World) error {
		w.RemoveResourceType(t)
		return nil
	})
}

// Run records an arbitrary mutation.
func (c *Commands) Run(fn func(*World) error) {
	c.ops = append(c.ops, fn)
}

// Len is the number of pending commands.
func (c *Commands) Len() int {
	return len(c.ops)
}

// Flush applies pending commands in order. Commands recorded while flushing
// are applied in the same call. Every command runs; failures are joined.
func (w *World) Flush() error {
	var errs []error
	for len(w.commands.ops) > 0 {
		ops := w.commands.ops
		w.commands.ops = nil
		for _, op := range ops {
			if err := op(w); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
