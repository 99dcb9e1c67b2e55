package ecs

import "reflect"

// column stores every component of one type. Values are held as pointers
// (*T boxed in any) so a borrow stays valid while the slot slice grows.
// Removal leaves a tombstone that compaction drops later; compaction keeps
// insertion order and never runs while a query is iterating.
type column struct {
	typ     reflect.Type
	entries []slot
	index   map[uint32]int // entity ID -> position in entries
	dead    int
}

type slot struct {
	owner Entity // zero when tombstoned
	ptr   any
}

func newColumn(t reflect.Type) *column {
	return &column{
		typ:     t,
		entries: make([]slot, 0, 16),
		index:   make(map[uint32]int, 16),
	}
}

func (c *column) lookup(e Entity) (any, bool) {
	i, ok := c.index[e.ID]
	if !ok || c.entries[i].owner != e {
		return nil, false
	}
	return c.entries[i].ptr, true
}

func (c *column) push(e Entity, ptr any) {
	c.index[e.ID] = len(c.entries)
	c.entries = append(c.entries, slot{owner: e, ptr: ptr})
}

func (c *column) remove(e Entity) (any, bool) {
	i, ok := c.index[e.ID]
	if !ok || c.entries[i].owner != e {
		return nil, false
	}
	ptr := c.entries[i].ptr
	c.entries[i] = slot{}
	delete(c.index, e.ID)
	c.dead++
	return ptr, true
}

func (c *column) len() int {
	return len(c.index)
}

// each walks the entries present when the walk started. Slots appended
// during the walk are left for the next one.
func (c *column) each(yield func(Entity, any) bool) {
	n := len(c.entries)
	for i := 0; i < n; i++ {
		s := c.entries[i]
		if s.owner.IsZero() {
			continue
		}
		if !yield(s.owner, s.ptr) {
			return
		}
	}
}

func (c *column) compact() {
	if c.dead == 0 {
		return
	}
	kept := c.entries[:0]
	for _, s := range c.entries {
		if s.owner.IsZero() {
			continue
		}
		c.index[s.owner.ID] = len(kept)
		kept = append(kept, s)
	}
	clear(c.entries[len(kept):])
	c.entries = kept
	c.dead = 0
}
