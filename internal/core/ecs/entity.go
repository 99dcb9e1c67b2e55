package ecs

import "strconv"

// Entity is a generational handle. ID indexes a slot that may be recycled;
// Gen tells successive occupants of the same slot apart. The zero Entity is
// never alive.
type Entity struct {
	ID  uint32
	Gen uint32
}

func (e Entity) IsZero() bool {
	return e.Gen == 0
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.ID), 10) + "v" + strconv.FormatUint(uint64(e.Gen), 10)
}

// Name is the display name attached by Spawn.
type Name string

// entityAllocator hands out entity handles and recycles freed slots with a
// bumped generation.
type entityAllocator struct {
	gens  []uint32 // generation of the current (or next) occupant per slot
	alive []bool
	free  []uint32 // stack of recycled slots
	live  int
}

func newEntityAllocator(capacity int) entityAllocator {
	return entityAllocator{
		gens:  make([]uint32, 0, capacity),
		alive: make([]bool, 0, capacity),
	}
}

func (a *entityAllocator) allocate() Entity {
	a.live++
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[id] = true
		return Entity{ID: id, Gen: a.gens[id]}
	}
	id := uint32(len(a.gens))
	a.gens = append(a.gens, 1)
	a.alive = append(a.alive, true)
	return Entity{ID: id, Gen: 1}
}

func (a *entityAllocator) release(e Entity) bool {
	if !a.isAlive(e) {
		return false
	}
	a.alive[e.ID] = false
	a.gens[e.ID]++
	if a.gens[e.ID] == 0 {
		// wrapped; generation 0 is reserved for the zero handle
		a.gens[e.ID] = 1
	}
	a.free = append(a.free, e.ID)
	a.live--
	return true
}

func (a *entityAllocator) isAlive(e Entity) bool {
	if e.IsZero() || int(e.ID) >= len(a.gens) {
		return false
	}
	return a.alive[e.ID] && a.gens[e.ID] == e.Gen
}

// handle returns the live handle occupying slot id.
func (a *entityAllocator) handle(id uint32) (Entity, bool) {
	if int(id) >= len(a.gens) || !a.alive[id] {
		return Entity{}, false
	}
	return Entity{ID: id, Gen: a.gens[id]}, true
}
