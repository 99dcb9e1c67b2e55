// Package asset is a path-keyed cache that runs each registered loader at most
// once per (type, path) until the entry is invalidated. The cache lives in the
// World as a resource, so it shares the World's lifetime.
package asset

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/phosphor/internal/core/ecs"
	"github.com/zeusync/phosphor/internal/core/observability/log"
)

// Loader produces a T from path. It runs with exclusive access to the World
// and may spawn entities or touch resources.
type Loader[T any] func(w *ecs.World, path string) (T, error)

// Cloner is implemented by assets whose plain Go copy would share mutable
// backing data. Cached values implementing it are cloned on every return.
type Cloner[T any] interface {
	Clone() T
}

// Key identifies a cache entry.
type Key struct {
	Type reflect.Type
	Path string
}

// KeyOf builds the key for T at path. Paths are cleaned and slash separated
// so "a/../b.png" and "b.png" share an entry.
func KeyOf[T any](path string) Key {
	return Key{Type: reflect.TypeFor[T](), Path: normalize(path)}
}

// ID is a 64-bit fingerprint of the key.
func (k Key) ID() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(k.Type.String())
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(k.Path)
	return d.Sum64()
}

func (k Key) String() string {
	return k.Type.String() + ":" + k.Path
}

func normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

type Stats struct {
	Hits     uint64
	Misses   uint64
	Failures uint64
}

type entry struct {
	key   Key
	value any
}

// Cache is the World resource behind Load. Entries are bucketed by Key.ID.
type Cache struct {
	loaders map[reflect.Type]any
	buckets map[uint64][]entry
	loading map[Key]struct{}
	failed  map[Key]struct{}
	size    int
	stats   Stats
}

func newCache() Cache {
	return Cache{
		loaders: make(map[reflect.Type]any),
		buckets: make(map[uint64][]entry),
		loading: make(map[Key]struct{}),
		failed:  make(map[Key]struct{}),
	}
}

// CacheOf returns the World's cache, installing an empty one if needed.
func CacheOf(w *ecs.World) *Cache {
	if c, ok := ecs.GetResource[Cache](w); ok && c.buckets != nil {
		return c
	}
	ecs.AddResource(w, newCache())
	c, _ := ecs.GetResource[Cache](w)
	return c
}

func (c *Cache) Len() int {
	return c.size
}

func (c *Cache) Stats() Stats {
	return c.stats
}

// Keys lists cached keys ordered by path, then type.
func (c *Cache) Keys() []Key {
	out := make([]Key, 0, c.size)
	for _, bucket := range c.buckets {
		for _, e := range bucket {
			out = append(out, e.key)
		}
	}
	slices.SortFunc(out, func(a, b Key) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Type.String(), b.Type.String()))
	})
	return out
}

func (c *Cache) lookup(k Key) (any, bool) {
	for _, e := range c.buckets[k.ID()] {
		if e.key == k {
			return e.value, true
		}
	}
	return nil, false
}

func (c *Cache) store(k Key, v any) {
	id := k.ID()
	bucket := c.buckets[id]
	for i := range bucket {
		if bucket[i].key == k {
			bucket[i].value = v
			return
		}
	}
	c.buckets[id] = append(bucket, entry{key: k, value: v})
	c.size++
}

func (c *Cache) drop(k Key) bool {
	id := k.ID()
	bucket := c.buckets[id]
	for i := range bucket {
		if bucket[i].key != k {
			continue
		}
		bucket = slices.Delete(bucket, i, i+1)
		if len(bucket) == 0 {
			delete(c.buckets, id)
		} else {
			c.buckets[id] = bucket
		}
		c.size--
		return true
	}
	return false
}

// Register installs the loader for T, replacing any previous one. Entries
// already cached stay valid.
func Register[T any](w *ecs.World, loader Loader[T]) {
	CacheOf(w).loaders[reflect.TypeFor[T]()] = loader
}

// Registered reports whether T has a loader.
func Registered[T any](w *ecs.World) bool {
	_, ok := CacheOf(w).loaders[reflect.TypeFor[T]()]
	return ok
}

// Load returns the cached T for path, running the registered loader on a
// miss. Failures are returned as *LoadError and leave nothing cached, so the
// next call retries.
func Load[T any](w *ecs.World, path string) (T, error) {
	var zero T
	c := CacheOf(w)
	key := KeyOf[T](path)
	logger := w.Logger()

	if v, ok := c.lookup(key); ok {
		c.stats.Hits++
		logger.Debug("asset cache hit",
			log.Stringer("type", key.Type),
			log.String("path", key.Path),
			log.Bool("hit", true),
		)
		return duplicate(v.(T)), nil
	}

	raw, ok := c.loaders[key.Type]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNoLoader, key.Type)
	}
	if _, busy := c.loading[key]; busy {
		return zero, fmt.Errorf("%w: %s", ErrLoadCycle, key)
	}

	c.loading[key] = struct{}{}
	defer delete(c.loading, key)

	c.stats.Misses++
	v, err := raw.(Loader[T])(w, key.Path)
	if err != nil {
		c.stats.Failures++
		logger.Warn("asset load failed",
			log.Stringer("type", key.Type),
			log.String("path", key.Path),
			log.Error(err),
		)
		return zero, &LoadError{Type: key.Type, Path: key.Path, Err: err}
	}

	// A loader may have taken the cache resource out of the World; the
	// entry still lands in the cache that started the load.
	c.store(key, v)
	delete(c.failed, key)
	logger.Debug("asset loaded",
		log.Stringer("type", key.Type),
		log.String("path", key.Path),
		log.Bool("hit", false),
		log.Uint64("id", key.ID()),
	)
	return duplicate(v), nil
}

// Preload loads every path, continuing past failures.
func Preload[T any](w *ecs.World, paths ...string) error {
	var errs []error
	for _, p := range paths {
		if _, err := Load[T](w, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TryLoad is Load for per-frame callers. A path whose load failed is not
// retried until it is invalidated, purged or loaded successfully with Load.
func TryLoad[T any](w *ecs.World, path string) (T, bool) {
	var zero T
	c := CacheOf(w)
	key := KeyOf[T](path)
	if _, bad := c.failed[key]; bad {
		return zero, false
	}
	v, err := Load[T](w, path)
	if err != nil {
		c.failed[key] = struct{}{}
		return zero, false
	}
	return v, true
}

// Invalidate drops the cached T for path, or a remembered TryLoad failure,
// so the next load runs the loader.
func Invalidate[T any](w *ecs.World, path string) bool {
	c := CacheOf(w)
	key := KeyOf[T](path)
	_, bad := c.failed[key]
	delete(c.failed, key)
	return c.drop(key) || bad
}

// Purge drops every cached entry and remembered failure. Loaders and stats
// are kept.
func Purge(w *ecs.World) {
	c := CacheOf(w)
	clear(c.buckets)
	clear(c.failed)
	c.size = 0
}

func duplicate[T any](v T) T {
	if cl, ok := any(v).(Cloner[T]); ok {
		return cl.Clone()
	}
	return v
}
