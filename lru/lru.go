// Package lru implements a [cachesim.Cache] that evicts
// the least recently used object first.
//
// Objects are kept on a recency list (most recent at the front)
// and found through an id index, so every operation is O(1).
// The same type serves as a standalone algorithm and
// as the building block of composite algorithms such as ARC,
// whose ghost lists are LRU caches of evicted objects.
package lru

import (
	"iter"

	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/internal/assert"
	"github.com/djdv/go-cachesim/internal/index"
	"github.com/djdv/go-cachesim/internal/ring"
)

// Name is reported by [Cache.Name].
const Name = "LRU"

// Cache utilizes the LRU replacement algorithm.
// Concurrent access must be guarded by the caller.
// Constructed by [New].
type Cache struct {
	cachesim.Base
	index *index.Index
	list  ring.List[cachesim.Object]
}

var _ cachesim.Cache = (*Cache)(nil)

// New creates a [Cache] with the given parameters.
func New(params cachesim.Params) (*Cache, error) {
	return NewNamed(Name, params)
}

// NewNamed is [New] with a custom name,
// for caches used as parts of another algorithm.
func NewNamed(name string, params cachesim.Params) (*Cache, error) {
	base, err := cachesim.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	return &Cache{
		Base:  base,
		index: index.New(0),
	}, nil
}

// Check reports whether req's object is cached.
// With update, a hit moves the object to the front.
func (c *Cache) Check(req *cachesim.Request, update bool) cachesim.Result {
	if !req.Validate() {
		return cachesim.Invalid
	}
	if update {
		c.CountRequest()
	}
	element := c.index.Lookup(req.ID)
	if element == nil {
		return cachesim.Miss
	}
	if update {
		c.list.MoveToFront(element)
	}
	return cachesim.Hit
}

// Get looks up req, inserting and evicting on a miss.
func (c *Cache) Get(req *cachesim.Request) cachesim.Result {
	return cachesim.Get(c, req)
}

// Insert adds req's object at the front.
func (c *Cache) Insert(req *cachesim.Request) {
	if assert.Enabled {
		assert.True(c.index.Lookup(req.ID) == nil,
			"%s: inserting object %d that is already cached", c.Name(), req.ID)
	}
	element := c.list.PushFront(req.Object())
	c.index.Insert(element)
	c.Admit(req.Size)
}

// Evict removes the least recently used object.
// An empty cache is left unchanged and evicted is not written.
func (c *Cache) Evict(_ *cachesim.Request, evicted *cachesim.Object) {
	victim, ok := c.EvictOldest()
	if !ok {
		return
	}
	if evicted != nil {
		*evicted = victim
	}
}

// EvictOldest removes and returns the least recently used object.
// It reports false if the cache is empty.
func (c *Cache) EvictOldest() (cachesim.Object, bool) {
	element, ok := c.list.PopBack()
	if !ok {
		return cachesim.Object{}, false
	}
	victim := element.Value
	c.index.Remove(victim.ID)
	c.Release(victim.Size)
	return victim, true
}

// Oldest returns the least recently used object without removing it.
func (c *Cache) Oldest() (cachesim.Object, bool) {
	if back := c.list.Back(); back != nil {
		return back.Value, true
	}
	return cachesim.Object{}, false
}

// Remove drops the object with id.
func (c *Cache) Remove(id cachesim.ObjectID) error {
	element := c.index.Lookup(id)
	if element == nil {
		err := cachesim.NotCachedError(id)
		c.Logger().WithField("obj_id", id).Error(err)
		return err
	}
	c.unlink(element)
	return nil
}

func (c *Cache) unlink(element *index.Element) {
	obj := c.list.Remove(element)
	c.index.Remove(obj.ID)
	c.Release(obj.Size)
}

// Contains reports whether id is cached, without updating its recency.
func (c *Cache) Contains(id cachesim.ObjectID) bool {
	return c.index.Lookup(id) != nil
}

// Peek returns the object with id without updating its recency.
func (c *Cache) Peek(id cachesim.ObjectID) (cachesim.Object, bool) {
	if element := c.index.Lookup(id); element != nil {
		return element.Value, true
	}
	return cachesim.Object{}, false
}

// Free drops every object.
func (c *Cache) Free() {
	c.Logger().WithField("objects", c.ObjectCount()).Trace("freeing cache")
	c.index.Clear()
	c.list.Clear()
	c.Reset()
}

// Objects returns an iterator over the cached objects,
// from most to least recently used.
func (c *Cache) Objects() iter.Seq[cachesim.Object] {
	return func(yield func(cachesim.Object) bool) {
		for element := range c.list.All() {
			if !yield(element.Value) {
				return
			}
		}
	}
}

// Len returns the number of cached objects.
func (c *Cache) Len() int {
	return c.list.Len()
}
