package arc

import (
	"fmt"

	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/internal/assert"
	"github.com/djdv/go-cachesim/lru"
)

type (
	// InitParams tune the algorithm.
	// A nil *InitParams selects the defaults.
	InitParams struct {
		// GhostListFactor scales the capacity of each ghost list,
		// relative to half of the cache's capacity.
		GhostListFactor float64 `yaml:"ghost_list_factor"`
	}

	// Cache utilizes the ARC replacement algorithm.
	// Concurrent access must be guarded by the caller.
	// Constructed by [New].
	Cache struct {
		cachesim.Base
		// t1 holds objects seen once recently, t2 objects seen at least twice.
		// b1 and b2 remember objects evicted from t1 and t2 respectively.
		t1, t2, b1, b2 *lru.Cache
		// scratch carries evicted objects into the ghost lists.
		scratch cachesim.Request
		// evictFrom is set by ghost hits and read by Evict.
		evictFrom   side
		ghostFactor float64
	}

	// side names the pair of lists an eviction should take from.
	side uint8
)

const (
	// Name is reported by [Cache.Name].
	Name = "ARC"
	// DefaultGhostListFactor is used when [InitParams] are omitted.
	DefaultGhostListFactor = 1.0
)

const (
	unset side = iota
	recency
	frequency
)

var _ cachesim.Cache = (*Cache)(nil)

// New creates a [Cache] with the given parameters.
// Both real lists may grow to the full capacity;
// each ghost list holds up to capacity/2 * GhostListFactor bytes.
func New(params cachesim.Params, initParams *InitParams) (*Cache, error) {
	base, err := cachesim.NewBase(Name, params)
	if err != nil {
		return nil, err
	}
	factor := DefaultGhostListFactor
	if initParams != nil {
		factor = initParams.GhostListFactor
	}
	if !(factor > 0) {
		return nil, fmt.Errorf(
			"%w: ghost list factor must be >0 but %v was requested",
			cachesim.ErrInvalidParams, factor)
	}
	params = base.Params()
	ghostParams := params
	ghostParams.Capacity = int64(float64(params.Capacity) / 2 * factor)
	if ghostParams.Capacity <= 0 {
		return nil, fmt.Errorf(
			"%w: ghost list capacity rounds to %d",
			cachesim.ErrInvalidParams, ghostParams.Capacity)
	}
	c := &Cache{
		Base:        base,
		ghostFactor: factor,
	}
	for _, sub := range []struct {
		cache  **lru.Cache
		name   string
		params cachesim.Params
	}{
		{&c.t1, "ARC-T1", params},
		{&c.t2, "ARC-T2", params},
		{&c.b1, "ARC-B1", ghostParams},
		{&c.b2, "ARC-B2", ghostParams},
	} {
		if *sub.cache, err = lru.NewNamed(sub.name, sub.params); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// GhostListFactor returns the factor the cache was built with.
func (c *Cache) GhostListFactor() float64 { return c.ghostFactor }

// Check reports whether req's object is cached.
// With update, a hit in t1 promotes the object to t2,
// and a miss that hits a ghost list steers the next eviction
// toward the opposite side.
func (c *Cache) Check(req *cachesim.Request, update bool) cachesim.Result {
	if !req.Validate() {
		return cachesim.Invalid
	}
	// t1 is not updated, a hit there moves the object to t2.
	var (
		hit1 = c.t1.Check(req, false) == cachesim.Hit
		hit2 = c.t2.Check(req, update) == cachesim.Hit
	)
	if assert.Enabled {
		assert.False(hit1 && hit2,
			"object %d is in both t1 and t2", req.ID)
	}
	result := cachesim.Miss
	if hit1 || hit2 {
		result = cachesim.Hit
	}
	if !update {
		return result
	}
	c.CountRequest()
	if result == cachesim.Miss {
		c.consultGhosts(req)
	}
	if hit1 {
		c.mustRemove(c.t1, req.ID)
		c.t2.Insert(req)
	}
	c.syncUsage()
	return result
}

func (c *Cache) consultGhosts(req *cachesim.Request) {
	var (
		ghost1 = c.b1.Check(req, false) == cachesim.Hit
		ghost2 = c.b2.Check(req, false) == cachesim.Hit
	)
	switch {
	case ghost1:
		if assert.Enabled {
			assert.False(ghost2,
				"object %d is in both b1 and b2", req.ID)
		}
		c.evictFrom = frequency
		c.mustRemove(c.b1, req.ID)
	case ghost2:
		c.evictFrom = recency
		c.mustRemove(c.b2, req.ID)
	}
}

// syncUsage mirrors the real lists' accounting.
// Ghost lists are excluded.
func (c *Cache) syncUsage() {
	c.SetUsage(
		c.t1.OccupiedSize()+c.t2.OccupiedSize(),
		c.t1.ObjectCount()+c.t2.ObjectCount(),
	)
}

func (c *Cache) mustRemove(cache *lru.Cache, id cachesim.ObjectID) {
	err := cache.Remove(id)
	assert.True(err == nil, "%s: %v", cache.Name(), err)
}

// Get looks up req, inserting and evicting on a miss.
func (c *Cache) Get(req *cachesim.Request) cachesim.Result {
	return cachesim.Get(c, req)
}

// Insert adds req's object to t1.
func (c *Cache) Insert(req *cachesim.Request) {
	c.t1.Insert(req)
	c.Admit(req.Size)
	if assert.Enabled {
		c.verifyUsage()
	}
}

// Evict removes the least recently used object of t1 or t2
// and records it in the matching ghost list.
// An empty cache is left unchanged and evicted is not written.
func (c *Cache) Evict(_ *cachesim.Request, evicted *cachesim.Object) {
	resident, ghost := c.evictionLists()
	victim, ok := resident.EvictOldest()
	if !ok {
		return
	}
	if evicted != nil {
		*evicted = victim
	}
	c.scratch.CopyObject(&victim)
	result := ghost.Get(&c.scratch)
	assert.True(result == cachesim.Miss,
		"%s: evicted object %d was already a ghost (%s)",
		ghost.Name(), victim.ID, result)
	c.Release(victim.Size)
}

// evictionLists returns the real list Evict takes from and the ghost
// list its victim enters.
// t1 is chosen if it is not empty and either
// a b2 hit asked for it or t2 is empty.
func (c *Cache) evictionLists() (resident, ghost *lru.Cache) {
	if (c.evictFrom == recency || c.t2.ObjectCount() == 0) &&
		c.t1.ObjectCount() != 0 {
		return c.t1, c.b1
	}
	return c.t2, c.b2
}

// Remove drops the object with id from t1 or t2.
// Ghost lists are not searched.
func (c *Cache) Remove(id cachesim.ObjectID) error {
	var held *lru.Cache
	switch {
	case c.t1.Contains(id):
		held = c.t1
	case c.t2.Contains(id):
		held = c.t2
	default:
		err := cachesim.NotCachedError(id)
		c.Logger().WithField("obj_id", id).Error(err)
		return err
	}
	obj, _ := held.Peek(id)
	if err := held.Remove(id); err != nil {
		return err
	}
	c.Release(obj.Size)
	return nil
}

// Free releases all four lists.
func (c *Cache) Free() {
	for _, sub := range c.lists() {
		sub.Free()
	}
	c.Reset()
}

func (c *Cache) lists() [4]*lru.Cache {
	return [...]*lru.Cache{c.t1, c.t2, c.b1, c.b2}
}

func (c *Cache) verifyUsage() {
	var (
		occupied = c.t1.OccupiedSize() + c.t2.OccupiedSize()
		objects  = c.t1.ObjectCount() + c.t2.ObjectCount()
	)
	assert.True(c.OccupiedSize() == occupied,
		"occupied size %d does not match t1+t2 %d",
		c.OccupiedSize(), occupied)
	assert.True(c.ObjectCount() == objects,
		"object count %d does not match t1+t2 %d",
		c.ObjectCount(), objects)
}
