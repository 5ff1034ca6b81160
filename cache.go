package cachesim

import "github.com/sirupsen/logrus"

type (
	// Result classifies a request against a cache.
	Result uint8

	// Params are shared by every eviction algorithm.
	Params struct {
		// Logger receives diagnostics;
		// nil selects [logrus.StandardLogger].
		Logger logrus.FieldLogger
		// Capacity of the cache in bytes.
		Capacity int64
		// PerObjectOverhead is charged against
		// the capacity for every cached object.
		PerObjectOverhead int64
	}

	// Cache is the capability set of an eviction algorithm.
	// Implementations are not safe for concurrent use;
	// every call must be serialized by the caller.
	Cache interface {
		Name() string
		Params() Params
		// Check reports whether the request's object is cached.
		// With update false, Check has no side effects.
		Check(req *Request, update bool) Result
		// Get is Check with update, followed by an
		// insert and evictions on a miss. See [Get].
		Get(req *Request) Result
		// Insert adds the request's object.
		// The object must not already be cached.
		Insert(req *Request)
		// Evict removes one object chosen by the algorithm's policy.
		// Evicting from an empty cache changes nothing.
		// If evicted is not nil, the victim is copied into it.
		Evict(req *Request, evicted *Object)
		// Remove drops a specific object,
		// returning [ErrNotCached] if it is not held.
		Remove(id ObjectID) error
		// Free releases every object the cache owns.
		// The cache must not be used afterwards.
		Free()
		OccupiedSize() int64
		ObjectCount() int64
		RequestCount() int64
	}

	// Base holds the accounting common to all caches.
	// Algorithms embed it and adjust it as objects move.
	Base struct {
		name   string
		params Params
		occupied,
		objects,
		requests int64
	}
)

const (
	Invalid Result = iota
	Hit
	Miss
)

func (r Result) String() string {
	switch r {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "invalid"
	}
}

// Validate checks params and fills defaults.
func (p Params) Validate() (Params, error) {
	if p.Capacity <= 0 {
		return p, capacityError(p.Capacity)
	}
	if p.PerObjectOverhead < 0 {
		return p, overheadError(p.PerObjectOverhead)
	}
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}
	return p, nil
}

// NewBase validates params and returns the accounting for a cache called name.
func NewBase(name string, params Params) (Base, error) {
	params, err := params.Validate()
	if err != nil {
		return Base{}, err
	}
	return Base{
		name:   name,
		params: params,
	}, nil
}

func (b *Base) Name() string        { return b.name }
func (b *Base) Params() Params      { return b.params }
func (b *Base) OccupiedSize() int64 { return b.occupied }
func (b *Base) ObjectCount() int64  { return b.objects }
func (b *Base) RequestCount() int64 { return b.requests }

// Logger returns a logger annotated with the cache's name.
func (b *Base) Logger() logrus.FieldLogger {
	return b.params.Logger.WithField("cache", b.name)
}

// Charge returns the capacity consumed by an object of size bytes.
func (b *Base) Charge(size int64) int64 {
	return size + b.params.PerObjectOverhead
}

// Admit accounts for a newly cached object.
func (b *Base) Admit(size int64) {
	b.occupied += b.Charge(size)
	b.objects++
}

// Release accounts for an object leaving the cache.
func (b *Base) Release(size int64) {
	b.occupied -= b.Charge(size)
	b.objects--
}

// SetUsage overwrites the occupied size and object count.
// Composite caches use it to mirror their sub-caches.
func (b *Base) SetUsage(occupied, objects int64) {
	b.occupied = occupied
	b.objects = objects
}

// CountRequest records one updating lookup.
func (b *Base) CountRequest() { b.requests++ }

// Reset clears the accounting.
func (b *Base) Reset() {
	b.occupied = 0
	b.objects = 0
	b.requests = 0
}

// Get implements [Cache.Get] in terms of the other methods:
// Check with update; on a miss, Insert, then Evict until the
// occupied size is within capacity again.
// Objects that could never fit are not inserted.
func Get(cache Cache, req *Request) Result {
	result := cache.Check(req, true)
	if result != Miss {
		return result
	}
	params := cache.Params()
	if req.Size+params.PerObjectOverhead > params.Capacity {
		params.Logger.WithFields(logrus.Fields{
			"cache":    cache.Name(),
			"obj_id":   req.ID,
			"obj_size": req.Size,
		}).Debug("object larger than cache, not inserted")
		return result
	}
	cache.Insert(req)
	for cache.OccupiedSize() > params.Capacity {
		cache.Evict(req, nil)
	}
	return result
}
