package cachesim

import "fmt"

type constError string

const (
	// ErrInvalidParams may be returned from cache constructors.
	ErrInvalidParams = constError("invalid cache parameters")
	// ErrNotCached is returned when removing an object
	// that is not held by the cache.
	ErrNotCached = constError("object not cached")
)

func (errStr constError) Error() string { return string(errStr) }

func capacityError(capacity int64) error {
	return fmt.Errorf(
		"%w: capacity must be >0 but %d was requested",
		ErrInvalidParams, capacity)
}

func overheadError(overhead int64) error {
	return fmt.Errorf(
		"%w: per-object overhead must be >=0 but %d was requested",
		ErrInvalidParams, overhead)
}

// NotCachedError wraps [ErrNotCached] with the object's id.
func NotCachedError(id ObjectID) error {
	return fmt.Errorf("%w: %d", ErrNotCached, id)
}
