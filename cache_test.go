package cachesim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	cachesim "github.com/djdv/go-cachesim"
)

// fifo is a minimal cache that records the calls Get makes.
type fifo struct {
	cachesim.Base
	queue []cachesim.Object
	calls []string
}

func newFIFO(tb testing.TB, params cachesim.Params) *fifo {
	tb.Helper()
	base, err := cachesim.NewBase("FIFO", params)
	if err != nil {
		tb.Fatal(err)
	}
	return &fifo{Base: base}
}

func (f *fifo) Check(req *cachesim.Request, update bool) cachesim.Result {
	if !req.Validate() {
		return cachesim.Invalid
	}
	if update {
		f.CountRequest()
		f.calls = append(f.calls, "check")
	}
	for _, obj := range f.queue {
		if obj.ID == req.ID {
			return cachesim.Hit
		}
	}
	return cachesim.Miss
}

func (f *fifo) Get(req *cachesim.Request) cachesim.Result { return cachesim.Get(f, req) }

func (f *fifo) Insert(req *cachesim.Request) {
	f.calls = append(f.calls, "insert")
	f.queue = append(f.queue, req.Object())
	f.Admit(req.Size)
}

func (f *fifo) Evict(_ *cachesim.Request, evicted *cachesim.Object) {
	f.calls = append(f.calls, "evict")
	victim := f.queue[0]
	f.queue = f.queue[1:]
	f.Release(victim.Size)
	if evicted != nil {
		*evicted = victim
	}
}

func (f *fifo) Remove(id cachesim.ObjectID) error {
	return cachesim.NotCachedError(id)
}

func (f *fifo) Free() { f.queue = nil }

func TestParams(t *testing.T) {
	t.Parallel()
	for _, params := range []cachesim.Params{
		{Capacity: 0},
		{Capacity: -10},
		{Capacity: 10, PerObjectOverhead: -1},
	} {
		_, err := params.Validate()
		require.ErrorIs(t, err, cachesim.ErrInvalidParams)
	}
	params, err := cachesim.Params{Capacity: 10}.Validate()
	require.NoError(t, err)
	require.NotNil(t, params.Logger, "default logger")
}

func TestGet(t *testing.T) {
	t.Run("hit skips insert", getHit)
	t.Run("miss inserts", getMiss)
	t.Run("evicts until within capacity", getEvicts)
	t.Run("too large", getTooLarge)
	t.Run("invalid", getInvalid)
}

func getHit(t *testing.T) {
	t.Parallel()
	cache := newFIFO(t, cachesim.Params{Capacity: 10})
	req := cachesim.NewRequest(1, 1)
	require.Equal(t, cachesim.Miss, cache.Get(req))
	cache.calls = nil
	require.Equal(t, cachesim.Hit, cache.Get(req))
	require.Equal(t, []string{"check"}, cache.calls)
}

func getMiss(t *testing.T) {
	t.Parallel()
	cache := newFIFO(t, cachesim.Params{Capacity: 10, PerObjectOverhead: 2})
	require.Equal(t, cachesim.Miss, cache.Get(cachesim.NewRequest(1, 3)))
	require.Equal(t, []string{"check", "insert"}, cache.calls)
	require.Equal(t, int64(5), cache.OccupiedSize())
	require.Equal(t, int64(1), cache.ObjectCount())
	require.Equal(t, int64(1), cache.RequestCount())
}

func getEvicts(t *testing.T) {
	t.Parallel()
	cache := newFIFO(t, cachesim.Params{Capacity: 10})
	for id := range cachesim.ObjectID(5) {
		cache.Get(cachesim.NewRequest(id, 2))
	}
	cache.calls = nil
	cache.Get(cachesim.NewRequest(9, 5))
	require.Equal(t, []string{"check", "insert", "evict", "evict", "evict"}, cache.calls)
	require.Equal(t, int64(9), cache.OccupiedSize())
	require.LessOrEqual(t, cache.OccupiedSize(), cache.Params().Capacity)
}

func getTooLarge(t *testing.T) {
	t.Parallel()
	cache := newFIFO(t, cachesim.Params{Capacity: 10, PerObjectOverhead: 1})
	require.Equal(t, cachesim.Miss, cache.Get(cachesim.NewRequest(1, 10)))
	require.Equal(t, []string{"check"}, cache.calls)
	require.Zero(t, cache.ObjectCount())
}

func getInvalid(t *testing.T) {
	t.Parallel()
	cache := newFIFO(t, cachesim.Params{Capacity: 10})
	req := cachesim.NewRequest(1, 1)
	req.Valid = false
	require.Equal(t, cachesim.Invalid, cache.Get(req))
	require.Empty(t, cache.calls)
}

func TestResultString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "hit", cachesim.Hit.String())
	require.Equal(t, "miss", cachesim.Miss.String())
	require.Equal(t, "invalid", cachesim.Invalid.String())
}

func TestRequestCopyObject(t *testing.T) {
	t.Parallel()
	req := cachesim.Request{RealTime: 7}
	req.CopyObject(&cachesim.Object{ID: 3, Size: 4})
	require.Equal(t, cachesim.Request{RealTime: 7, ID: 3, Size: 4, Valid: true}, req)
	require.Equal(t, cachesim.Object{ID: 3, Size: 4}, req.Object())
}
