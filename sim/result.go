package sim

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	cachesim "github.com/djdv/go-cachesim"
)

// Result aggregates one replay of a trace.
type Result struct {
	Algorithm string
	Capacity  int64
	Requests  int64
	Misses    int64
	// Invalid requests are counted separately and excluded from ratios.
	Invalid      int64
	RequestBytes int64
	MissBytes    int64
	Elapsed      time.Duration
}

func (r *Result) record(req *cachesim.Request, result cachesim.Result) {
	switch result {
	case cachesim.Invalid:
		r.Invalid++
		return
	case cachesim.Miss:
		r.Misses++
		r.MissBytes += req.Size
	}
	r.Requests++
	r.RequestBytes += req.Size
}

// Hits returns the number of requests that were hits.
func (r Result) Hits() int64 { return r.Requests - r.Misses }

// HitRatio is the fraction of requests that were hits.
func (r Result) HitRatio() float64 {
	if r.Requests == 0 {
		return 0
	}
	return float64(r.Hits()) / float64(r.Requests)
}

// ByteHitRatio is the fraction of requested bytes served by hits.
func (r Result) ByteHitRatio() float64 {
	if r.RequestBytes == 0 {
		return 0
	}
	return float64(r.RequestBytes-r.MissBytes) / float64(r.RequestBytes)
}

func (r Result) String() string {
	return fmt.Sprintf(
		"%s cache size %s, %d req, miss ratio %.4f, byte miss ratio %.4f",
		r.Algorithm, humanize.IBytes(uint64(r.Capacity)), r.Requests,
		1-r.HitRatio(), 1-r.ByteHitRatio(),
	)
}
