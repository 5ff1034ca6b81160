// Package sim replays traces through caches and aggregates the results.
//
// Each replay owns its cache and its trace reader;
// nothing mutable is shared between concurrent replays.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/trace"
)

type (
	// Config describes a set of replays that differ only in capacity.
	Config struct {
		Logger            logrus.FieldLogger
		Algorithm         string
		AlgorithmParams   AlgorithmParams
		Capacities        []int64
		PerObjectOverhead int64
		// Workers bounds the number of concurrent replays;
		// values <1 run one replay at a time.
		Workers int
	}

	// Opener returns a fresh reader positioned at the start of the trace.
	Opener func() (*trace.Reader, error)
)

// cancelCheckInterval is how many requests are replayed
// between checks of the context.
const cancelCheckInterval = 1 << 16

// Run replays every remaining request of reader through cache.
func Run(ctx context.Context, reader *trace.Reader, cache cachesim.Cache) (Result, error) {
	var (
		started = time.Now()
		result  = Result{
			Algorithm: cache.Name(),
			Capacity:  cache.Params().Capacity,
		}
		req = new(cachesim.Request)
	)
	for n := 1; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, err
			}
		}
		err := reader.ReadOne(req)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", reader.Path(), err)
		}
		result.record(req, cache.Get(req))
	}
	result.Elapsed = time.Since(started)
	return result, nil
}

// RunSizes replays the trace once per capacity, concurrently.
// Results are returned in the order of config.Capacities.
func RunSizes(ctx context.Context, open Opener, config Config) ([]Result, error) {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	var (
		results     = make([]Result, len(config.Capacities))
		group, gctx = errgroup.WithContext(ctx)
	)
	group.SetLimit(max(config.Workers, 1))
	for i, capacity := range config.Capacities {
		group.Go(func() error {
			params := cachesim.Params{
				Logger:            logger,
				Capacity:          capacity,
				PerObjectOverhead: config.PerObjectOverhead,
			}
			result, err := runOne(gctx, open, config, params)
			if err != nil {
				return fmt.Errorf("%s with capacity %d: %w",
					config.Algorithm, capacity, err)
			}
			logger.WithFields(logrus.Fields{
				"algorithm":      result.Algorithm,
				"capacity":       result.Capacity,
				"requests":       result.Requests,
				"hit_ratio":      result.HitRatio(),
				"byte_hit_ratio": result.ByteHitRatio(),
				"elapsed":        result.Elapsed,
			}).Debug("replay finished")
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, open Opener, config Config, params cachesim.Params) (result Result, err error) {
	cache, err := NewCache(config.Algorithm, params, config.AlgorithmParams)
	if err != nil {
		return result, err
	}
	defer cache.Free()
	reader, err := open()
	if err != nil {
		return result, err
	}
	defer func() { err = errors.Join(err, reader.Close()) }()
	return Run(ctx, reader, cache)
}
