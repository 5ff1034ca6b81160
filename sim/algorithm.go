package sim

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/arc"
	"github.com/djdv/go-cachesim/lru"
)

type (
	// AlgorithmParams carry per-algorithm tunables.
	AlgorithmParams struct {
		ARC *arc.InitParams `yaml:"arc"`
	}

	constructor func(cachesim.Params, AlgorithmParams) (cachesim.Cache, error)
)

func algorithms() map[string]constructor {
	return map[string]constructor{
		"lru": func(params cachesim.Params, _ AlgorithmParams) (cachesim.Cache, error) {
			return lru.New(params)
		},
		"arc": func(params cachesim.Params, algorithm AlgorithmParams) (cachesim.Cache, error) {
			return arc.New(params, algorithm.ARC)
		},
	}
}

// Algorithms returns the names accepted by [NewCache].
func Algorithms() []string {
	return slices.Sorted(maps.Keys(algorithms()))
}

// NewCache constructs the algorithm called name (case insensitive).
func NewCache(name string, params cachesim.Params, algorithm AlgorithmParams) (cachesim.Cache, error) {
	ctor, ok := algorithms()[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %q (have %s)",
			cachesim.ErrInvalidParams, name, strings.Join(Algorithms(), ", "))
	}
	return ctor(params, algorithm)
}
