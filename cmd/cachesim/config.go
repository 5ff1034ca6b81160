package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/djdv/go-cachesim/arc"
	"github.com/djdv/go-cachesim/sim"
	"github.com/djdv/go-cachesim/trace"
)

type config struct {
	Trace      string         `yaml:"trace"`
	Format     string         `yaml:"format"`
	Algorithm  string         `yaml:"algorithm"`
	CacheSizes []string       `yaml:"cache_sizes"`
	Overhead   int64          `yaml:"per_object_overhead"`
	Workers    int            `yaml:"workers"`
	DirectIO   bool           `yaml:"direct_io"`
	ARC        arc.InitParams `yaml:"arc"`
}

func defaultConfig() config {
	return config{
		Format:    trace.OracleBinary.String(),
		Algorithm: "lru",
		Workers:   1,
		ARC: arc.InitParams{
			GhostListFactor: arc.DefaultGhostListFactor,
		},
	}
}

func loadConfigFile(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// parseArgs reads the config file, if any,
// then applies the flags that were set on the command line.
func parseArgs(flags *flag.FlagSet, args []string) (config, error) {
	var (
		cfg        = defaultConfig()
		configPath = flags.String("config", "", "YAML config `file`")
		tracePath  = flags.String("trace", "", "trace `file` to replay")
		format     = flags.String("format", cfg.Format, "trace format (oracleBin, csv)")
		algorithm  = flags.String("alg", cfg.Algorithm,
			"eviction algorithm ("+strings.Join(sim.Algorithms(), ", ")+")")
		sizes = flags.String("size", "",
			"comma separated cache `sizes`, e.g. 1GiB,4GiB")
		overhead = flags.Int64("overhead", 0, "per object metadata overhead in `bytes`")
		workers  = flags.Int("workers", cfg.Workers, "concurrent replays")
		directIO = flags.Bool("direct", false, "read the trace with direct I/O")
		ghost    = flags.Float64("ghost-factor", cfg.ARC.GhostListFactor,
			"ARC ghost list size relative to half the cache")
	)
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			cfg.Trace = *tracePath
		case "format":
			cfg.Format = *format
		case "alg":
			cfg.Algorithm = *algorithm
		case "size":
			cfg.CacheSizes = strings.Split(*sizes, ",")
		case "overhead":
			cfg.Overhead = *overhead
		case "workers":
			cfg.Workers = *workers
		case "direct":
			cfg.DirectIO = *directIO
		case "ghost-factor":
			cfg.ARC.GhostListFactor = *ghost
		}
	})
	if cfg.Trace == "" {
		return cfg, errors.New("no trace given")
	}
	if len(cfg.CacheSizes) == 0 {
		return cfg, errors.New("no cache size given")
	}
	return cfg, nil
}

func (cfg config) capacities() ([]int64, error) {
	capacities := make([]int64, len(cfg.CacheSizes))
	for i, size := range cfg.CacheSizes {
		bytes, err := humanize.ParseBytes(strings.TrimSpace(size))
		if err != nil {
			return nil, fmt.Errorf("cache size %q: %w", size, err)
		}
		capacities[i] = int64(bytes)
	}
	return capacities, nil
}

func (cfg config) simConfig() (sim.Config, error) {
	capacities, err := cfg.capacities()
	if err != nil {
		return sim.Config{}, err
	}
	arcParams := cfg.ARC
	return sim.Config{
		Algorithm:         cfg.Algorithm,
		AlgorithmParams:   sim.AlgorithmParams{ARC: &arcParams},
		Capacities:        capacities,
		PerObjectOverhead: cfg.Overhead,
		Workers:           cfg.Workers,
	}, nil
}
