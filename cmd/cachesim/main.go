// Command cachesim replays a trace through an eviction algorithm
// at one or more cache sizes and prints miss ratios.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/djdv/go-cachesim/sim"
	"github.com/djdv/go-cachesim/trace"
)

func getStopCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
	}
	log := setupLogger()
	if err := run(log, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(log *logrus.Logger, args []string) error {
	flags := flag.NewFlagSet("cachesim", flag.ContinueOnError)
	cfg, err := parseArgs(flags, args)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	simConfig, err := cfg.simConfig()
	if err != nil {
		return err
	}
	simConfig.Logger = log
	options := []trace.Option{trace.WithLogger(log)}
	if cfg.DirectIO {
		options = append(options, trace.WithDirectIO())
	}
	open := func() (*trace.Reader, error) {
		return trace.Open(cfg.Trace, format, options...)
	}
	ctx, stop := getStopCtx()
	defer stop()
	log.WithFields(logrus.Fields{
		"trace":     cfg.Trace,
		"format":    format,
		"algorithm": cfg.Algorithm,
		"sizes":     len(simConfig.Capacities),
		"workers":   simConfig.Workers,
	}).Info("starting simulation")
	results, err := sim.RunSizes(ctx, open, simConfig)
	if err != nil {
		return err
	}
	for _, result := range results {
		fmt.Println(result)
	}
	return nil
}
