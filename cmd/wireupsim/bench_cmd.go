package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
)

var benchConcurrency int

var benchCmd = &cobra.Command{
	Use:   "bench <scenario.json> <n>",
	Short: "Run wireup.Select n times concurrently and report latency",
	Args:  cobra.ExactArgs(2),
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchConcurrency, "concurrency", 8, "number of concurrent Select callers")
}

func runBench(_ *cobra.Command, args []string) error {
	s, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	var n int
	if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil || n <= 0 {
		return fmt.Errorf("invalid iteration count %q", args[1])
	}

	cfg := &config.GCOGet().Selection
	reach := s.reachable()

	var g errgroup.Group
	g.SetLimit(benchConcurrency)

	start := time.Now()
	var ok, failed atomic.Int64
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := wireup.Select(s.Resources, s.Remotes, reach, s.Params, cfg)
			if err != nil {
				failed.Add(1)
			} else {
				ok.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	fmt.Printf("n=%d ok=%d failed=%d elapsed=%s avg=%s\n", n, ok.Load(), failed.Load(), elapsed, elapsed/time.Duration(n))
	return nil
}
