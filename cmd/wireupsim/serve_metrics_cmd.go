package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/cmn/nlog"
	"github.com/NVIDIA/ucx-wireup/wireup"
)

var (
	metricsAddr   string
	metricsPeriod time.Duration
)

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics <scenario-dir>",
	Short: "Replay every scenario in a directory on a timer and export wireup.Select metrics over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE:  runServeMetrics,
}

func init() {
	serveMetricsCmd.Flags().StringVar(&metricsAddr, "addr", ":9108", "listen address for the /metrics endpoint")
	serveMetricsCmd.Flags().DurationVar(&metricsPeriod, "period", 5*time.Second, "replay interval")
}

// runServeMetrics loads every scenario file in dir once, then replays them
// against wireup.Select on a fixed timer purely to keep wireup/metrics.go's
// counters and histogram moving for local Prometheus scrape demos (spec.md
// section 9's metrics are observational, never fed back into selection).
func runServeMetrics(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(args[0])
	if err != nil {
		return err
	}

	var scenarios []*scenario
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		s, err := loadScenario(filepath.Join(args[0], e.Name()))
		if err != nil {
			nlog.Warningf("serve-metrics: skipping %s: %v", e.Name(), err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 {
		nlog.Warningf("serve-metrics: no loadable scenarios under %s", args[0])
	}

	cfg := &config.GCOGet().Selection
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go replayLoop(ctx, scenarios, cfg, metricsPeriod)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	nlog.Infof("serve-metrics: listening on %s, replaying %d scenario(s) every %s", metricsAddr, len(scenarios), metricsPeriod)
	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	return srv.ListenAndServe()
}

func replayLoop(ctx context.Context, scenarios []*scenario, cfg *config.Selection, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range scenarios {
				_, _ = wireup.Select(s.Resources, s.Remotes, s.reachable(), s.Params, cfg)
			}
		}
	}
}
