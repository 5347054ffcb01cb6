package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/wireup"
)

var selectCmd = &cobra.Command{
	Use:   "select <scenario.json>",
	Short: "Run wireup.Select once against a scenario file and print the resulting lanes",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

func runSelect(_ *cobra.Command, args []string) error {
	s, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	cfg := &config.GCOGet().Selection
	out, err := wireup.Select(s.Resources, s.Remotes, s.reachable(), s.Params, cfg)
	if err != nil {
		fmt.Printf("UNREACHABLE: %v\n", err)
		return nil
	}
	printEpConfig(out)
	return nil
}

func printEpConfig(cfg *wireup.EpConfig) {
	fmt.Printf("lanes: %d\n", cfg.NumLanes)
	for i, ln := range cfg.Lanes {
		fmt.Printf("  [%d] local=%d remote_idx=%d remote_md=%d proxy_lane=%s\n",
			i, ln.LocalResource, cfg.LaneRemoteIdx[i], ln.RemoteMD, laneRef(ln.ProxyLane, cfg.MaxLanes))
	}
	fmt.Printf("am_lane=%s tag_lane=%s wireup_lane=%s\n",
		laneRef(cfg.AMLane, cfg.MaxLanes), laneRef(cfg.TagLane, cfg.MaxLanes), laneRef(cfg.WireupLane, cfg.MaxLanes))
	fmt.Printf("rma_lanes=%v\n", cfg.RMALanes)
	fmt.Printf("rma_bw_lanes=%v rma_bw_md_map=%#x\n", cfg.RMABWLanes, uint64(cfg.RMABWMDMap))
	fmt.Printf("amo_lanes=%v\n", cfg.AMOLanes)
	fmt.Printf("am_bw_lanes=%v\n", cfg.AMBWLanes)
	fmt.Printf("init_flags=%#x\n", uint64(cfg.InitFlags))
}

func laneRef(idx, none int) string {
	if idx == none {
		return "NONE"
	}
	return fmt.Sprintf("%d", idx)
}
