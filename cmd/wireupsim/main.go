// Command wireupsim drives wireup.Select against a JSON-described scenario
// of local transport resources and a remote address list, without needing
// a real UCX worker. It exists purely to exercise and demonstrate the
// selector; it owns no part of the core algorithm.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/NVIDIA/ucx-wireup/cmn/config"
	"github.com/NVIDIA/ucx-wireup/cmn/nlog"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

func main() {
	// Flags are parsed inside Execute, so --config and --verbose are
	// applied in a pre-run hook rather than before Execute.
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		if cfgFile != "" {
			if _, err := config.Load(cfgFile); err != nil {
				nlog.Errorf("config: %v", err)
				return err
			}
		}
		if verbose {
			nlog.Configure("debug", config.GCOGet().Log.Format, os.Stderr)
		}
		return nil
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
