package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:     "wireupsim",
	Short:   "Drive the UCX wireup lane selector against a scenario file",
	Long:    "wireupsim loads a JSON scenario (local transport resources plus a remote address list) and runs it through wireup.Select, printing the resulting endpoint configuration, timing many concurrent Select calls, or exporting Select metrics over HTTP.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "selection config file (default: built-in spec constants)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}
