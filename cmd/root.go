package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/omap/cmd/bench"
	"github.com/ValentinKolb/omap/cmd/play"
	"github.com/ValentinKolb/omap/cmd/util"
	"github.com/ValentinKolb/omap/lib/logging"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "omap",
		Short: "observable map playground",
		Long: fmt.Sprintf(`omap (v%s)

A thread-safe, mutation-observable map library for UI binding,
with change-notification coalescing, home-goroutine marshaling
and undo integration. This CLI hosts a demo and a benchmark.`, Version),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logging.InitLoggers(level)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of omap",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("omap v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(play.PlayCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
