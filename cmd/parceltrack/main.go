// Command parceltrack is the single binary hosting every tool the parcel
// tracking pipeline needs: the deterministic simulator, the file importer,
// the sorting-center pipeline worker, the trouble reporter, and an admin
// purge command. Grounded on cmd/warren's root-command-plus-subcommands
// layout: one cobra.Command tree, PersistentFlags for logging setup run via
// cobra.OnInitialize, RunE functions for every leaf command.
package main

import (
	"fmt"
	"os"

	"github.com/cuemby/parceltrack/pkg/log"
	"github.com/cuemby/parceltrack/pkg/metrics"
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	metrics.SetVersion(Version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "parceltrack",
	Short:   "parceltrack - deterministic parcel sorting and tracking pipeline",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("parceltrack version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "output logs in JSON format")
	rootCmd.PersistentFlags().String("run-id", "", "tag every log line with this id, to tell concurrent runs apart")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sortingCenterCmd)
	rootCmd.AddCommand(troubleReporterCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(runCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	runID, _ := rootCmd.PersistentFlags().GetString("run-id")

	log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOutput,
		RunID:      runID,
	})
}
