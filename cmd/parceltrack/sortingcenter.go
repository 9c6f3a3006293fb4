package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/parceltrack/pkg/config"
	"github.com/cuemby/parceltrack/pkg/log"
	"github.com/cuemby/parceltrack/pkg/pipeline"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/spf13/cobra"
)

var sortingCenterCmd = &cobra.Command{
	Use:   "sorting-center",
	Short: "run one sorting center's five-stage event pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("sorting_center_code")
		if code == "" {
			return fmt.Errorf("--sorting_center_code is required")
		}
		run, _ := cmd.Flags().GetBool("run")
		maxEvents, _ := cmd.Flags().GetInt("maximum_event_count")
		waitForEvents, _ := cmd.Flags().GetBool("wait_for_events")
		reportLost, _ := cmd.Flags().GetBool("report_lost_packages")
		markFrequency, _ := cmd.Flags().GetInt64("mark_event_index_frequency")
		packageID, _ := cmd.Flags().GetString("package_id")
		configFile, _ := cmd.Flags().GetString("config")

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		if packageID != "" {
			return runExtract(b, types.SortingCenterCode(code), packageID)
		}
		if !run {
			return cmd.Help()
		}

		tunables, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}

		stopMetrics, err := startMetrics(cmd, b)
		if err != nil {
			return err
		}
		defer stopMetrics()

		w := &pipeline.Worker{
			Center:                  types.SortingCenterCode(code),
			Scope:                   b.scope,
			Streams:                 b.streams,
			KV:                      b.kv,
			Coord:                   b.coord,
			Tunables:                tunables,
			Logger:                  log.WithSortingCenter(code),
			ReportLostPackages:      reportLost,
			WaitForEvents:           waitForEvents,
			MaximumEventCount:       maxEvents,
			MarkEventIndexFrequency: markFrequency,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return w.Run(ctx)
	},
}

func init() {
	addBackendFlags(sortingCenterCmd)
	addMetricsFlags(sortingCenterCmd)
	sortingCenterCmd.Flags().String("sorting_center_code", "", "sorting center code: A, B, C, or D")
	sortingCenterCmd.Flags().Bool("run", false, "consume the input stream until it drains")
	sortingCenterCmd.Flags().Int("maximum_event_count", 0, "stop after this many events (debug), 0 for unlimited")
	sortingCenterCmd.Flags().Bool("wait_for_events", false, "block until at least one event has arrived before declaring end of stream")
	sortingCenterCmd.Flags().Bool("report_lost_packages", false, "after drain, sweep late_packages and emit lost_package trouble events (exactly one worker per run)")
	sortingCenterCmd.Flags().Int64("mark_event_index_frequency", 0, "log a debug marker every N processed events, 0 to disable")
	sortingCenterCmd.Flags().String("package_id", "", "debug mode: extract one package's events from this center's input stream and exit")
	sortingCenterCmd.Flags().String("config", "", "YAML tunables file overlaying the recommended defaults")
}
