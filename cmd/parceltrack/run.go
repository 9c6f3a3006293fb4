package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cuemby/parceltrack/pkg/config"
	"github.com/cuemby/parceltrack/pkg/importer"
	"github.com/cuemby/parceltrack/pkg/log"
	"github.com/cuemby/parceltrack/pkg/pipeline"
	"github.com/cuemby/parceltrack/pkg/simulator"
	"github.com/cuemby/parceltrack/pkg/troublereporter"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/spf13/cobra"
)

// runCmd is an end-to-end convenience command not named in spec §6: it
// wires a simulator run through the importer into all four sorting-center
// workers and the trouble reporter, sharing one in-process backend. This is
// the realistic single-binary usage the eventstream.MemStore doc comment
// describes ("the whole four-center pipeline plus the trouble reporter as
// goroutines sharing memory"); the individual subcommands exist for the
// spec's CLI surface and for piping simulate's output into a separate
// import invocation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "simulate, import, and process one end-to-end pipeline run in a single process",
	RunE: func(cmd *cobra.Command, args []string) error {
		packageCount, _ := cmd.Flags().GetInt("package_count")
		delayedPackageCount, _ := cmd.Flags().GetInt("delayed_package_count")
		lostPackageCount, _ := cmd.Flags().GetInt("lost_package_count")
		simulatedRunTime, _ := cmd.Flags().GetInt64("simulated_run_time")
		intakeRunTime, _ := cmd.Flags().GetInt64("intake_run_time")
		seed, _ := cmd.Flags().GetInt64("seed")
		configFile, _ := cmd.Flags().GetString("config")

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		tunables, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}

		sim := simulator.New(simulator.Config{
			Seed:                    seed,
			SimulatedRunTimeMinutes: simulatedRunTime,
			IntakeRunTimeMinutes:    intakeRunTime,
			PackageCount:            packageCount,
			SimulatedStartTime:      time.Now().Unix(),
			DelayedPackageCount:     delayedPackageCount,
			LostPackageCount:        lostPackageCount,
		})

		stopMetrics, err := startMetrics(cmd, b)
		if err != nil {
			return err
		}
		defer stopMetrics()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		pr, pw := io.Pipe()
		go func() {
			enc := json.NewEncoder(pw)
			for ev := range sim.Generate(ctx) {
				if err := enc.Encode(ev); err != nil {
					pw.CloseWithError(err)
					return
				}
			}
			pw.Close()
		}()

		if err := importer.Import(b.streams, b.scope, pr); err != nil {
			return fmt.Errorf("import simulated events: %w", err)
		}

		errs := make(chan error, len(types.SortingCenterCodes)+1)

		var centersWG sync.WaitGroup
		for i, center := range types.SortingCenterCodes {
			w := &pipeline.Worker{
				Center:             center,
				Scope:              b.scope,
				Streams:            b.streams,
				KV:                 b.kv,
				Coord:              b.coord,
				Tunables:           tunables,
				Logger:             log.WithSortingCenter(string(center)),
				ReportLostPackages: i == 0,
				WaitForEvents:      true,
			}
			centersWG.Add(1)
			go func() {
				defer centersWG.Done()
				if err := w.Run(ctx); err != nil {
					errs <- fmt.Errorf("sorting center %s: %w", w.Center, err)
				}
			}()
		}

		r := &troublereporter.Reporter{
			Streams:       b.streams,
			KV:            b.kv,
			Scope:         b.scope,
			Out:           os.Stdout,
			WaitForEvents: true,
		}
		reporterDone := make(chan struct{})
		go func() {
			defer close(reporterDone)
			if err := r.Run(ctx); err != nil {
				errs <- fmt.Errorf("trouble reporter: %w", err)
			}
		}()

		// The reporter's wait_for_events read blocks until the trouble stream
		// sees its first event, which a run with nothing to report never
		// produces. Once every center worker has finished (so no further
		// trouble events can be published), Finish unblocks it.
		centersWG.Wait()
		b.streams.Finish(b.scope, types.TroubleStreamName)
		<-reporterDone

		close(errs)
		for err := range errs {
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	addBackendFlags(runCmd)
	addMetricsFlags(runCmd)
	runCmd.Flags().IntP("package_count", "p", 10, "total number of packages to simulate")
	runCmd.Flags().IntP("delayed_package_count", "d", 0, "number of packages to delay")
	runCmd.Flags().Int("lost_package_count", 0, "number of delayed packages to lose instead")
	runCmd.Flags().Int64P("simulated_run_time", "s", 1440, "total simulated running time (minutes)")
	runCmd.Flags().Int64("intake_run_time", 300, "simulated time over which intakes are spread (minutes)")
	runCmd.Flags().Int64("seed", 1, "random seed")
	runCmd.Flags().String("config", "", "YAML tunables file overlaying the recommended defaults")
}
