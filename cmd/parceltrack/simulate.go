package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuemby/parceltrack/pkg/simulator"
	"github.com/spf13/cobra"
)

// simulateCmd mirrors simulator_cli.py: it only ever prints to stdout, one
// event per line, either Go-syntax debug form or JSON. There is no
// direct-to-stream mode in the original; piping simulate's JSON output into
// "parceltrack import" is the supported way to feed a pipeline run.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "generate a deterministic scan-event stream and print it to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		test, _ := cmd.Flags().GetBool("test")
		if !test {
			return cmd.Help()
		}

		simulatedRunTime, _ := cmd.Flags().GetInt64("simulated_run_time")
		intakeRunTime, _ := cmd.Flags().GetInt64("intake_run_time")
		packageCount, _ := cmd.Flags().GetInt("package_count")
		delayedPackageCount, _ := cmd.Flags().GetInt("delayed_package_count")
		lostPackageCount, _ := cmd.Flags().GetInt("lost_package_count")
		jsonOutput, _ := cmd.Flags().GetBool("json_output")
		seed, _ := cmd.Flags().GetInt64("seed")
		startTime, _ := cmd.Flags().GetInt64("simulated_start_time")
		if startTime == 0 {
			startTime = time.Now().Unix()
		}

		sim := simulator.New(simulator.Config{
			Seed:                    seed,
			SimulatedRunTimeMinutes: simulatedRunTime,
			IntakeRunTimeMinutes:    intakeRunTime,
			PackageCount:            packageCount,
			SimulatedStartTime:      startTime,
			DelayedPackageCount:     delayedPackageCount,
			LostPackageCount:        lostPackageCount,
		})

		for ev := range sim.Generate(context.Background()) {
			if jsonOutput {
				data, err := json.Marshal(ev)
				if err != nil {
					return fmt.Errorf("marshal event: %w", err)
				}
				fmt.Println(string(data))
			} else {
				fmt.Printf("%+v\n", ev)
			}
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int64P("simulated_run_time", "s", 1440, "total simulated running time (minutes)")
	simulateCmd.Flags().Int64P("intake_run_time", "i", 300, "simulated time over which intakes are spread (minutes)")
	simulateCmd.Flags().IntP("package_count", "p", 1, "total number of packages to simulate")
	simulateCmd.Flags().IntP("delayed_package_count", "d", 0, "number of packages to delay")
	simulateCmd.Flags().Int("lost_package_count", 0, "number of delayed packages to lose instead (must be <= delayed_package_count)")
	simulateCmd.Flags().BoolP("test", "t", false, "run the simulation and print its event stream")
	simulateCmd.Flags().BoolP("json_output", "j", false, "print one JSON event per line instead of Go-syntax debug form")
	simulateCmd.Flags().Int64("seed", 1, "random seed; identical seed and parameters reproduce byte-identical output")
	simulateCmd.Flags().Int64("simulated_start_time", 0, "unix time the first package is intaken at (default: now)")
}
