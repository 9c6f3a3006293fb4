package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/parceltrack/pkg/troublereporter"
	"github.com/spf13/cobra"
)

var troubleReporterCmd = &cobra.Command{
	Use:   "trouble-reporter",
	Short: "tail the trouble stream and print a formatted line per event",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, _ := cmd.Flags().GetBool("run")
		if !run {
			return cmd.Help()
		}
		waitForEvents, _ := cmd.Flags().GetBool("wait_for_events")

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		r := &troublereporter.Reporter{
			Streams:       b.streams,
			KV:            b.kv,
			Scope:         b.scope,
			Out:           os.Stdout,
			WaitForEvents: waitForEvents,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := r.Run(ctx); err != nil {
			return fmt.Errorf("trouble reporter: %w", err)
		}
		return nil
	},
}

func init() {
	addBackendFlags(troubleReporterCmd)
	troubleReporterCmd.Flags().Bool("run", false, "consume the trouble stream until it drains")
	troubleReporterCmd.Flags().Bool("wait_for_events", false, "block until at least one trouble event has arrived before declaring end of stream")
}
