package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cuemby/parceltrack/pkg/pipeline"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/spf13/cobra"
)

// runExtract drives pipeline.ExtractPackage and prints each matching event
// as one JSON line, shared by "sorting-center --package_id" and the
// standalone "extract" subcommand.
func runExtract(b *backend, center types.SortingCenterCode, packageID string) error {
	events, err := pipeline.ExtractPackage(context.Background(), b.streams, b.scope, center, packageID)
	if err != nil {
		return fmt.Errorf("extract package %s from center %s: %w", packageID, center, err)
	}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "read one package's events out of a sorting center's input stream (debug correctness witness)",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("sorting_center_code")
		packageID, _ := cmd.Flags().GetString("package_id")
		if code == "" || packageID == "" {
			return fmt.Errorf("--sorting_center_code and --package_id are required")
		}

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		return runExtract(b, types.SortingCenterCode(code), packageID)
	},
}

func init() {
	addBackendFlags(extractCmd)
	extractCmd.Flags().String("sorting_center_code", "", "sorting center code: A, B, C, or D")
	extractCmd.Flags().String("package_id", "", "package id to extract")
}
