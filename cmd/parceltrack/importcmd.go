package main

import (
	"fmt"
	"os"

	"github.com/cuemby/parceltrack/pkg/admin"
	"github.com/cuemby/parceltrack/pkg/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "route a JSON-lines event file to the sorting centers' input streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		importFile, _ := cmd.Flags().GetString("import_file")
		purgeScope, _ := cmd.Flags().GetBool("purge_scope")
		purgeRedis, _ := cmd.Flags().GetBool("purge_redis")
		if importFile == "" {
			return fmt.Errorf("--import_file is required")
		}

		b, err := newBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		if purgeRedis {
			if err := admin.PurgeKeys(b.coord); err != nil {
				return fmt.Errorf("purge coordination keys: %w", err)
			}
		}
		if purgeScope {
			if err := admin.PurgeScope(b.streams, b.kv, b.scope); err != nil {
				return fmt.Errorf("purge scope: %w", err)
			}
		}

		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open import file %s: %w", importFile, err)
		}
		defer f.Close()

		if err := importer.Import(b.streams, b.scope, f); err != nil {
			return fmt.Errorf("import %s: %w", importFile, err)
		}
		fmt.Printf("imported %s into scope %s\n", importFile, b.scope)
		return nil
	},
}

func init() {
	addBackendFlags(importCmd)
	importCmd.Flags().StringP("import_file", "i", "", "path to a JSON-lines event file")
	importCmd.Flags().Bool("purge_scope", false, "delete this scope's streams and purge both KV tables before importing")
	importCmd.Flags().Bool("purge_redis", false, "purge the coordination keys before importing")
}
