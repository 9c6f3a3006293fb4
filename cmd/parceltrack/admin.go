package main

import (
	"fmt"

	"github.com/cuemby/parceltrack/pkg/admin"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "operator maintenance commands",
}

var adminPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "clear coordination keys and KV tables for a scope, for a fresh run",
	RunE: func(cmd *cobra.Command, args []string) error {
		purgeScope, _ := cmd.Flags().GetBool("purge_scope")
		purgeRedis, _ := cmd.Flags().GetBool("purge_redis")
		if !purgeScope && !purgeRedis {
			purgeScope, purgeRedis = true, true
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
		fmt.Printf("purged scope %s\n", b.scope)
		return nil
	},
}

func init() {
	addBackendFlags(adminPurgeCmd)
	adminPurgeCmd.Flags().Bool("purge_scope", false, "delete every stream in scope and purge both KV tables")
	adminPurgeCmd.Flags().Bool("purge_redis", false, "clear the coordination keys")
	adminCmd.AddCommand(adminPurgeCmd)
}
