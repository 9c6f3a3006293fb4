// Package admin implements operator maintenance actions, currently the
// purge path (spec §4.9/C8, SPEC_FULL.md §10 item 5) used to reset
// coordination state, streams, and KV tables between simulation runs.
// Grounded on original_source/pravega_util.py's purge_scope (delete every
// stream and KV table in a scope) and purge_redis (clear ALL_REDIS_KEYS),
// which an operator there ran as a standalone CLI against a live Pravega
// scope and Redis keyspace by hand; spec §7 calls out that re-processing a
// stream is only idempotent once this state is cleared.
package admin

import (
	"fmt"

	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
)

// PurgeTabler is implemented by every kvtable.Store backend
// (kvtable.MemStore and kvtable.BoltStore both provide PurgeTable) to clear
// a table without deleting the store itself.
type PurgeTabler interface {
	PurgeTable(table string) error
}

// Purge clears every coordination key spec §3 names, every stream in scope,
// and both KV tables, for a fresh simulation run. It is PurgeKeys and
// PurgeScope combined, matching "admin purge"'s default behavior of
// clearing everything.
func Purge(coord coordstore.Store, streams eventstream.Store, kv kvtable.Store, scope string) error {
	if err := PurgeKeys(coord); err != nil {
		return err
	}
	return PurgeScope(streams, kv, scope)
}

// PurgeKeys clears ALL_REDIS_KEYS's Go equivalent: next_package_event,
// next_package_scanner, late_packages, clock_sync. Exposed separately so
// "import --purge_redis" can clear coordination state without touching the
// KV tables.
func PurgeKeys(coord coordstore.Store) error {
	for _, key := range types.AllCoordinationKeys {
		if err := coord.Del(key); err != nil {
			return fmt.Errorf("delete coordination key %s: %w", key, err)
		}
	}
	return nil
}

// PurgeScope deletes every stream in scope and clears both KV tables,
// mirroring pravega_util.py's purge_scope in one call. Exposed separately
// from PurgeKeys so "import --purge_scope" can reset stream/KV state
// without touching coordination keys, matching purge_scope and purge_redis
// being independent flags in the original CLI.
func PurgeScope(streams eventstream.Store, kv kvtable.Store, scope string) error {
	if err := streams.DeleteScope(scope); err != nil {
		return fmt.Errorf("delete streams in scope %s: %w", scope, err)
	}
	return PurgeTables(kv)
}

// PurgeTables clears both KV tables. Exposed separately so callers that
// only need the KV side (tests, PurgeScope) don't have to touch streams.
func PurgeTables(kv kvtable.Store) error {
	purger, ok := kv.(PurgeTabler)
	if !ok {
		return fmt.Errorf("kv store does not support table purge: %T", kv)
	}
	for _, table := range []string{types.PackageAttributesTable, types.PackageEventsTable} {
		if err := purger.PurgeTable(table); err != nil {
			return fmt.Errorf("purge table %s: %w", table, err)
		}
	}
	return nil
}
