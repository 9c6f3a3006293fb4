package admin

import (
	"context"
	"testing"

	"github.com/cuemby/parceltrack/pkg/coordstore/memstore"
	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestPurgeKeysClearsAllCoordinationKeys(t *testing.T) {
	coord := memstore.New()
	require.NoError(t, coord.ZAdd(types.NextPackageEventKey, 1, "pkg-1"))
	require.NoError(t, coord.HSet(types.NextPackageScannerKey, "pkg-1", "A/weighing"))
	_, err := coord.SAdd(types.LatePackagesKey, "pkg-1")
	require.NoError(t, err)
	require.NoError(t, coord.ZAdd(types.ClockSyncKey, 1, "A"))

	require.NoError(t, PurgeKeys(coord))

	scored, err := coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, 100)
	require.NoError(t, err)
	require.Empty(t, scored)

	_, ok, err := coord.HGet(types.NextPackageScannerKey, "pkg-1")
	require.NoError(t, err)
	require.False(t, ok)

	members, err := coord.SMembers(types.LatePackagesKey)
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestPurgeTablesClearsBothKVTables(t *testing.T) {
	kv := kvtable.NewMemStore()
	require.NoError(t, kv.Put(types.PackageAttributesTable, "pkg-1", []byte("{}")))
	require.NoError(t, kv.Put(types.PackageEventsTable, "pkg-1", []byte("[]")))

	require.NoError(t, PurgeTables(kv))

	_, err := kv.Get(types.PackageAttributesTable, "pkg-1")
	require.ErrorIs(t, err, kvtable.ErrNotFound)
	_, err = kv.Get(types.PackageEventsTable, "pkg-1")
	require.ErrorIs(t, err, kvtable.ErrNotFound)
}

// stubKV implements kvtable.Store without PurgeTabler, to exercise the
// "store doesn't support purge" error path.
type stubKV struct{}

func (stubKV) Put(table, key string, value []byte) error { return nil }
func (stubKV) Get(table, key string) ([]byte, error)      { return nil, kvtable.ErrNotFound }
func (stubKV) Delete(table, key string) error             { return nil }
func (stubKV) Close() error                               { return nil }

func TestPurgeTablesErrorsWhenBackendDoesNotSupportIt(t *testing.T) {
	require.Error(t, PurgeTables(stubKV{}))
}

func TestPurgeScopeDeletesStreamsAndClearsKVTables(t *testing.T) {
	streams := eventstream.NewMemStore()
	kv := kvtable.NewMemStore()

	_, err := streams.CreateScopeAndStream("scope-a", "input-a")
	require.NoError(t, err)
	require.NoError(t, streams.Publish("scope-a", "input-a", "pkg-1", []byte("{}")))
	require.NoError(t, kv.Put(types.PackageAttributesTable, "pkg-1", []byte("{}")))

	require.NoError(t, PurgeScope(streams, kv, "scope-a"))

	payloads, errs := streams.Iterate(context.Background(), "scope-a", "input-a", false)
	var got int
	for range payloads {
		got++
	}
	require.NoError(t, <-errs)
	require.Zero(t, got, "deleted scope's stream should read back empty")

	_, err = kv.Get(types.PackageAttributesTable, "pkg-1")
	require.ErrorIs(t, err, kvtable.ErrNotFound)
}

func TestPurgeScopeLeavesOtherScopesAlone(t *testing.T) {
	streams := eventstream.NewMemStore()
	kv := kvtable.NewMemStore()

	_, err := streams.CreateScopeAndStream("scope-a", "input-a")
	require.NoError(t, err)
	require.NoError(t, streams.Publish("scope-a", "input-a", "pkg-1", []byte("a")))
	_, err = streams.CreateScopeAndStream("scope-b", "input-a")
	require.NoError(t, err)
	require.NoError(t, streams.Publish("scope-b", "input-a", "pkg-1", []byte("b")))

	require.NoError(t, PurgeScope(streams, kv, "scope-a"))

	payloads, errs := streams.Iterate(context.Background(), "scope-b", "input-a", false)
	var got [][]byte
	for p := range payloads {
		got = append(got, p)
	}
	require.NoError(t, <-errs)
	require.Len(t, got, 1)
}

func TestPurgeClearsCoordinationStreamsAndTablesTogether(t *testing.T) {
	coord := memstore.New()
	streams := eventstream.NewMemStore()
	kv := kvtable.NewMemStore()
	require.NoError(t, coord.ZAdd(types.NextPackageEventKey, 1, "pkg-1"))
	require.NoError(t, kv.Put(types.PackageAttributesTable, "pkg-1", []byte("{}")))
	_, err := streams.CreateScopeAndStream("scope", "input-a")
	require.NoError(t, err)

	require.NoError(t, Purge(coord, streams, kv, "scope"))

	scored, err := coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, 100)
	require.NoError(t, err)
	require.Empty(t, scored)
	_, err = kv.Get(types.PackageAttributesTable, "pkg-1")
	require.ErrorIs(t, err, kvtable.ErrNotFound)
}
