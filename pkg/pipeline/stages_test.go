package pipeline

import (
	"testing"

	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestS2RecordsIntakeAttributes(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	err := w.s2RecordAttributesAndLateDelivery(types.Event{
		EventTime:             100,
		SortingCenter:         types.CenterA,
		PackageID:             "pkg-1",
		ScannerID:             types.ScannerIntake,
		Destination:           types.CenterB,
		DeclaredValue:         50,
		EstimatedDeliveryTime: 500,
	})
	require.NoError(t, err)

	attrs, err := w.getPackageAttributes("pkg-1")
	require.NoError(t, err)
	require.Equal(t, int64(100), attrs.IntakeTime)
	require.Equal(t, types.CenterA, attrs.Origin)
	require.Equal(t, types.CenterB, attrs.Destination)
	require.Equal(t, int64(50), attrs.DeclaredValue)
	require.Equal(t, int64(500), attrs.EstimatedDeliveryTime)
}

func TestS2RecordsWeight(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)
	require.NoError(t, w.s2RecordAttributesAndLateDelivery(types.Event{
		PackageID: "pkg-1", ScannerID: types.ScannerWeighing, Weight: 12,
	}))

	attrs, err := w.getPackageAttributes("pkg-1")
	require.NoError(t, err)
	require.Equal(t, int64(12), attrs.Weight)
}

func TestS2ReportsLateDeliveryOnOutputPastEstimate(t *testing.T) {
	w, streams := newTestWorker(types.CenterA)
	_, _ = streams.CreateScopeAndStream(w.Scope, types.TroubleStreamName)

	require.NoError(t, w.s2RecordAttributesAndLateDelivery(types.Event{
		EventTime: 100, SortingCenter: types.CenterA, PackageID: "pkg-1",
		ScannerID: types.ScannerIntake, EstimatedDeliveryTime: 200,
	}))
	require.NoError(t, w.s2RecordAttributesAndLateDelivery(types.Event{
		EventTime: 300, PackageID: "pkg-1", ScannerID: types.ScannerOutput,
	}))

	trouble := readTrouble(streams, w.Scope)
	require.Len(t, trouble, 1)
	require.Equal(t, types.TroubleLateDelivery, trouble[0].EventType)
	require.Equal(t, "pkg-1", trouble[0].PackageID)
	require.Equal(t, int64(200), trouble[0].ExpectedEventTime)
}

func TestS2DoesNotReportLateDeliveryWhenOnTime(t *testing.T) {
	w, streams := newTestWorker(types.CenterA)
	_, _ = streams.CreateScopeAndStream(w.Scope, types.TroubleStreamName)

	require.NoError(t, w.s2RecordAttributesAndLateDelivery(types.Event{
		EventTime: 100, PackageID: "pkg-1", ScannerID: types.ScannerIntake, EstimatedDeliveryTime: 400,
	}))
	require.NoError(t, w.s2RecordAttributesAndLateDelivery(types.Event{
		EventTime: 300, PackageID: "pkg-1", ScannerID: types.ScannerOutput,
	}))

	require.Empty(t, readTrouble(streams, w.Scope))
}

func TestS3RecordsOnlyPublicScannersAndDedupesByEventTime(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	require.NoError(t, w.s3RecordPublicTracking(types.Event{
		EventTime: 100, SortingCenter: types.CenterA, PackageID: "pkg-1", ScannerID: types.ScannerIntake,
	}))
	require.NoError(t, w.s3RecordPublicTracking(types.Event{
		EventTime: 100, SortingCenter: types.CenterA, PackageID: "pkg-1", ScannerID: types.ScannerIntake,
	}))
	require.NoError(t, w.s3RecordPublicTracking(types.Event{
		EventTime: 50, PackageID: "pkg-1", ScannerID: types.ScannerWeighing,
	}))

	events, err := w.getPublicEvents("pkg-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, int64(100), events[0].EventTime)
}

func TestS3KeepsPublicEventsSortedByTime(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	require.NoError(t, w.s3RecordPublicTracking(types.Event{
		EventTime: 200, PackageID: "pkg-1", ScannerID: types.ScannerOutput,
	}))
	require.NoError(t, w.s3RecordPublicTracking(types.Event{
		EventTime: 100, PackageID: "pkg-1", ScannerID: types.ScannerIntake,
	}))

	events, err := w.getPublicEvents("pkg-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, int64(100), events[0].EventTime)
	require.Equal(t, int64(200), events[1].EventTime)
}

func TestS4IndexesNextExpectedEvent(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	require.NoError(t, w.s4UpdateNextEventIndex(types.Event{
		SortingCenter: types.CenterA, PackageID: "pkg-1", NextScannerID: types.ScannerWeighing, NextEventTime: 500,
	}))

	scored, err := w.Coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, 1000)
	require.NoError(t, err)
	require.Len(t, scored, 1)
	require.Equal(t, "pkg-1", scored[0].Member)
	require.Equal(t, int64(500), scored[0].Score)

	scanner, ok, err := w.Coord.HGet(types.NextPackageScannerKey, "pkg-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A/weighing", scanner)
}

func TestS4ClearsIndexWhenNoNextEvent(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)
	require.NoError(t, w.s4UpdateNextEventIndex(types.Event{
		PackageID: "pkg-1", NextScannerID: types.ScannerOutput, NextEventTime: 500,
	}))
	_, _ = w.Coord.SAdd(types.LatePackagesKey, "pkg-1")

	require.NoError(t, w.s4UpdateNextEventIndex(types.Event{PackageID: "pkg-1"}))

	scored, err := w.Coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, 1000)
	require.NoError(t, err)
	require.Empty(t, scored)

	_, ok, err := w.Coord.HGet(types.NextPackageScannerKey, "pkg-1")
	require.NoError(t, err)
	require.False(t, ok)

	members, err := w.Coord.SMembers(types.LatePackagesKey)
	require.NoError(t, err)
	require.Empty(t, members)
}
