package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func publishEvent(t *testing.T, w *Worker, ev types.Event) {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, w.Streams.Publish(w.Scope, types.InputStreamName(w.Center), ev.PackageID, data))
}

func TestRunProcessesEventsThroughAllStages(t *testing.T) {
	w, streams := newTestWorker(types.CenterA)

	publishEvent(t, w, types.Event{
		EventTime: 100, SortingCenter: types.CenterA, PackageID: "pkg-1",
		ScannerID: types.ScannerIntake, NextScannerID: types.ScannerWeighing, NextEventTime: 200,
		Destination: types.CenterA, EstimatedDeliveryTime: 1000,
	})
	publishEvent(t, w, types.Event{
		EventTime: 200, SortingCenter: types.CenterA, PackageID: "pkg-1",
		ScannerID: types.ScannerWeighing, Weight: 5,
	})

	require.NoError(t, w.Run(context.Background()))

	attrs, err := w.getPackageAttributes("pkg-1")
	require.NoError(t, err)
	require.Equal(t, int64(5), attrs.Weight)
	require.Equal(t, int64(100), attrs.IntakeTime)

	scanner, ok, err := w.Coord.HGet(types.NextPackageScannerKey, "pkg-1")
	require.NoError(t, err)
	require.False(t, ok, "last event had no next scanner, so the index should be cleared: got %q", scanner)

	_ = streams
}

func TestRunHaltsAtMaximumEventCount(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)
	w.MaximumEventCount = 1

	publishEvent(t, w, types.Event{EventTime: 100, PackageID: "pkg-1", ScannerID: types.ScannerIntake})
	publishEvent(t, w, types.Event{EventTime: 200, PackageID: "pkg-2", ScannerID: types.ScannerIntake})

	require.NoError(t, w.Run(context.Background()))

	_, err := w.getPackageAttributes("pkg-1")
	require.NoError(t, err)
	attrs2, err := w.getPackageAttributes("pkg-2")
	require.NoError(t, err)
	require.Zero(t, attrs2.IntakeTime, "second event should not have been processed once the cap was hit")
}

func TestRunRejectsMalformedEvent(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	inputStream := types.InputStreamName(w.Center)
	_, err := w.Streams.CreateScopeAndStream(w.Scope, inputStream)
	require.NoError(t, err)
	require.NoError(t, w.Streams.Publish(w.Scope, inputStream, "bad", []byte("not json")))

	err = w.Run(context.Background())
	require.Error(t, err)
}

func TestRunSkipsEndOfStreamSentinel(t *testing.T) {
	w, _ := newTestWorker(types.CenterA)

	publishEvent(t, w, types.Event{PackageID: "pkg-1", ScannerID: types.ScannerEndOfStream})

	require.NoError(t, w.Run(context.Background()))

	attrs, err := w.getPackageAttributes("pkg-1")
	require.NoError(t, err)
	require.Zero(t, attrs.IntakeTime)
}
