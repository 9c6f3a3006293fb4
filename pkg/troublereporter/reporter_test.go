package troublereporter

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestFormatTroubleEventVariants(t *testing.T) {
	attrs := types.PackageAttributes{Weight: 5, DeclaredValue: 50, Origin: types.CenterA, Destination: types.CenterB, EstimatedDeliveryTime: 1000}

	late := FormatTroubleEvent(types.TroubleEvent{EventType: types.TroubleLateDelivery, PackageID: "pkg-1", EventTime: 2000}, attrs)
	require.Contains(t, late, "late")
	require.Contains(t, late, "pkg-1")

	lost := FormatTroubleEvent(types.TroubleEvent{EventType: types.TroubleLostPackage, PackageID: "pkg-2"}, types.PackageAttributes{})
	require.Contains(t, lost, "LOST")
	require.Contains(t, lost, "weight ?")

	delayed := FormatTroubleEvent(types.TroubleEvent{EventType: types.TroubleDelayedPackage, PackageID: "pkg-3", NextScannerID: types.ScannerWeighing}, attrs)
	require.Contains(t, delayed, "delay")
	require.Contains(t, delayed, "before weighing")
}

func TestRunWritesOneLinePerTroubleEventAndDrains(t *testing.T) {
	streams := eventstream.NewMemStore()
	kv := kvtable.NewMemStore()

	attrs, _ := json.Marshal(types.PackageAttributes{Weight: 5})
	require.NoError(t, kv.Put(types.PackageAttributesTable, "pkg-1", attrs))

	_, _ = streams.CreateScopeAndStream("scope", types.TroubleStreamName)
	ev, _ := json.Marshal(types.TroubleEvent{EventType: types.TroubleLostPackage, PackageID: "pkg-1"})
	require.NoError(t, streams.Publish("scope", types.TroubleStreamName, "pkg-1", ev))

	var out bytes.Buffer
	r := &Reporter{Streams: streams, KV: kv, Scope: "scope", Out: &out}
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "LOST")
	require.Contains(t, lines[0], "weight 5")
}

func TestRunRejectsMalformedTroubleEvent(t *testing.T) {
	streams := eventstream.NewMemStore()
	kv := kvtable.NewMemStore()
	_, _ = streams.CreateScopeAndStream("scope", types.TroubleStreamName)
	require.NoError(t, streams.Publish("scope", types.TroubleStreamName, "x", []byte("not json")))

	r := &Reporter{Streams: streams, KV: kv, Scope: "scope", Out: &bytes.Buffer{}}
	require.Error(t, r.Run(context.Background()))
}
