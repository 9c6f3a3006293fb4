package importer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, streams eventstream.Store, scope, stream string) []types.Event {
	t.Helper()
	payloads, errs := streams.Iterate(context.Background(), scope, stream, false)
	var events []types.Event
	for p := range payloads {
		var ev types.Event
		require.NoError(t, json.Unmarshal(p, &ev))
		events = append(events, ev)
	}
	require.NoError(t, <-errs)
	return events
}

func TestImportRoutesEventsToTheirSortingCenter(t *testing.T) {
	streams := eventstream.NewMemStore()
	input := `{"event_time":1,"sorting_center":"A","package_id":"pkg-1","scanner_id":"intake"}
{"event_time":2,"sorting_center":"B","package_id":"pkg-2","scanner_id":"intake"}
`
	require.NoError(t, Import(streams, "scope", strings.NewReader(input)))

	centerA := readAll(t, streams, "scope", types.InputStreamName(types.CenterA))
	require.Len(t, centerA, 2) // one real event + end-of-stream sentinel
	require.Equal(t, "pkg-1", centerA[0].PackageID)
	require.True(t, centerA[1].IsEndOfStream())

	centerB := readAll(t, streams, "scope", types.InputStreamName(types.CenterB))
	require.Len(t, centerB, 2)
	require.Equal(t, "pkg-2", centerB[0].PackageID)
}

func TestImportAppendsEndOfStreamEvenForCentersWithNoTraffic(t *testing.T) {
	streams := eventstream.NewMemStore()
	input := `{"event_time":1,"sorting_center":"A","package_id":"pkg-1","scanner_id":"intake"}
`
	require.NoError(t, Import(streams, "scope", strings.NewReader(input)))

	centerD := readAll(t, streams, "scope", types.InputStreamName(types.CenterD))
	require.Len(t, centerD, 1)
	require.True(t, centerD[0].IsEndOfStream())
}

func TestImportSkipsBlankLines(t *testing.T) {
	streams := eventstream.NewMemStore()
	input := "\n" + `{"event_time":1,"sorting_center":"A","package_id":"pkg-1","scanner_id":"intake"}` + "\n\n"
	require.NoError(t, Import(streams, "scope", strings.NewReader(input)))

	centerA := readAll(t, streams, "scope", types.InputStreamName(types.CenterA))
	require.Len(t, centerA, 2)
}

func TestImportRejectsMalformedLine(t *testing.T) {
	streams := eventstream.NewMemStore()
	err := Import(streams, "scope", strings.NewReader("not json\n"))
	require.Error(t, err)
}
