package pipeline

import (
	"context"
	"encoding/json"

	"github.com/cuemby/parceltrack/pkg/config"
	"github.com/cuemby/parceltrack/pkg/coordstore/memstore"
	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/rs/zerolog"
)

func newTestWorker(center types.SortingCenterCode) (*Worker, eventstream.Store) {
	streams := eventstream.NewMemStore()
	w := &Worker{
		Center:   center,
		Scope:    "test",
		Streams:  streams,
		KV:       kvtable.NewMemStore(),
		Coord:    memstore.New(),
		Tunables: config.Defaults(),
		Logger:   zerolog.Nop(),
	}
	return w, streams
}

func readTrouble(streams eventstream.Store, scope string) []types.TroubleEvent {
	payloads, _ := streams.Iterate(context.Background(), scope, types.TroubleStreamName, false)
	var out []types.TroubleEvent
	for payload := range payloads {
		var ev types.TroubleEvent
		if err := json.Unmarshal(payload, &ev); err == nil {
			out = append(out, ev)
		}
	}
	return out
}
