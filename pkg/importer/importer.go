// Package importer is the import router (spec §4.7, C9): it reads a
// JSON-lines file of scan events and routes each one to its sorting
// center's input stream, grounded on import_events.py's write_to_streams.
//
// It also appends an explicit end-of-stream sentinel per center once the
// input file is exhausted (spec §4.7), bounding how long a worker launched
// with --wait_for_events will block on a center that never saw traffic.
package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/metrics"
	"github.com/cuemby/parceltrack/pkg/types"
)

const endOfStreamDelaySeconds = 86400

// Import reads newline-delimited JSON events from r and publishes each to
// its sorting center's input stream, partitioned by package_id. After r is
// exhausted, it publishes one end-of-stream sentinel to every center's
// stream, timestamped at that center's last event_time plus 24 simulated
// hours (a center that saw no events gets a sentinel at 86400).
func Import(streams eventstream.Store, scope string, r io.Reader) error {
	for _, center := range types.SortingCenterCodes {
		if _, err := streams.CreateScopeAndStream(scope, types.InputStreamName(center)); err != nil {
			return fmt.Errorf("create stream for center %s: %w", center, err)
		}
	}

	lastEventTime := make(map[types.SortingCenterCode]int64)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev types.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("parse event: %w", err)
		}

		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		stream := types.InputStreamName(ev.SortingCenter)
		if err := streams.Publish(scope, stream, ev.PackageID, data); err != nil {
			return fmt.Errorf("publish to %s: %w", stream, err)
		}
		lastEventTime[ev.SortingCenter] = ev.EventTime
		metrics.ImportedEventsTotal.Inc()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	for _, center := range types.SortingCenterCodes {
		sentinel := types.Event{
			EventTime:     lastEventTime[center] + endOfStreamDelaySeconds,
			SortingCenter: center,
			ScannerID:     types.ScannerEndOfStream,
		}
		data, err := json.Marshal(sentinel)
		if err != nil {
			return fmt.Errorf("marshal end-of-stream sentinel: %w", err)
		}
		stream := types.InputStreamName(center)
		if err := streams.Publish(scope, stream, "", data); err != nil {
			return fmt.Errorf("publish end-of-stream to %s: %w", stream, err)
		}
	}
	return nil
}
