package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/types"
)

// ExtractPackage reads the whole input stream for center and yields events
// matching packageID, stopping early at the first matching "output" scan.
// Grounded on extract_sorting_center_events_by_package_id and
// filter_events_by_package_id; it is a correctness witness for debugging,
// not a performance path (spec §4.5).
func ExtractPackage(ctx context.Context, streams eventstream.Store, scope string, center types.SortingCenterCode, packageID string) ([]types.Event, error) {
	extractCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputStream := types.InputStreamName(center)
	payloads, errs := streams.Iterate(extractCtx, scope, inputStream, false)

	var result []types.Event
	for payload := range payloads {
		var ev types.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			cancel()
			<-errs
			return nil, fmt.Errorf("malformed event on %s: %w", inputStream, err)
		}
		if ev.PackageID != packageID {
			continue
		}
		result = append(result, ev)
		if ev.ScannerID == types.ScannerOutput {
			// found the terminal event; cancel so Iterate's producer
			// goroutine unblocks instead of leaking on a full send.
			cancel()
			break
		}
	}
	if err := <-errs; err != nil && extractCtx.Err() == nil {
		return nil, fmt.Errorf("read %s: %w", inputStream, err)
	}
	return result, nil
}
