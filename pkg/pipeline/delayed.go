package pipeline

import (
	"fmt"
	"time"

	"github.com/cuemby/parceltrack/pkg/types"
)

// reportDelayedPackages is report_delayed_packages: vote this worker's
// current simulated time into the clock-sync sorted set, find the slowest
// worker, and only treat packages as delayed relative to that worker's
// clock. This keeps one fast worker from declaring another center's
// in-flight packages delayed before that center has had a chance to process
// them (spec scenario 5, the clock barrier).
func (w *Worker) reportDelayedPackages(eventTime int64) error {
	if err := w.Coord.ZAdd(types.ClockSyncKey, eventTime, string(w.Center)); err != nil {
		return fmt.Errorf("zadd clock sync: %w", err)
	}

	earlier, err := w.Coord.ZRangeByScoreWithScores(types.ClockSyncKey, 0, eventTime)
	if err != nil {
		return fmt.Errorf("zrange clock sync: %w", err)
	}

	effectiveEventTime := eventTime
	if len(earlier) > 0 {
		earliest := earlier[0]
		diff := eventTime - earliest.Score
		if diff > w.Tunables.SyncThreshold {
			// give the slower center's worker a chance to catch up.
			time.Sleep(w.Tunables.SleepProcessTime)
		}
		effectiveEventTime = earliest.Score
	}

	candidates, err := w.Coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, effectiveEventTime)
	if err != nil {
		return fmt.Errorf("zrange next event: %w", err)
	}

	var toRemove []string
	for _, c := range candidates {
		expected := c.Score
		if effectiveEventTime-expected < w.Tunables.MinimumLatePackageSeconds {
			continue
		}

		wasNew, err := w.Coord.SAdd(types.LatePackagesKey, c.Member)
		if err != nil {
			return fmt.Errorf("sadd late packages: %w", err)
		}
		if !wasNew {
			continue
		}

		nextScanner, _, err := w.Coord.HGet(types.NextPackageScannerKey, c.Member)
		if err != nil {
			return fmt.Errorf("hget next scanner: %w", err)
		}

		w.Logger.Warn().
			Str("package_id", c.Member).
			Int64("expected_event_time", expected).
			Int64("event_time", effectiveEventTime).
			Str("next_scanner", nextScanner).
			Msg("delayed package")

		if err := w.publishTrouble(types.TroubleEvent{
			EventTime:         effectiveEventTime,
			EventType:         types.TroubleDelayedPackage,
			PackageID:         c.Member,
			SortingCenter:     w.Center,
			ExpectedEventTime: expected,
			NextScannerID:     types.ScannerID(nextScanner),
		}); err != nil {
			return fmt.Errorf("publish delayed trouble event: %w", err)
		}
		toRemove = append(toRemove, c.Member)
	}

	if len(toRemove) > 0 {
		if err := w.Coord.ZRem(types.NextPackageEventKey, toRemove...); err != nil {
			return fmt.Errorf("zrem next event: %w", err)
		}
	}
	return nil
}

// reportLostPackages is the optional terminal action: after the input
// stream drains, sweep late_packages and emit one lost_package trouble event
// per member still present (report_lost_packages_to_stream). Exactly one
// worker per run should be launched with ReportLostPackages set.
func (w *Worker) reportLostPackages() error {
	members, err := w.Coord.SMembers(types.LatePackagesKey)
	if err != nil {
		return fmt.Errorf("smembers late packages: %w", err)
	}
	for _, packageID := range members {
		w.Logger.Debug().Str("package_id", packageID).Msg("lost package")
		if err := w.publishTrouble(types.TroubleEvent{
			EventTime: w.lastEventTime,
			EventType: types.TroubleLostPackage,
			PackageID: packageID,
		}); err != nil {
			return fmt.Errorf("publish lost trouble event: %w", err)
		}
	}
	return nil
}
