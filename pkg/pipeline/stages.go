package pipeline

import (
	"fmt"

	"github.com/cuemby/parceltrack/pkg/types"
)

// s1SaveStreamCutHint is the stream-cut hinting stage. It detects the
// hour-rollover in event_time spec §4.4 S1 requires implementers to
// preserve, but persisting a rewind position is explicitly out of scope
// (spec §1 Non-goals; grounded on save_streamcut_timestamps's own comment
// that this was never implemented). The hook exists so a future stream-cut
// persistence layer has a single insertion point.
func (w *Worker) s1SaveStreamCutHint(ev types.Event) {
	hour := ev.EventTime / 3600
	if !w.haveStreamCutBucket || hour != w.streamCutHourBucket {
		// hour rolled over; this is where a stream-cut would be recorded.
	}
	w.streamCutHourBucket = hour
	w.haveStreamCutBucket = true
}

// s2RecordAttributesAndLateDelivery is the package-attributes stage,
// grounded on record_intake_and_weight_and_output and report_late_delivery.
// It only touches the KV record on intake, weighing, and output scans.
func (w *Worker) s2RecordAttributesAndLateDelivery(ev types.Event) error {
	switch ev.ScannerID {
	case types.ScannerIntake, types.ScannerWeighing, types.ScannerOutput:
	default:
		return nil
	}

	attrs, err := w.getPackageAttributes(ev.PackageID)
	if err != nil {
		return err
	}

	switch ev.ScannerID {
	case types.ScannerWeighing:
		attrs.Weight = ev.Weight
	case types.ScannerOutput:
		attrs.DeliveredTime = ev.EventTime
		if err := w.reportLateDelivery(ev.PackageID, attrs); err != nil {
			return err
		}
	case types.ScannerIntake:
		attrs.IntakeTime = ev.EventTime
		attrs.Destination = ev.Destination
		attrs.Origin = ev.SortingCenter
		attrs.DeclaredValue = ev.DeclaredValue
		attrs.EstimatedDeliveryTime = ev.EstimatedDeliveryTime
	}

	return w.putPackageAttributes(ev.PackageID, attrs)
}

// reportLateDelivery emits a late_delivery trouble event when a package's
// output scan happened after its estimated_delivery_time.
func (w *Worker) reportLateDelivery(packageID string, attrs types.PackageAttributes) error {
	if attrs.EstimatedDeliveryTime == 0 {
		return nil
	}
	if attrs.EstimatedDeliveryTime >= attrs.DeliveredTime {
		return nil
	}

	w.Logger.Debug().
		Str("package_id", packageID).
		Int64("expected_event_time", attrs.EstimatedDeliveryTime).
		Int64("event_time", attrs.DeliveredTime).
		Msg("late delivery")

	return w.publishTrouble(types.TroubleEvent{
		EventTime:         attrs.DeliveredTime,
		EventType:         types.TroubleLateDelivery,
		PackageID:         packageID,
		SortingCenter:     w.Center,
		ExpectedEventTime: attrs.EstimatedDeliveryTime,
	})
}

// s3RecordPublicTracking appends ev to the package-events KV record when its
// scanner is on the public tracking allow-list, deduping by event_time and
// keeping the list sorted (record_public_tracking_events).
func (w *Worker) s3RecordPublicTracking(ev types.Event) error {
	if !types.PublicScanners[ev.ScannerID] {
		return nil
	}

	events, err := w.getPublicEvents(ev.PackageID)
	if err != nil {
		return err
	}
	for _, existing := range events {
		if existing.EventTime == ev.EventTime {
			return nil
		}
	}
	events = append(events, types.PublicEvent{
		EventTime:     ev.EventTime,
		SortingCenter: ev.SortingCenter,
		ScannerID:     ev.ScannerID,
	})
	sortPublicEventsByTime(events)
	return w.putPublicEvents(ev.PackageID, events)
}

// s4UpdateNextEventIndex maintains the coordination store's next-expected-
// event sorted set and next-expected-scanner hash, grounded on
// update_next_event_time.
func (w *Worker) s4UpdateNextEventIndex(ev types.Event) error {
	if ev.HasNextEvent() {
		if err := w.Coord.ZAdd(types.NextPackageEventKey, ev.NextEventTime, ev.PackageID); err != nil {
			return fmt.Errorf("zadd next event: %w", err)
		}
		nextCenter := ev.NextSortingCenterOrSelf()
		if err := w.Coord.HSet(types.NextPackageScannerKey, ev.PackageID,
			fmt.Sprintf("%s/%s", nextCenter, ev.NextScannerID)); err != nil {
			return fmt.Errorf("hset next scanner: %w", err)
		}
	} else {
		if err := w.Coord.ZRem(types.NextPackageEventKey, ev.PackageID); err != nil {
			return fmt.Errorf("zrem next event: %w", err)
		}
		if err := w.Coord.HDel(types.NextPackageScannerKey, ev.PackageID); err != nil {
			return fmt.Errorf("hdel next scanner: %w", err)
		}
	}
	return w.Coord.SRem(types.LatePackagesKey, ev.PackageID)
}

// s5DetectDelayedPackages is the time-driven delayed-package detection
// stage, grounded on detect_delayed_packages. It fires report_delayed_packages
// whenever ev.EventTime crosses into a new DelayedPackageEventCheckFrequency
// bucket.
func (w *Worker) s5DetectDelayedPackages(ev types.Event) error {
	bucket := ev.EventTime / w.Tunables.DelayedPackageEventCheckFrequency
	rolledOver := w.haveLastBucket && bucket != w.lastEventSeconds
	w.lastEventSeconds = bucket
	w.haveLastBucket = true

	if !rolledOver {
		return nil
	}
	return w.reportDelayedPackages(ev.EventTime)
}
