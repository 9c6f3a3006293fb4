// Package pipeline implements one sorting center's five-stage event
// processor (spec §4.4). It is grounded on sorting_center.py's
// process_sorting_center_events, which composes five generator stages
// around a single input stream; here each stage is a method invoked in
// sequence per event off the input channel, rather than five chained
// generators, since Go's idiom for "stream through N transforms" is a single
// consuming loop, not generator composition.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cuemby/parceltrack/pkg/config"
	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/metrics"
	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/rs/zerolog"
)

// Worker runs the five-stage pipeline for one sorting center. Its logger is
// constructor-injected rather than pulled from a package-level global, so
// pipeline code stays testable without touching process-wide logging state.
type Worker struct {
	Center types.SortingCenterCode
	Scope  string

	Streams eventstream.Store
	KV      kvtable.Store
	Coord   coordstore.Store

	Tunables config.Tunables
	Logger   zerolog.Logger

	// ReportLostPackages designates this worker as the one that, after its
	// input stream drains, sweeps late_packages and emits lost_package
	// trouble events. Spec §4.4: exactly one worker per run should set this.
	ReportLostPackages bool

	// WaitForEvents mirrors --wait_for_events: block until at least one
	// event has been read rather than returning immediately on an empty
	// stream.
	WaitForEvents bool

	// MaximumEventCount caps the number of events processed before Run
	// returns, for interactive debugging (--maximum_event_count). Zero means
	// unlimited.
	MaximumEventCount int

	// MarkEventIndexFrequency logs a debug "event marker" line carrying the
	// processed-event count every N processed events when nonzero (--mark_event_index_frequency), a debug aid with no
	// effect on pipeline semantics.
	MarkEventIndexFrequency int64

	streamCutHourBucket int64
	haveStreamCutBucket bool

	lastEventSeconds int64
	haveLastBucket   bool
	lastEventTime    int64
}

// Run drains the center's input stream to completion, applying all five
// stages in order to every event except end-of-stream sentinels, which are
// skipped, then performs the optional lost-package sweep.
func (w *Worker) Run(ctx context.Context) error {
	inputStream := types.InputStreamName(w.Center)
	if _, err := w.Streams.CreateScopeAndStream(w.Scope, inputStream); err != nil {
		return fmt.Errorf("create input stream %s: %w", inputStream, err)
	}
	if _, err := w.Streams.CreateScopeAndStream(w.Scope, types.TroubleStreamName); err != nil {
		return fmt.Errorf("create trouble stream: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	payloads, errs := w.Streams.Iterate(runCtx, w.Scope, inputStream, w.WaitForEvents)

	var processed int
	for payload := range payloads {
		var ev types.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			cancel()
			return fmt.Errorf("malformed event on %s: %w", inputStream, err)
		}
		if ev.IsEndOfStream() {
			continue
		}

		w.lastEventTime = ev.EventTime

		timer := metrics.NewTimer()
		w.s1SaveStreamCutHint(ev)
		timer.ObserveDurationVec(metrics.StageDuration, "s1_stream_cut_hint")

		timer = metrics.NewTimer()
		if err := w.s2RecordAttributesAndLateDelivery(ev); err != nil {
			cancel()
			return fmt.Errorf("stage s2: %w", err)
		}
		timer.ObserveDurationVec(metrics.StageDuration, "s2_attributes_and_late_delivery")

		timer = metrics.NewTimer()
		if err := w.s3RecordPublicTracking(ev); err != nil {
			cancel()
			return fmt.Errorf("stage s3: %w", err)
		}
		timer.ObserveDurationVec(metrics.StageDuration, "s3_public_tracking")

		timer = metrics.NewTimer()
		if err := w.s4UpdateNextEventIndex(ev); err != nil {
			cancel()
			return fmt.Errorf("stage s4: %w", err)
		}
		timer.ObserveDurationVec(metrics.StageDuration, "s4_next_event_index")

		timer = metrics.NewTimer()
		if err := w.s5DetectDelayedPackages(ev); err != nil {
			cancel()
			return fmt.Errorf("stage s5: %w", err)
		}
		timer.ObserveDurationVec(metrics.StageDuration, "s5_delayed_packages")

		metrics.EventsProcessedTotal.WithLabelValues(string(w.Center), string(ev.ScannerID)).Inc()
		processed++
		if w.MarkEventIndexFrequency > 0 && int64(processed)%w.MarkEventIndexFrequency == 0 {
			w.Logger.Debug().Int("event_index", processed).Msg("event marker")
		}
		if w.MaximumEventCount > 0 && processed >= w.MaximumEventCount {
			cancel()
			break
		}
	}

	if err := <-errs; err != nil && runCtx.Err() == nil {
		return fmt.Errorf("read %s: %w", inputStream, err)
	}

	if w.ReportLostPackages {
		if err := w.reportLostPackages(); err != nil {
			return fmt.Errorf("report lost packages: %w", err)
		}
	}

	return nil
}

// publishTrouble writes ev to the trouble stream, partitioned by sorting
// center code, matching sorting_center.py's stream.writeEvent(sorting_center_code, ...).
func (w *Worker) publishTrouble(ev types.TroubleEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal trouble event: %w", err)
	}
	if err := w.Streams.Publish(w.Scope, types.TroubleStreamName, string(w.Center), data); err != nil {
		return err
	}
	metrics.TroubleEventsTotal.WithLabelValues(string(ev.EventType), string(w.Center)).Inc()
	return nil
}
