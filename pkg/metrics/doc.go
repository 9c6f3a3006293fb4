/*
Package metrics provides Prometheus metrics collection and exposition for
parceltrack. Metrics are registered at package init and scraped via an HTTP
handler, the same pattern the teacher repo uses for its cluster metrics.

# Metrics Catalog

parceltrack_events_processed_total{sorting_center, scanner_id}: counter,
incremented once per event a worker's pipeline finishes processing.

parceltrack_trouble_events_total{event_type, sorting_center}: counter,
incremented once per trouble event published.

parceltrack_next_package_event_backlog: gauge, periodically set to the size
of the next_package_event coordination sorted set.

parceltrack_late_packages_backlog: gauge, periodically set to the size of
the late_packages coordination set.

parceltrack_stage_duration_seconds{stage}: histogram of per-event stage
processing time, labeled by stage (s1_stream_cut_hint,
s2_attributes_and_late_delivery, s3_public_tracking, s4_next_event_index,
s5_delayed_packages).

parceltrack_imported_events_total: counter, incremented once per event the
import command routes to a sorting center's input stream.

# Usage

	timer := metrics.NewTimer()
	// ... run a stage ...
	timer.ObserveDurationVec(metrics.StageDuration, "s5_delayed_packages")

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)
*/
package metrics
