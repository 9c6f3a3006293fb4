/*
Package types holds the wire records shared across parceltrack's components:
the scan Event read from a sorting center's input stream, the
PackageAttributes and PublicEvent KV records, and the TroubleEvent written
to the trouble stream. Field names and JSON tags follow the data model
exactly so the simulator, the import router, and the pipeline agree on wire
format without a translation layer.

# Core Types

  - Event: one barcode scan, keyed by package_id, partitioned per center.
  - PackageAttributes: the package-attributes KV record (intake/weight/
    delivery facts), created on first intake, mutated on weighing/output,
    never deleted.
  - PublicEvent: one entry of the package-events KV record, the
    customer-visible subset of scans.
  - TroubleEvent: a derived record (delayed_package, late_delivery,
    lost_package) published to the trouble-events stream.

# Design Patterns

Enumeration Pattern: SortingCenterCode, ScannerID and TroubleEventType are
typed strings, matching the rest of this codebase's enum convention.

Presence Pattern: Event has no pointer fields. A package's next-event fields
are logically optional, but next_scanner_id is empty iff next_event_time is
absent (an explicit data invariant), so HasNextEvent derives presence from
NextScannerID rather than carrying a separate flag.

# See Also

  - pkg/pipeline for the stages that read and write these records
  - pkg/simulator for the component that generates Event values
*/
package types
