// Package types holds the wire-level records shared by every parceltrack
// component: the scan event read from a sorting center's input stream, the
// package-attributes and package-events KV records, and the trouble events
// written to the trouble stream.
package types

import "fmt"

// SortingCenterCode identifies one of the four sorting centers.
type SortingCenterCode string

const (
	CenterA SortingCenterCode = "A"
	CenterB SortingCenterCode = "B"
	CenterC SortingCenterCode = "C"
	CenterD SortingCenterCode = "D"
)

// SortingCenterCodes lists all valid center codes in a stable order.
var SortingCenterCodes = []SortingCenterCode{CenterA, CenterB, CenterC, CenterD}

// ScannerID identifies a scanner station. Scanner IDs for holding stations
// are parameterized by destination center, e.g. "holding_B".
type ScannerID string

const (
	ScannerIntake      ScannerID = "intake"
	ScannerWeighing    ScannerID = "weighing"
	ScannerPreRouting  ScannerID = "pre-routing"
	ScannerRouting     ScannerID = "routing"
	ScannerHolding     ScannerID = "holding"
	ScannerReceiving   ScannerID = "receiving"
	ScannerOutput      ScannerID = "output"
	ScannerEndOfStream ScannerID = "end-of-stream"
)

// HoldingScannerID builds the destination-qualified holding scanner id used
// on the public-tracking allow list, e.g. HoldingScannerID(CenterB) == "holding_B".
func HoldingScannerID(dest SortingCenterCode) ScannerID {
	return ScannerID(fmt.Sprintf("holding_%s", dest))
}

// PublicScanners is the set of scanner ids recorded into package-events for
// customer-visible tracking.
var PublicScanners = map[ScannerID]bool{
	ScannerIntake:             true,
	HoldingScannerID(CenterA): true,
	HoldingScannerID(CenterB): true,
	HoldingScannerID(CenterC): true,
	HoldingScannerID(CenterD): true,
	ScannerReceiving:          true,
	ScannerOutput:             true,
}

// InputStreamName returns the per-center input stream name, e.g.
// "sorting-center-input-A".
func InputStreamName(center SortingCenterCode) string {
	return fmt.Sprintf("sorting-center-input-%s", center)
}

// TroubleStreamName is the single stream all sorting centers publish trouble
// events to.
const TroubleStreamName = "trouble-events"

// KV table names.
const (
	PackageAttributesTable = "package-attributes"
	PackageEventsTable     = "package-events"
)

// Coordination store key names.
const (
	NextPackageEventKey  = "next_package_event"
	NextPackageScannerKey = "next_package_scanner"
	LatePackagesKey      = "late_packages"
	ClockSyncKey         = "clock_sync"
)

// AllCoordinationKeys is the set of coordination keys the admin purge path
// clears for a fresh run (ALL_REDIS_KEYS in the original source).
var AllCoordinationKeys = []string{
	NextPackageEventKey,
	NextPackageScannerKey,
	LatePackagesKey,
	ClockSyncKey,
}

// Event is a single scanner observation. It is a tagged struct rather than a
// sum type: every scanner-specific field is optional and only populated for
// the scanner kinds that produce it, following the same "plain struct with
// omitempty" convention the rest of this codebase uses for wire records.
type Event struct {
	EventTime         int64             `json:"event_time"`
	SortingCenter     SortingCenterCode `json:"sorting_center"`
	PackageID         string            `json:"package_id"`
	ScannerID         ScannerID         `json:"scanner_id"`
	NextScannerID     ScannerID         `json:"next_scanner_id,omitempty"`
	NextEventTime     int64             `json:"next_event_time,omitempty"`
	NextSortingCenter SortingCenterCode `json:"next_sorting_center,omitempty"`

	// intake-only fields
	Destination           SortingCenterCode `json:"destination,omitempty"`
	DeclaredValue          int64            `json:"declared_value,omitempty"`
	EstimatedDeliveryTime  int64            `json:"estimated_delivery_time,omitempty"`

	// weighing-only field
	Weight int64 `json:"weight,omitempty"`
}

// IsEndOfStream reports whether this event is the sentinel marker that
// bounds drain detection, rather than a real scan.
func (e *Event) IsEndOfStream() bool {
	return e.ScannerID == ScannerEndOfStream
}

// HasNextEvent reports whether the package has an outstanding next scan.
// next_event_time is present iff next_scanner_id is present (§3 invariant),
// so NextScannerID is the presence signal.
func (e *Event) HasNextEvent() bool {
	return e.NextScannerID != ""
}

// NextSortingCenterOrSelf returns the center a package will next be scanned
// at: NextSortingCenter when present (inter-center hand-off), else the
// event's own SortingCenter.
func (e *Event) NextSortingCenterOrSelf() SortingCenterCode {
	if e.NextSortingCenter != "" {
		return e.NextSortingCenter
	}
	return e.SortingCenter
}

// PackageAttributes is the package-attributes KV record, created on first
// intake, mutated on weighing/output, never deleted.
type PackageAttributes struct {
	IntakeTime            int64             `json:"intake_time,omitempty"`
	Origin                SortingCenterCode `json:"origin,omitempty"`
	Destination           SortingCenterCode `json:"destination,omitempty"`
	DeclaredValue         int64             `json:"declared_value,omitempty"`
	EstimatedDeliveryTime int64             `json:"estimated_delivery_time,omitempty"`
	Weight                int64             `json:"weight,omitempty"`
	DeliveredTime         int64             `json:"delivered_time,omitempty"`
}

// PublicEvent is one entry of the package-events KV record: the subset of a
// scan visible to public tracking.
type PublicEvent struct {
	EventTime     int64             `json:"event_time"`
	SortingCenter SortingCenterCode `json:"sorting_center"`
	ScannerID     ScannerID         `json:"scanner_id"`
}

// TroubleEventType enumerates the kinds of trouble event.
type TroubleEventType string

const (
	TroubleDelayedPackage TroubleEventType = "delayed_package"
	TroubleLateDelivery   TroubleEventType = "late_delivery"
	TroubleLostPackage    TroubleEventType = "lost_package"
)

// TroubleEvent is a derived record published to the trouble-events stream.
type TroubleEvent struct {
	EventTime         int64             `json:"event_time"`
	EventType         TroubleEventType  `json:"event_type"`
	PackageID         string            `json:"package_id"`
	SortingCenter     SortingCenterCode `json:"sorting_center,omitempty"`
	ExpectedEventTime int64             `json:"expected_event_time,omitempty"`
	NextScannerID     ScannerID         `json:"next_scanner_id,omitempty"`
}
