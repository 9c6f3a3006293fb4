// Package troublereporter tails the trouble stream and formats each event
// for an operator, grounded on trouble_reporter.py's report_trouble_events
// and report_events (spec §4.8).
package troublereporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cuemby/parceltrack/pkg/eventstream"
	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
)

// Reporter tails the trouble stream, joining each event against
// package-attributes, and writes a formatted line to Out.
type Reporter struct {
	Streams eventstream.Store
	KV      kvtable.Store
	Scope   string
	Out     io.Writer

	// WaitForEvents mirrors --wait_for_events: block until at least one
	// trouble event has been read rather than returning immediately.
	WaitForEvents bool
}

// Run drains the trouble stream until it ends or ctx is canceled, writing
// one formatted line per trouble event.
func (r *Reporter) Run(ctx context.Context) error {
	if _, err := r.Streams.CreateScopeAndStream(r.Scope, types.TroubleStreamName); err != nil {
		return fmt.Errorf("create trouble stream: %w", err)
	}

	payloads, errs := r.Streams.Iterate(ctx, r.Scope, types.TroubleStreamName, r.WaitForEvents)
	for payload := range payloads {
		var ev types.TroubleEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("malformed trouble event: %w", err)
		}

		attrs, err := r.packageAttributes(ev.PackageID)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(r.Out, FormatTroubleEvent(ev, attrs)); err != nil {
			return fmt.Errorf("write report line: %w", err)
		}
	}
	if err := <-errs; err != nil {
		return fmt.Errorf("read trouble stream: %w", err)
	}
	return nil
}

func (r *Reporter) packageAttributes(packageID string) (types.PackageAttributes, error) {
	var attrs types.PackageAttributes
	raw, err := r.KV.Get(types.PackageAttributesTable, packageID)
	if err == kvtable.ErrNotFound {
		return attrs, nil
	}
	if err != nil {
		return attrs, fmt.Errorf("lookup package attributes for %s: %w", packageID, err)
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return attrs, fmt.Errorf("unmarshal package attributes for %s: %w", packageID, err)
	}
	return attrs, nil
}

// FormatTroubleEvent renders one trouble event in the operator-facing
// format spec §4.8 names exactly.
func FormatTroubleEvent(ev types.TroubleEvent, attrs types.PackageAttributes) string {
	at := formatTime(ev.EventTime)
	info := formatPackageInfo(ev.PackageID, attrs)

	switch ev.EventType {
	case types.TroubleLateDelivery:
		return fmt.Sprintf("at %s late %s", at, info)
	case types.TroubleLostPackage:
		return fmt.Sprintf("at %s LOST %s", at, info)
	case types.TroubleDelayedPackage:
		return fmt.Sprintf("at %s delay %s before %s", at, info, ev.NextScannerID)
	default:
		return fmt.Sprintf("at %s unknown(%s) %s", at, ev.EventType, info)
	}
}

func formatPackageInfo(packageID string, attrs types.PackageAttributes) string {
	weight := "?"
	if attrs.Weight != 0 {
		weight = fmt.Sprintf("%d", attrs.Weight)
	}
	value := "?"
	if attrs.DeclaredValue != 0 {
		value = fmt.Sprintf("%d", attrs.DeclaredValue)
	}
	estDel := "?"
	if attrs.EstimatedDeliveryTime != 0 {
		estDel = formatTime(attrs.EstimatedDeliveryTime)
	}
	return fmt.Sprintf("pkg %s weight %s value $%s origin %s dest %s est.del %s",
		packageID, weight, value, attrs.Origin, attrs.Destination, estDel)
}

func formatTime(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format("01-02 15:04")
}
