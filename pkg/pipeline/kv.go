package pipeline

import (
	"encoding/json"
	"sort"

	"github.com/cuemby/parceltrack/pkg/kvtable"
	"github.com/cuemby/parceltrack/pkg/types"
)

func (w *Worker) getPackageAttributes(packageID string) (types.PackageAttributes, error) {
	var attrs types.PackageAttributes
	raw, err := w.KV.Get(types.PackageAttributesTable, packageID)
	if err == kvtable.ErrNotFound {
		return attrs, nil
	}
	if err != nil {
		return attrs, err
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return attrs, err
	}
	return attrs, nil
}

func (w *Worker) putPackageAttributes(packageID string, attrs types.PackageAttributes) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return w.KV.Put(types.PackageAttributesTable, packageID, data)
}

func (w *Worker) getPublicEvents(packageID string) ([]types.PublicEvent, error) {
	var events []types.PublicEvent
	raw, err := w.KV.Get(types.PackageEventsTable, packageID)
	if err == kvtable.ErrNotFound {
		return events, nil
	}
	if err != nil {
		return events, err
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		return events, err
	}
	return events, nil
}

func (w *Worker) putPublicEvents(packageID string, events []types.PublicEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return w.KV.Put(types.PackageEventsTable, packageID, data)
}

func sortPublicEventsByTime(events []types.PublicEvent) {
	sort.Slice(events, func(i, j int) bool { return events[i].EventTime < events[j].EventTime })
}
