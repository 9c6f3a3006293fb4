package simulator

import "github.com/cuemby/parceltrack/pkg/types"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
)

// truckTravelTimes is TRUCK_TRAVEL_TIMES from the original simulator, in
// minutes; 0 means origin == destination (no inter-center truck leg).
var truckTravelTimes = map[[2]types.SortingCenterCode]int64{
	{types.CenterA, types.CenterA}: 0,
	{types.CenterA, types.CenterB}: 1440,
	{types.CenterA, types.CenterC}: 1440 * 2,
	{types.CenterA, types.CenterD}: 1440 * 5,
	{types.CenterB, types.CenterA}: 1440,
	{types.CenterB, types.CenterB}: 0,
	{types.CenterB, types.CenterC}: 1440,
	{types.CenterB, types.CenterD}: 1440 * 5,
	{types.CenterC, types.CenterA}: 1440 * 2,
	{types.CenterC, types.CenterB}: 1440,
	{types.CenterC, types.CenterC}: 0,
	{types.CenterC, types.CenterD}: 1440 * 5,
	{types.CenterD, types.CenterA}: 1440 * 5,
	{types.CenterD, types.CenterB}: 1440 * 5,
	{types.CenterD, types.CenterC}: 1440 * 5,
	{types.CenterD, types.CenterD}: 0,
}

// pathStep is one hop of a sorting center's internal scanner path: the
// event's next_scanner_id and the travel time in seconds until that scan.
type pathStep struct {
	next       types.ScannerID
	travelTime int64
}

// lostOrDelayEventIndices is the weighted bag the original source samples
// from when choosing which hop of a package's lifecycle to delay or lose it
// at: {3: 4, 1: 1, 2: 1, 4: 1}, biased toward the routing hop.
var lostOrDelayEventIndices = []int{3, 3, 3, 3, 1, 2, 4}
