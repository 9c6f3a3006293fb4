package simulator

import (
	"math/rand"

	"github.com/cuemby/parceltrack/pkg/types"
)

// sortingCenterLayout holds one center's internal scanner path and the
// precomputed transit times along it. The original source computes these
// travel-time tables once at module load using the process-global random
// state, which makes their values an accident of import order rather than a
// controlled parameter; here each Simulator owns one *rand.Rand seeded from
// its own Seed, so every table is reproducible from that seed (spec R2).
type sortingCenterLayout struct {
	name types.SortingCenterCode

	pathFromIntake    []pathStep
	pathFromReceiving []pathStep
	pathToOutput      []pathStep
	pathToHolding     []pathStep

	intakeTime    int64
	receivingTime int64
	outputTime    int64
	holdingTime   int64
}

func sumTravelTime(steps []pathStep) int64 {
	var total int64
	for _, s := range steps {
		total += s.travelTime
	}
	return total
}

func newSortingCenterLayout(name types.SortingCenterCode, rng *rand.Rand) *sortingCenterLayout {
	l := &sortingCenterLayout{
		name: name,
		pathFromIntake: []pathStep{
			{next: types.ScannerWeighing, travelTime: int64(2+rng.Intn(4)) * secondsPerMinute},
			{next: types.ScannerPreRouting, travelTime: int64(2+rng.Intn(4)) * secondsPerMinute},
			{next: types.ScannerRouting, travelTime: int64(5+rng.Intn(6)) * secondsPerMinute},
		},
		pathFromReceiving: []pathStep{
			{next: types.ScannerPreRouting, travelTime: int64(2+rng.Intn(4)) * secondsPerMinute},
			{next: types.ScannerRouting, travelTime: int64(5+rng.Intn(6)) * secondsPerMinute},
		},
		pathToOutput: []pathStep{
			{next: types.ScannerOutput, travelTime: int64(5+rng.Intn(11)) * secondsPerMinute},
			{next: "", travelTime: 0},
		},
		pathToHolding: []pathStep{
			{next: types.ScannerHolding, travelTime: int64(5+rng.Intn(11)) * secondsPerMinute},
		},
	}
	l.intakeTime = sumTravelTime(l.pathFromIntake)
	l.receivingTime = sumTravelTime(l.pathFromReceiving)
	l.outputTime = sumTravelTime(l.pathToOutput)
	l.holdingTime = sumTravelTime(l.pathToHolding)
	return l
}

// packagePath yields the scanner hops a package takes through this center,
// given where it originated and where it is ultimately headed. origin ==
// l.name means the package starts here (intake); otherwise it arrived by
// truck (receiving).
func (l *sortingCenterLayout) packagePath(origin, destination types.SortingCenterCode) []pathStep {
	var steps []pathStep
	if origin == l.name {
		steps = append(steps, l.pathFromIntake...)
	} else {
		steps = append(steps, l.pathFromReceiving...)
	}

	if destination == l.name {
		steps = append(steps, l.pathToOutput...)
		return steps
	}

	for _, s := range l.pathToHolding {
		if s.next == types.ScannerHolding {
			s.next = types.HoldingScannerID(destination)
		}
		steps = append(steps, s)
	}
	return steps
}
