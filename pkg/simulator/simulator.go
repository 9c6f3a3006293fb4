// Package simulator generates deterministic scan-event sequences for the
// four sorting centers, with optional injected lost and delayed packages.
// Grounded on simulator_core.py; reworked so every random draw goes through
// one *rand.Rand seeded from Config.Seed instead of Python's process-global
// random module, so that Generate's output is reproducible (spec R2)
// regardless of what else in the process has consumed randomness.
package simulator

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/cuemby/parceltrack/pkg/types"
)

// Config parameterizes one simulation run. Field names mirror the original
// CLI flags (simulator_cli.py) rather than Go naming purely for
// cross-reference convenience when reading the two side by side.
type Config struct {
	Seed int64

	SimulatedRunTimeMinutes int64
	IntakeRunTimeMinutes    int64
	PackageCount            int
	SimulatedStartTime      int64

	DelayedPackageCount int
	LostPackageCount    int
}

// lostOrDelay records that one package should be delayed or lost at a
// specific hop of its lifecycle.
type lostOrDelay struct {
	lost       bool
	delay      int64
	eventIndex int
}

// Simulator produces one deterministic package-event stream per Config.
type Simulator struct {
	cfg Config
	rng *rand.Rand

	simulatedEndTime  int64
	secondsPerPackage float64

	centers map[types.SortingCenterCode]*sortingCenterLayout

	lostOrDelayed map[string]lostOrDelay
}

// New builds a Simulator, precomputing its per-center scanner-path layouts
// and its lost/delayed package assignments, both driven by cfg.Seed.
func New(cfg Config) *Simulator {
	rng := rand.New(rand.NewSource(cfg.Seed))

	s := &Simulator{
		cfg:              cfg,
		rng:              rng,
		simulatedEndTime: cfg.SimulatedStartTime + cfg.SimulatedRunTimeMinutes*secondsPerMinute,
		centers:          make(map[types.SortingCenterCode]*sortingCenterLayout, len(types.SortingCenterCodes)),
	}
	if cfg.PackageCount > 0 {
		s.secondsPerPackage = float64(cfg.IntakeRunTimeMinutes*secondsPerMinute) / float64(cfg.PackageCount)
	}
	for _, code := range types.SortingCenterCodes {
		s.centers[code] = newSortingCenterLayout(code, rng)
	}
	s.lostOrDelayed = s.generateLostOrDelayedPackages()
	return s
}

// generateLostOrDelayedPackages picks DelayedPackageCount distinct package
// ids (1-based, excluding the last id so the original source's
// random.sample(range(1, package_count), ...) semantics are preserved), and
// marks the first LostPackageCount of them lost, the rest delayed.
func (s *Simulator) generateLostOrDelayedPackages() map[string]lostOrDelay {
	result := make(map[string]lostOrDelay)
	if s.cfg.DelayedPackageCount == 0 {
		return result
	}

	candidates := make([]int, s.cfg.PackageCount-1)
	for i := range candidates {
		candidates[i] = i + 1
	}
	s.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	chosen := candidates[:s.cfg.DelayedPackageCount]

	for idx, packageNum := range chosen {
		eventIndex := lostOrDelayEventIndices[s.rng.Intn(len(lostOrDelayEventIndices))]
		result[formatPackageID(packageNum)] = lostOrDelay{
			lost:       idx < s.cfg.LostPackageCount,
			delay:      2 * secondsPerHour,
			eventIndex: eventIndex,
		}
	}
	return result
}

func formatPackageID(n int) string {
	return strconv.Itoa(n)
}

// Generate streams every event of every package's lifecycle in package-id
// order, honoring injected delays and losses, onto the returned channel. The
// channel is closed when the run completes or ctx is canceled.
func (s *Simulator) Generate(ctx context.Context) <-chan types.Event {
	out := make(chan types.Event)
	go func() {
		defer close(out)
		eventTime := float64(s.cfg.SimulatedStartTime)
		for packageNum := 1; packageNum <= s.cfg.PackageCount; packageNum++ {
			packageID := formatPackageID(packageNum)
			info, hasInfo := s.lostOrDelayed[packageID]
			var delayOffset int64

			events := s.packageLifecycle(int64(eventTime), packageID)
			for eventIndex, ev := range events {
				ev.EventTime += delayOffset
				if ev.HasNextEvent() {
					ev.NextEventTime += delayOffset
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}

				if hasInfo && info.eventIndex == eventIndex {
					if info.lost {
						break
					}
					delayOffset = info.delay
					hasInfo = false
				}
			}
			eventTime += s.secondsPerPackage
		}
	}()
	return out
}

// packageLifecycle generates the full, undelayed sequence of scan events for
// one package, choosing its origin and destination from s.rng.
func (s *Simulator) packageLifecycle(eventTime int64, packageID string) []types.Event {
	origin := types.SortingCenterCodes[s.rng.Intn(len(types.SortingCenterCodes))]
	destination := types.SortingCenterCodes[s.rng.Intn(len(types.SortingCenterCodes))]

	var out []types.Event
	currentScanner := types.ScannerIntake
	et := eventTime

	emitLeg := func(center types.SortingCenterCode, steps []pathStep) bool {
		for _, step := range steps {
			nextEventTime := et + step.travelTime
			ev := types.Event{
				SortingCenter: center,
				EventTime:     et,
				PackageID:     packageID,
				ScannerID:     currentScanner,
				NextScannerID: step.next,
				NextEventTime: nextEventTime,
			}
			switch {
			case currentScanner == types.ScannerIntake:
				ev.DeclaredValue = int64(10 + s.rng.Intn(91))
				ev.Destination = destination
				ev.EstimatedDeliveryTime = s.getTravelTime(origin, destination) + et
			case currentScanner == types.ScannerWeighing:
				ev.Weight = int64(1 + s.rng.Intn(40))
			case step.next == "":
				ev.NextScannerID = ""
				ev.NextEventTime = 0
			}
			out = append(out, ev)

			if step.next == "" {
				return false
			}
			et = nextEventTime - int64(s.rng.Intn(secondsPerMinute+1))
			if et >= s.simulatedEndTime {
				return false
			}
			currentScanner = step.next
		}
		return true
	}

	originLayout := s.centers[origin]
	if !emitLeg(origin, originLayout.packagePath(origin, destination)) {
		return out
	}

	truckTravelTime := truckTravelTimes[[2]types.SortingCenterCode{origin, destination}]
	if truckTravelTime == 0 {
		// Origin == destination: the last emitted event already terminated
		// the lifecycle at output.
		return out
	}

	wholeHours := et / secondsPerHour
	receivingEventTime := secondsPerHour*(wholeHours+1) + truckTravelTime*secondsPerMinute

	out = append(out, types.Event{
		SortingCenter:     origin,
		EventTime:         et,
		PackageID:         packageID,
		ScannerID:         currentScanner,
		NextScannerID:     types.ScannerReceiving,
		NextEventTime:     receivingEventTime,
		NextSortingCenter: destination,
	})

	et = receivingEventTime
	currentScanner = types.ScannerReceiving
	destinationLayout := s.centers[destination]
	emitLeg(destination, destinationLayout.packagePath(origin, destination))

	return out
}

// getTravelTime returns the estimated_delivery_time offset from intake,
// rounded up to the next hour on the trucking leg plus a 30 minute safety
// pad, matching Simulator.get_travel_time.
func (s *Simulator) getTravelTime(origin, destination types.SortingCenterCode) int64 {
	o := s.centers[origin]
	d := s.centers[destination]

	var travelTime int64
	if origin == destination {
		travelTime = o.intakeTime + o.outputTime
	} else {
		travelTime = o.intakeTime + o.holdingTime + d.receivingTime + d.outputTime +
			truckTravelTimes[[2]types.SortingCenterCode{origin, destination}]*secondsPerMinute
		wholeHours := travelTime / secondsPerHour
		travelTime = secondsPerHour * (wholeHours + 1)
	}
	return travelTime + secondsPerMinute*30
}
