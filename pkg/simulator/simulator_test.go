package simulator

import (
	"context"
	"testing"

	"github.com/cuemby/parceltrack/pkg/types"
	"github.com/stretchr/testify/require"
)

func baseConfig() Config {
	return Config{
		Seed:                    7,
		SimulatedRunTimeMinutes: 1440,
		IntakeRunTimeMinutes:    300,
		PackageCount:            20,
		SimulatedStartTime:      1_000_000,
	}
}

func drainGenerate(cfg Config) []types.Event {
	s := New(cfg)
	var events []types.Event
	for ev := range s.Generate(context.Background()) {
		events = append(events, ev)
	}
	return events
}

func TestGenerateIsDeterministicForTheSameSeed(t *testing.T) {
	cfg := baseConfig()
	first := drainGenerate(cfg)
	second := drainGenerate(cfg)

	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	cfg1 := baseConfig()
	cfg2 := baseConfig()
	cfg2.Seed = 99

	require.NotEqual(t, drainGenerate(cfg1), drainGenerate(cfg2))
}

func TestGenerateOrdersEventsByEventTimePerPackage(t *testing.T) {
	events := drainGenerate(baseConfig())

	lastEventTimeByPackage := map[string]int64{}
	for _, ev := range events {
		if last, ok := lastEventTimeByPackage[ev.PackageID]; ok {
			require.GreaterOrEqual(t, ev.EventTime, last)
		}
		lastEventTimeByPackage[ev.PackageID] = ev.EventTime
	}
}

func TestGenerateStopsOnContextCancel(t *testing.T) {
	cfg := baseConfig()
	cfg.PackageCount = 1000
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	out := s.Generate(ctx)

	ev, ok := <-out
	require.True(t, ok)
	_ = ev
	cancel()

	for range out {
	}
}

func TestGenerateLostOrDelayedPackagesSplitsFirstCountAsLost(t *testing.T) {
	cfg := baseConfig()
	cfg.DelayedPackageCount = 5
	cfg.LostPackageCount = 2
	s := New(cfg)

	var lostCount, delayedCount int
	for _, info := range s.lostOrDelayed {
		if info.lost {
			lostCount++
		} else {
			delayedCount++
		}
	}
	require.Equal(t, 2, lostCount)
	require.Equal(t, 3, delayedCount)
	require.Len(t, s.lostOrDelayed, 5)
}

func TestGenerateNoLostOrDelayedPackagesByDefault(t *testing.T) {
	s := New(baseConfig())
	require.Empty(t, s.lostOrDelayed)
}

func TestGenerateLostOrDelayedAssignmentIsDeterministic(t *testing.T) {
	cfg := baseConfig()
	cfg.DelayedPackageCount = 5
	cfg.LostPackageCount = 2

	first := New(cfg).lostOrDelayed
	second := New(cfg).lostOrDelayed
	require.Equal(t, first, second)
}

func TestGenerateEveryEventBelongsToAKnownSortingCenter(t *testing.T) {
	events := drainGenerate(baseConfig())
	valid := map[types.SortingCenterCode]bool{}
	for _, code := range types.SortingCenterCodes {
		valid[code] = true
	}
	for _, ev := range events {
		require.True(t, valid[ev.SortingCenter], "unexpected sorting center %q", ev.SortingCenter)
	}
}
