// Package config loads parceltrack's tunables from an optional YAML file
// (named by cmd/parceltrack's --config flag) overlaid onto Defaults(). No
// CLI flag overrides an individual tunable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tunables holds the constants spec §6 recommends as defaults. All
// durations are simulated seconds except SleepProcessTime, which is real
// wall-clock time.
//
// A real stream binding's read timeout (how long a reader waits for more
// data before concluding a partition is drained) isn't modeled here:
// eventstream.MemStore's Iterate wakes on Publish/Finish via sync.Cond
// rather than polling with a timeout, so there is nothing for that knob to
// tune against the only backend this repo ships.
type Tunables struct {
	DelayedPackageEventCheckFrequency int64         `yaml:"delayed_package_event_check_frequency_seconds"`
	MinimumLatePackageSeconds         int64         `yaml:"minimum_late_package_seconds"`
	SyncThreshold                     int64         `yaml:"sync_threshold_seconds"`
	SleepProcessTime                  time.Duration `yaml:"sleep_process_time"`
}

// Defaults returns spec §6's recommended tunables.
func Defaults() Tunables {
	return Tunables{
		DelayedPackageEventCheckFrequency: 60,
		MinimumLatePackageSeconds:         60,
		SyncThreshold:                     90,
		SleepProcessTime:                  time.Millisecond,
	}
}

// LoadFile reads a YAML tunables file, starting from Defaults() so a file
// that only overrides a few fields still yields a complete Tunables value.
func LoadFile(path string) (Tunables, error) {
	t := Defaults()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse config %s: %w", path, err)
	}
	return t, nil
}
