package metrics

import (
	"time"

	"github.com/cuemby/parceltrack/pkg/coordstore"
	"github.com/cuemby/parceltrack/pkg/types"
)

// Collector periodically samples the coordination store's backlog sizes
// into gauges. Grounded on the teacher's metrics.Collector (same
// ticker-driven Start/Stop/collect shape), generalized from polling a
// cluster manager to polling a coordstore.Store.
type Collector struct {
	coord  coordstore.Store
	stopCh chan struct{}
}

// NewCollector creates a collector over coord.
func NewCollector(coord coordstore.Store) *Collector {
	return &Collector{coord: coord, stopCh: make(chan struct{})}
}

// Start begins sampling every 15 seconds, collecting once immediately.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts sampling.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	if members, err := c.coord.ZRangeByScoreWithScores(types.NextPackageEventKey, 0, 1<<62); err == nil {
		NextPackageEventBacklog.Set(float64(len(members)))
	}
	if members, err := c.coord.SMembers(types.LatePackagesKey); err == nil {
		LatePackagesBacklog.Set(float64(len(members)))
	}
}
