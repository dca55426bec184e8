package metrics

import (
	"time"

	"github.com/shardmesh/shardmesh/pkg/snapstore"
)

// Collector periodically samples a snapshot store's allocator and snapshot
// state into the package's Prometheus gauges.
type Collector struct {
	store  *snapstore.Store
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector for store.
func NewCollector(store *snapstore.Store) *Collector {
	return &Collector{
		store:  store,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic collection on a background goroutine.
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

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectAllocatorMetrics()
	c.collectSnapshotMetrics()
}

func (c *Collector) collectAllocatorMetrics() {
	freeCount, refcountSum := c.store.AllocatorStats()
	AllocatorPoolSize.Set(float64(freeCount))
	AllocatorRefcountSum.Set(float64(refcountSum))
	NumSlots.Set(float64(c.store.NumSlots()))
}

func (c *Collector) collectSnapshotMetrics() {
	start, pending := c.store.SnapshotRange()
	SnapshotsLive.Set(float64(pending - start + 1))
}
