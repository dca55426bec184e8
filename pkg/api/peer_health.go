package api

import (
	"context"
	"sync"
	"time"

	"github.com/shardmesh/shardmesh/pkg/health"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// peerMonitor polls each configured peer's /info route on an interval
// and tracks its hysteresis-smoothed liveness, so fanOutShards can skip
// a peer it already knows is down instead of paying a relay timeout
// for it on every upload.
type peerMonitor struct {
	config health.Config

	mu       sync.RWMutex
	statuses map[string]*health.Status
}

func newPeerMonitor() *peerMonitor {
	cfg := health.DefaultConfig()
	cfg.Interval = 15 * time.Second
	cfg.Timeout = 5 * time.Second
	cfg.Retries = 2
	return &peerMonitor{config: cfg, statuses: make(map[string]*health.Status)}
}

// run polls peers until ctx is cancelled. peers is read once at startup;
// the fixed-at-config peer set doesn't need to track peersMu updates.
func (m *peerMonitor) run(ctx context.Context, peers map[string]types.Peer) {
	if len(peers) == 0 {
		return
	}

	checkers := make(map[string]*health.HTTPChecker, len(peers))
	for nodeID, peer := range peers {
		checkers[nodeID] = health.NewHTTPChecker(peer.APIURL + "/info").WithTimeout(m.config.Timeout)
		m.mu.Lock()
		m.statuses[nodeID] = health.NewStatus()
		m.mu.Unlock()
	}

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for nodeID, checker := range checkers {
				result := checker.Check(ctx)
				m.mu.Lock()
				m.statuses[nodeID].Update(result, m.config)
				m.mu.Unlock()
			}
		}
	}
}

// healthy reports whether nodeID is not known to be unhealthy. A peer never yet
// checked (including when monitoring hasn't run at all) is treated as
// healthy, so a cold-started validator still attempts every relay.
func (m *peerMonitor) healthy(nodeID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.statuses[nodeID]
	if !ok {
		return true
	}
	return st.Healthy
}
