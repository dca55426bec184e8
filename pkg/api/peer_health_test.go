package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/types"
)

func TestPeerMonitorHealthyBeforeAnyCheck(t *testing.T) {
	m := newPeerMonitor()
	require.True(t, m.healthy("1"))
}

func TestPeerMonitorMarksDeadPeerUnhealthy(t *testing.T) {
	m := newPeerMonitor()
	m.config.Interval = 5 * time.Millisecond
	m.config.Retries = 1

	peers := map[string]types.Peer{"1": {PeerID: "1", APIURL: "http://127.0.0.1:1"}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go m.run(ctx, peers)

	require.Eventually(t, func() bool {
		return !m.healthy("1")
	}, 500*time.Millisecond, 10*time.Millisecond)
}

func TestPeerMonitorKeepsLivePeerHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := newPeerMonitor()
	m.config.Interval = 5 * time.Millisecond

	peers := map[string]types.Peer{"1": {PeerID: "1", APIURL: srv.URL}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go m.run(ctx, peers)

	time.Sleep(50 * time.Millisecond)
	require.True(t, m.healthy("1"))
}
