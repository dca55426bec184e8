// Package health provides hysteresis-tracked liveness checks.
//
// A validator runs an HTTPChecker per configured storage-node peer,
// polling that peer's /info route, to avoid relaying shards to a peer
// it already knows is down (see pkg/api's peer monitor). Status
// requires Config.Retries consecutive failures before flipping
// unhealthy, and a single success to flip back, so one dropped
// request doesn't take a peer out of rotation.
package health
