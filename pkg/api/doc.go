/*
Package api implements the REST API server every storage/validator node
exposes, per spec §6: a chi router serving GET /info, GET
/clusters/{cluster_id}, and POST /clusters/{cluster_id}.

# Architecture

	┌──────────── CLIENT (upload/download CLI) ────────────┐
	│                                                        │
	│  pkg/nodeclient (net/http)                             │
	└──────────────────────┬────────────────────────────────┘
	                       │ HTTP, port 3000 by default
	                       │
	┌──────────────────────▼──── STORAGE/VALIDATOR NODE ────┐
	│                                                         │
	│  ┌───────────────────────────────────────────────┐    │
	│  │       chi Router (pkg/api)                      │    │
	│  │  - GET  /info                                   │    │
	│  │  - GET  /clusters/{cluster_id}                   │    │
	│  │  - POST /clusters/{cluster_id}                   │    │
	│  └──────────────────┬────────────────────────────┘    │
	│                     │                                    │
	│  ┌──────────────────▼────────────────────────────┐    │
	│  │  Server                                         │    │
	│  │  - validator: verify owner signature, recompute │    │
	│  │    the commitment, check it against the         │    │
	│  │    contract mock's record, persist the full     │    │
	│  │    payload, fan shards                          │    │
	│  │    out to storage nodes (pkg/nodeclient)          │    │
	│  │  - storage node: verify the relaying validator's │    │
	│  │    signature, persist its one shard              │    │
	│  └──────────────────┬────────────────────────────┘    │
	│                     │                                    │
	│  ┌──────────────────▼────────────────────────────┐    │
	│  │  pkg/snapstore.Store                            │    │
	│  └────────────────────────────────────────────────┘    │
	└──────────────────────────────────────────────────────────┘

Role is decided once, at startup, from config.NodeConfig.IsValidator():
a validator's store holds one full payload blob per cluster
(config.StorageConfig.ValidatorSnapstoreConfig); a storage node's store
holds one shard per cluster (StorageNodeSnapstoreConfig). Both roles
serve GET the same way: read whatever their own store holds for the
cluster and stream it back as application/octet-stream.

Errors returned by handlers are mapped to HTTP status codes via
pkg/apierr.StatusCode and reported as the error-taxonomy's JSON shape,
{"error": "..."}, never a bare 500 with a stack trace.
*/
package api
