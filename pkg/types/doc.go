/*
Package types defines the data structures shared across the storage node,
validator, client, and contract-mock binaries: cluster identifiers, peer
records, the upload wire envelope, and the contract mock's JSON bodies.

# Core Types

Cluster identity:
  - ClusterID: opaque 20-byte tag, displayed as 40-hex
  - Hash: alias for poseidon2.Digest, the 8-element canonical hash type

Peer/network surface (served at GET /info):
  - Peer: node ID, transport address, HTTP base URL
  - InfoResponse: the node's view of its peer set

Upload envelope (POST /clusters/{cluster_id}):
  - UploadMessage: payload bytes plus a Schnorr-style signature
  - Signature: the (E, Fs) signature pair consumed as a black-box oracle
    by pkg/keys

Contract-mock wire bodies (POST/GET /clusters):
  - ClusterCreateRequest / ClusterCreateResponse
  - ClusterInfoResponse

# Serialization

Everything here round-trips through encoding/json; ClusterID and Hash
implement (Un)MarshalJSON/TextMarshaler so they appear as 40-hex / field
arrays on the wire rather than as opaque byte blobs.
*/
package types
