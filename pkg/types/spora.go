package types

import (
	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/poseidon2"
)

// SPoRaChallenge names a single element within a single shard that a
// storage-proof sampling round asks a node to open: proof-of-replication
// sampling itself stays an external collaborator, but the opening it would
// need is already exposed by pkg/poseidon2's Merkle MMCS.
type SPoRaChallenge struct {
	ShardIndex   int
	ElementIndex int
}

// SPoRaProver is the narrow hook a future sampling-based storage-proof
// scheme would call against a node holding ProverData for a cluster: open
// one element of one shard and return the value together with its
// authentication path against the commitment's shard-root tree.
type SPoRaProver interface {
	OpenShardAt(challenge SPoRaChallenge) (leaf field.Elem, path []poseidon2.Digest, err error)
}
