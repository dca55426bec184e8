package types

import "github.com/shardmesh/shardmesh/pkg/shard"

// ClusterCreateRequest is the JSON body of POST /clusters against the
// contract mock: a client registers the owner's public key and the
// commitment computed for the cluster it is about to upload.
type ClusterCreateRequest struct {
	OwnerPK []byte           `json:"owner_pk"`
	Commit  shard.Commitment `json:"commit"`
}

// ClusterCreateResponse carries the newly assigned, 40-hex cluster id.
type ClusterCreateResponse struct {
	ClusterID ClusterID `json:"cluster_id"`
}

// ClusterInfoResponse is the JSON body of GET /clusters/{cluster_id}: the
// contract mock's record of who owns a cluster and what it committed to.
type ClusterInfoResponse struct {
	Index   uint64           `json:"index"`
	OwnerPK []byte           `json:"owner_pk"`
	Commit  shard.Commitment `json:"commit"`
}
