package config

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/snapstore"
)

// StorageConfig parameterizes the commitment/erasure-coding matrix shared
// by every node in a cluster: an upload is laid out as an M-row,
// N-column payload matrix, then circle-FFT extrapolated into N*2^B
// shards.
type StorageConfig struct {
	N int `yaml:"n"` // payload matrix width; must be a power of two
	M int `yaml:"m"` // payload matrix height; must be a power of two
	B int `yaml:"b"` // log2 blowup factor applied to N to produce the shard count

	NumClusters int `yaml:"num_clusters"` // slot-table capacity; see pkg/snapstore
}

// DevStorageConfig returns the parameter set this module standardizes on
// for local development and the integration scenarios in spec §8:
// n=65536, m=4, b=2.
func DevStorageConfig() StorageConfig {
	return StorageConfig{N: 65536, M: 4, B: 2, NumClusters: 1024}
}

// Validate checks that N and M are powers of two, as ComputeCommitment
// requires.
func (c StorageConfig) Validate() error {
	if _, err := bitutil.Log2Strict(c.N); err != nil {
		return fmt.Errorf("config: storage: n: %w", err)
	}
	if _, err := bitutil.Log2Strict(c.M); err != nil {
		return fmt.Errorf("config: storage: m: %w", err)
	}
	if c.B < 0 {
		return fmt.Errorf("config: storage: b must be non-negative, got %d", c.B)
	}
	if c.NumClusters <= 0 {
		return fmt.Errorf("config: storage: num_clusters must be positive, got %d", c.NumClusters)
	}
	return nil
}

// MaxPayloadBytes is the largest raw upload, in bytes, that fits in one
// M-row, N-column matrix once packed 30 bits per field element.
func (c StorageConfig) MaxPayloadBytes() int {
	return c.N * c.M * 30 / 8
}

// PayloadBlobSize is the byte size of one complete uploaded payload
// matrix in its canonical wire form (one 4-byte little-endian word per
// field element): the blob a validator's snapshot store holds per
// cluster, since the validator is the one peer that ever needs the
// whole thing.
func (c StorageConfig) PayloadBlobSize() int {
	return c.N * c.M * 4
}

// ShardBlobSize is the byte size of a single shard (one row of the
// extrapolated matrix, m field elements long, per spec's glossary): the
// blob a storage node's snapshot store holds per cluster.
func (c StorageConfig) ShardBlobSize() int {
	return c.M * 4
}

// LogBlowupFactor is B, named to match pkg/shard's ComputeCommitment
// parameter.
func (c StorageConfig) LogBlowupFactor() int {
	return c.B
}

// ValidatorSnapstoreConfig projects the fields pkg/snapstore needs for a
// validator's full-payload store.
func (c StorageConfig) ValidatorSnapstoreConfig() snapstore.Config {
	return snapstore.Config{
		NumClusters: c.NumClusters,
		ClusterSize: c.PayloadBlobSize(),
	}
}

// StorageNodeSnapstoreConfig projects the fields pkg/snapstore needs for
// a storage node's single-shard-per-cluster store.
func (c StorageConfig) StorageNodeSnapstoreConfig() snapstore.Config {
	return snapstore.Config{
		NumClusters: c.NumClusters,
		ClusterSize: c.ShardBlobSize(),
	}
}
