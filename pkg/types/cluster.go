package types

import (
	"encoding/hex"
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/poseidon2"
)

// Hash is the canonical 8-element Poseidon2 digest type used for
// commitment hashes and cluster-identity derivation.
type Hash = poseidon2.Digest

// ClusterID is an opaque 20-byte tag (5 field elements), displayed as
// lowercase 40-hex. Collision probability is negligible within the
// intended key space; equality is defined over the canonical byte form.
type ClusterID [5]field.Elem

// NewClusterID reduces five raw uint32s into a ClusterID.
func NewClusterID(words [5]uint32) ClusterID {
	var id ClusterID
	for i, w := range words {
		id[i] = field.New(w)
	}
	return id
}

// Bytes returns the canonical 20-byte big-endian encoding of id.
func (id ClusterID) Bytes() [20]byte {
	var out [20]byte
	for i, e := range id {
		v := e.Uint32()
		out[4*i+0] = byte(v >> 24)
		out[4*i+1] = byte(v >> 16)
		out[4*i+2] = byte(v >> 8)
		out[4*i+3] = byte(v)
	}
	return out
}

// String renders id as lowercase 40-hex.
func (id ClusterID) String() string {
	b := id.Bytes()
	return hex.EncodeToString(b[:])
}

// ParseClusterID parses a lowercase 40-hex cluster id as served by the
// HTTP API's {cluster_id} path segment.
func ParseClusterID(s string) (ClusterID, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ClusterID{}, fmt.Errorf("types: parse cluster id: %w", err)
	}
	if len(raw) != 20 {
		return ClusterID{}, fmt.Errorf("types: parse cluster id: expected 20 bytes, got %d", len(raw))
	}
	var id ClusterID
	for i := range id {
		v := uint32(raw[4*i])<<24 | uint32(raw[4*i+1])<<16 | uint32(raw[4*i+2])<<8 | uint32(raw[4*i+3])
		id[i] = field.New(v)
	}
	return id, nil
}

// MarshalText implements encoding.TextMarshaler, so ClusterID serializes
// as a JSON string (and as a map key) rather than a numeric array.
func (id ClusterID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ClusterID) UnmarshalText(text []byte) error {
	parsed, err := ParseClusterID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
