package keys

import (
	"encoding/hex"
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/field"
)

// MarshalPublicKey packs pk into 12 bytes, one little-endian uint32 per
// Ext3 component, for the owner_pk bytes exchanged with the contract mock
// and peer records.
func MarshalPublicKey(pk PublicKey) []byte {
	out := make([]byte, 12)
	for i, c := range pk {
		v := c.Uint32()
		out[4*i+0] = byte(v)
		out[4*i+1] = byte(v >> 8)
		out[4*i+2] = byte(v >> 16)
		out[4*i+3] = byte(v >> 24)
	}
	return out
}

// UnmarshalPublicKey is the inverse of MarshalPublicKey.
func UnmarshalPublicKey(b []byte) (PublicKey, error) {
	if len(b) != 12 {
		return PublicKey{}, fmt.Errorf("keys: unmarshal public key: expected 12 bytes, got %d", len(b))
	}
	var pk PublicKey
	for i := range pk {
		v := uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
		pk[i] = field.New(v)
	}
	return pk, nil
}

// PublicKeyHex renders pk as lowercase hex, the form config files and peer
// records carry it in.
func PublicKeyHex(pk PublicKey) string {
	return hex.EncodeToString(MarshalPublicKey(pk))
}

// ParsePublicKeyHex is the inverse of PublicKeyHex.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("keys: parse public key: %w", err)
	}
	return UnmarshalPublicKey(b)
}
