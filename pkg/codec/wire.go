package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/field"
)

// EncodeMatrix packs data, 30 bits per element, into an m-row, n-column
// payload matrix: the layout ComputeCommitment expects for an uploaded
// file.
func EncodeMatrix(data []byte, n, m int) (field.Matrix, error) {
	elems, err := EncodeAligned(data, n*m)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("codec: encode matrix: %w", err)
	}
	return field.NewMatrix(elems, n), nil
}

// DecodeMatrix is the inverse of EncodeMatrix, recovering dataSize bytes
// from m's row-major element values.
func DecodeMatrix(m field.Matrix, dataSize int) []byte {
	return Decode(m.Values, dataSize)
}

// EncodeElementsWire serializes elems as spec's raw wire form for shard
// bytes: one 4-byte little-endian word per element, unpacked (not the
// dense 30-bits-per-element form EncodeAligned uses for payload bytes).
func EncodeElementsWire(elems []field.Elem) []byte {
	out := make([]byte, 4*len(elems))
	for i, e := range elems {
		binary.LittleEndian.PutUint32(out[4*i:], e.Uint32())
	}
	return out
}

// DecodeElementsWire is the inverse of EncodeElementsWire.
func DecodeElementsWire(data []byte) ([]field.Elem, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("codec: decode elements wire: length %d not a multiple of 4", len(data))
	}
	out := make([]field.Elem, len(data)/4)
	for i := range out {
		out[i] = field.New(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, nil
}
