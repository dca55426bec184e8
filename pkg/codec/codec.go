// Package codec packs arbitrary byte slices into Mersenne-31 field elements
// 30 bits at a time (and back), so raw payload bytes can be carried through
// the circle-FFT commitment pipeline in pkg/shard as field elements.
package codec

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/field"
)

const (
	mask          uint64 = 0x3FFFFFFF
	bitsPerElement        = 30
)

// Encode packs data into field elements, 30 bits of input per element,
// little-endian within the bit stream. A final partial element is emitted
// if data's length isn't a multiple of 30 bits.
func Encode(data []byte) []field.Elem {
	var result []field.Elem
	var buffer uint64
	bitsInBuffer := 0

	for _, b := range data {
		buffer |= uint64(b) << uint(bitsInBuffer)
		bitsInBuffer += 8

		if bitsInBuffer >= bitsPerElement {
			result = append(result, field.New(uint32(buffer&mask)))
			buffer >>= bitsPerElement
			bitsInBuffer -= bitsPerElement
		}
	}

	if bitsInBuffer > 0 {
		result = append(result, field.New(uint32(buffer&mask)))
	}
	return result
}

// EncodeAligned encodes data and zero-pads (or errors if data is too large)
// to exactly nElements field elements, for callers that need a fixed-width
// payload row.
func EncodeAligned(data []byte, nElements int) ([]field.Elem, error) {
	if len(data) > nElements*30/8 {
		return nil, fmt.Errorf("codec: data of %d bytes does not fit in %d elements", len(data), nElements)
	}
	out := make([]field.Elem, nElements)
	copy(out, Encode(data))
	return out, nil
}

// Decode unpacks dataSize bytes from elements, the inverse of Encode.
func Decode(elements []field.Elem, dataSize int) []byte {
	result := make([]byte, 0, dataSize)
	var buffer uint64
	bitsInBuffer := 0

	for _, e := range elements {
		buffer |= uint64(e.Uint32()) << uint(bitsInBuffer)
		bitsInBuffer += bitsPerElement

		for bitsInBuffer >= 8 && len(result) < dataSize {
			result = append(result, byte(buffer&0xFF))
			buffer >>= 8
			bitsInBuffer -= 8
		}
	}
	return result
}
