package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := []byte("1234567890-=[qwertyuiop[]asdfghjkl;'zxcvbnm,./")
	encoded := Encode(data)
	decoded := Decode(encoded, len(data))
	require.Equal(t, data, decoded)
}

func TestEncodeDecodeAllOnes(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = 0xFF
	}
	encoded := Encode(data)
	decoded := Decode(encoded, len(data))
	require.Equal(t, data, decoded)
}

func TestEncodeAlignedPadsAndRejectsOversize(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	padded, err := EncodeAligned(data, 8)
	require.NoError(t, err)
	require.Len(t, padded, 8)
	require.Equal(t, data, Decode(padded, len(data)))

	_, err = EncodeAligned(make([]byte, 1000), 4)
	require.Error(t, err)
}

func TestEncodeEmpty(t *testing.T) {
	require.Empty(t, Encode(nil))
	require.Empty(t, Decode(nil, 0))
}
