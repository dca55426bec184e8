package snapstore

import "encoding/binary"

// Key tags for the single meta bucket, mirroring a length-prefixed tagged
// enum: the first byte selects the key kind, the remainder (if any) holds
// the tag's fields big-endian so that bbolt's lexicographic cursor order
// also sorts OffsetTable entries by (snapshot, cluster).
const (
	keyTagSnapshotStart   byte = 0
	keyTagSnapshotPending byte = 1
	keyTagNumSlots        byte = 2
	keyTagOffsetTable     byte = 3
)

var bucketMeta = []byte("meta")

func simpleKey(tag byte) []byte {
	return []byte{tag}
}

func offsetTableKey(snapshot, cluster uint64) []byte {
	key := make([]byte, 17)
	key[0] = keyTagOffsetTable
	binary.BigEndian.PutUint64(key[1:9], snapshot)
	binary.BigEndian.PutUint64(key[9:17], cluster)
	return key
}

func offsetTablePrefix() []byte {
	return []byte{keyTagOffsetTable}
}

func decodeOffsetTableKey(key []byte) (snapshot, cluster uint64, ok bool) {
	if len(key) != 17 || key[0] != keyTagOffsetTable {
		return 0, 0, false
	}
	return binary.BigEndian.Uint64(key[1:9]), binary.BigEndian.Uint64(key[9:17]), true
}

func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeUint64(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
