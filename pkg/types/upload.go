package types

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/field"
)

// Signature is the Schnorr-style (E, Fs) pair produced by pkg/keys.Sign and
// checked by pkg/keys.Verify: the nonce commitment R, a base-field value
// carried in the challenge extension field E=F3, and a scalar component in F.
type Signature struct {
	R field.Ext3 `json:"e"`
	S field.Elem `json:"fs"`
}

// UploadMessage is the gob-encoded body of the multipart "file" part
// in POST /clusters/{cluster_id}: the original, unencoded payload bytes
// plus the owner's signature over the encoded field elements.
type UploadMessage struct {
	Data      []byte    `json:"data"`
	Signature Signature `json:"signature"`
}

// EncodeUploadMessage serializes msg as the gob stream carried in the
// multipart "file" part; gob is this module's wire-format stand-in for
// the original's bincode, used the same way: a single process-internal
// length-prefixed encoding, not a cross-language contract.
func EncodeUploadMessage(msg UploadMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("types: encode upload message: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeUploadMessage is the inverse of EncodeUploadMessage.
func DecodeUploadMessage(data []byte) (UploadMessage, error) {
	var msg UploadMessage
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&msg); err != nil {
		return UploadMessage{}, fmt.Errorf("types: decode upload message: %w", err)
	}
	return msg, nil
}
