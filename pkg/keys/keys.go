package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/codec"
	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/poseidon2"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// generator is a fixed, arbitrary nonzero base-field element used as the
// Schnorr group generator. Any nonzero element works: F* is cyclic of
// order P-1, so every nonzero element generates some subgroup and the
// verification identity below holds regardless of which one.
var generator = field.New(7)

// groupOrder is the order of F*, the modulus signature scalars are
// reduced into so that g^groupOrder == 1.
const groupOrder = uint64(field.P) - 1

// PrivateKey is the scalar a signer holds; it corresponds to the
// original's Fs scalar-field type.
type PrivateKey = field.Elem

// PublicKey corresponds to the original's Fq type; this oracle embeds it
// in the base field via Ext3FromBase rather than a genuine curve point.
type PublicKey = field.Ext3

// DeriveKeys deterministically derives a keypair from mnemonic: the
// mnemonic is hashed to seed a private scalar, and the public key is the
// generator raised to that scalar. Same mnemonic always yields the same
// keypair.
func DeriveKeys(mnemonic string) (PrivateKey, PublicKey, error) {
	if mnemonic == "" {
		return PrivateKey{}, PublicKey{}, fmt.Errorf("keys: derive: empty mnemonic")
	}
	seed := sha256.Sum256([]byte(mnemonic))
	digest := poseidon2.Hash(codec.Encode(seed[:]))
	sk := digest[0]
	if sk.IsZero() {
		sk = field.One
	}
	pk := field.Ext3FromBase(generator.Exp(uint64(sk.Uint32())))
	return sk, pk, nil
}

// PublicKeyFromPrivate recomputes the public key for sk, for callers that
// only persisted the private scalar.
func PublicKeyFromPrivate(sk PrivateKey) PublicKey {
	return field.Ext3FromBase(generator.Exp(uint64(sk.Uint32())))
}

// Hash returns the canonical Poseidon2 digest of data, packed through the
// byte codec the same way a payload is packed before commitment, so a
// caller can bind a signature to data via the same hash the commitment
// engine produces.
func Hash(data []byte) poseidon2.Digest {
	return poseidon2.Hash(codec.Encode(data))
}

// Sign produces a deterministic signature over message under sk: a
// Schnorr signature over F*, with the nonce itself derived deterministically
// (RFC 6979-style) from sk and the message so repeated calls are
// reproducible and never reuse a nonce across distinct messages.
func Sign(sk PrivateKey, message []byte) (types.Signature, error) {
	digest := Hash(message)

	nonceSeed := poseidon2.Hash(append([]field.Elem{sk}, digest[:]...))
	r := nonceSeed[0]
	if r.IsZero() {
		r = field.One
	}
	bigR := generator.Exp(uint64(r.Uint32()))

	pk := generator.Exp(uint64(sk.Uint32()))
	challenge := poseidon2.Hash(append([]field.Elem{bigR, pk}, digest[:]...))
	c := challenge[0]

	s := (uint64(r.Uint32()) + uint64(c.Uint32())*uint64(sk.Uint32())) % groupOrder

	return types.Signature{
		R: field.Ext3FromBase(bigR),
		S: field.New(uint32(s)),
	}, nil
}

// Verify checks sig against message under pk. It reports false (not an
// error) for a well-formed but non-matching signature; malformed
// signatures whose R or pk components carry a nonzero extension
// coordinate (impossible for anything this package's Sign produces) are
// also rejected as false.
func Verify(pk PublicKey, message []byte, sig types.Signature) (bool, error) {
	if !sig.R[1].IsZero() || !sig.R[2].IsZero() {
		return false, nil
	}
	if !pk[1].IsZero() || !pk[2].IsZero() {
		return false, nil
	}
	bigR := sig.R[0]
	pkBase := pk[0]

	digest := Hash(message)
	challenge := poseidon2.Hash(append([]field.Elem{bigR, pkBase}, digest[:]...))
	c := challenge[0]

	lhs := generator.Exp(uint64(sig.S.Uint32()))
	rhs := bigR.Mul(pkBase.Exp(uint64(c.Uint32())))
	return lhs.Equal(rhs), nil
}
