// Package keys is the pluggable key-derivation and signing oracle consumed
// by the storage node and client: mnemonic-to-keypair derivation, Sign,
// Verify, and a payload Hash helper.
//
// §1 of the system this implements treats the real signature scheme (EdDSA
// over a twisted-Edwards curve defined over a Jubjub-style embedding of the
// Mersenne-31 field, with BIP32-style mnemonic derivation) as an external,
// black-box cryptographic oracle. No such curve library exists in this
// module's dependency set, so this package substitutes a self-consistent
// Schnorr-style signature over the multiplicative group of the base field
// itself: deterministic, independently verifiable, and wire-compatible
// with types.Signature's (E, Fs) shape, but NOT the real M31Jubjub curve
// and not meant to carry production security guarantees at this field
// size. Swap this package out for a genuine curve implementation without
// touching any caller.
package keys
