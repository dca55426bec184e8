package poseidon2

import "github.com/shardmesh/shardmesh/pkg/field"

// Rate is the sponge's absorption/squeeze width; the remaining Width-Rate
// elements form the capacity.
const Rate = 8

// Digest is the 8-element Poseidon2 hash output.
type Digest [Rate]field.Elem

// Hash implements the padding-free sponge construction: input is absorbed
// Rate elements at a time by overwriting the rate portion of the state (the
// capacity portion is left untouched, carrying state across blocks), with a
// permutation between every block. Because there is no length padding,
// callers hashing variable-length or non-rate-aligned data must pad to a
// multiple of Rate themselves so that distinct inputs cannot collide by
// sharing a common block prefix. Not every caller in this module passes
// rate-aligned input: Commitment.CanonicalHash, for one, hashes 11
// elements (chi and the opening digest).
func Hash(input []field.Elem) Digest {
	var state State
	for i := 0; i < len(input); i += Rate {
		end := i + Rate
		if end > len(input) {
			end = len(input)
		}
		for j := i; j < end; j++ {
			state[j-i] = input[j]
		}
		for j := end - i; j < Rate; j++ {
			state[j] = field.Zero
		}
		Permute(&state)
	}
	if len(input) == 0 {
		Permute(&state)
	}
	var out Digest
	copy(out[:], state[:Rate])
	return out
}

// HashOne hashes a single field element, zero-padded to a full rate block;
// this is the leaf hash used by the Merkle MMCS.
func HashOne(x field.Elem) Digest {
	return Hash([]field.Elem{x})
}
