// Package poseidon2 implements the width-16, S-box-degree-5 Poseidon2
// permutation over the Mersenne-31 field, and the sponge hash, compression
// function, Merkle MMCS, keyed stream cipher, and Fiat-Shamir challenger
// built on top of it for commitment, sealing, and proof-of-custody work.
package poseidon2

import "github.com/shardmesh/shardmesh/pkg/field"

// State is the 16-element Poseidon2 state.
type State [Width]field.Elem

var (
	extConsts = externalConstantsField()
	intConsts = internalConstantsField()
)

// Permute applies the full Poseidon2 permutation to state in place: an
// initial external linear layer, RoundsF/2 full rounds, RoundsP partial
// rounds, then the remaining RoundsF/2 full rounds.
func Permute(state *State) {
	externalLinearLayer(state)

	half := RoundsF / 2
	for r := 0; r < half; r++ {
		addExternalConstants(state, r)
		sboxAll(state)
		externalLinearLayer(state)
	}
	for r := 0; r < RoundsP; r++ {
		state[0] = state[0].Add(intConsts[r])
		state[0] = sbox(state[0])
		internalLinearLayer(state)
	}
	for r := half; r < RoundsF; r++ {
		addExternalConstants(state, r)
		sboxAll(state)
		externalLinearLayer(state)
	}
}

func sbox(x field.Elem) field.Elem {
	return x.Exp(SboxDegree)
}

func sboxAll(state *State) {
	for i := range state {
		state[i] = sbox(state[i])
	}
}

func addExternalConstants(state *State, round int) {
	for i := range state {
		state[i] = state[i].Add(extConsts[round][i])
	}
}

// mat4Rows is the 4x4 MDS block applied to each 4-element chunk of the
// state by the external linear layer: the circulant matrix with first row
// (2,3,1,1).
var mat4Rows = [4][4]uint32{
	{2, 3, 1, 1},
	{1, 2, 3, 1},
	{1, 1, 2, 3},
	{3, 1, 1, 2},
}

func applyMat4(x [4]field.Elem) [4]field.Elem {
	var out [4]field.Elem
	for i := 0; i < 4; i++ {
		acc := field.Zero
		for j := 0; j < 4; j++ {
			switch mat4Rows[i][j] {
			case 1:
				acc = acc.Add(x[j])
			default:
				acc = acc.Add(x[j].Mul(field.New(mat4Rows[i][j])))
			}
		}
		out[i] = acc
	}
	return out
}

// externalLinearLayer is Poseidon2's t=16 external (full-round) linear
// layer: a 4x4 MDS block applied independently to each of the four
// 4-element chunks, followed by adding each chunk's partner sum (the
// standard "small matrix" cross-chunk mixing used for widths that are
// multiples of 4).
func externalLinearLayer(state *State) {
	for c := 0; c < Width/4; c++ {
		block := [4]field.Elem{state[4*c], state[4*c+1], state[4*c+2], state[4*c+3]}
		res := applyMat4(block)
		state[4*c], state[4*c+1], state[4*c+2], state[4*c+3] = res[0], res[1], res[2], res[3]
	}

	var sums [4]field.Elem
	for c := 0; c < Width/4; c++ {
		for i := 0; i < 4; i++ {
			sums[i] = sums[i].Add(state[4*c+i])
		}
	}
	for c := 0; c < Width/4; c++ {
		for i := 0; i < 4; i++ {
			state[4*c+i] = state[4*c+i].Add(sums[i])
		}
	}
}

// internalLinearLayer applies M_I = diag(internalDiag) + J, the all-ones
// matrix, to state: every coordinate gets diag[i]*state[i] plus the sum of
// the whole (pre-update) state.
func internalLinearLayer(state *State) {
	var sum field.Elem
	for _, v := range state {
		sum = sum.Add(v)
	}
	for i := range state {
		state[i] = state[i].Mul(internalDiag[i]).Add(sum)
	}
}
