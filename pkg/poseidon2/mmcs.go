package poseidon2

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// MerkleTree is the prover-side commitment data produced by CommitVec: the
// leaf digests and every intermediate layer, kept so individual leaves can
// later be opened with an authentication path.
type MerkleTree struct {
	layers [][]Digest // layers[0] = leaf digests, layers[len-1] = {root}
}

// Root returns the tree's single root digest.
func (t *MerkleTree) Root() Digest {
	last := t.layers[len(t.layers)-1]
	return last[0]
}

// NumLeaves returns the number of leaves committed to.
func (t *MerkleTree) NumLeaves() int {
	return len(t.layers[0])
}

// CommitVec hashes every element of leaves independently (HashOne) and
// builds a binary Merkle tree over the resulting digests with Compress as
// the two-to-one node hash, mirroring how the commitment layer commits to
// both individual shards (one leaf per field element) and to the vector of
// per-shard root hashes (one leaf per root-hash component, Rate leaves per
// shard).
func CommitVec(leaves []field.Elem) (Digest, *MerkleTree, error) {
	n := len(leaves)
	if _, err := bitutil.Log2Strict(n); err != nil {
		return Digest{}, nil, fmt.Errorf("poseidon2: commit_vec: %w", err)
	}

	layer0 := make([]Digest, n)
	for i, x := range leaves {
		layer0[i] = HashOne(x)
	}

	layers := [][]Digest{layer0}
	cur := layer0
	for len(cur) > 1 {
		next := make([]Digest, len(cur)/2)
		for i := range next {
			next[i] = Compress(cur[2*i], cur[2*i+1])
		}
		layers = append(layers, next)
		cur = next
	}

	tree := &MerkleTree{layers: layers}
	return tree.Root(), tree, nil
}

// OpenBatch returns the leaf value committed at index, together with the
// sibling digests forming its authentication path (bottom layer first), by
// opening tree against the original leaves it was built from.
func OpenBatch(tree *MerkleTree, leaves []field.Elem, index int) (field.Elem, []Digest, error) {
	n := tree.NumLeaves()
	if index < 0 || index >= n {
		return field.Elem{}, nil, fmt.Errorf("poseidon2: open_batch: index %d out of range [0,%d)", index, n)
	}
	if len(leaves) != n {
		return field.Elem{}, nil, fmt.Errorf("poseidon2: open_batch: leaves length %d does not match tree of %d leaves", len(leaves), n)
	}

	proof := make([]Digest, 0, len(tree.layers)-1)
	idx := index
	for l := 0; l < len(tree.layers)-1; l++ {
		sibling := idx ^ 1
		proof = append(proof, tree.layers[l][sibling])
		idx /= 2
	}
	return leaves[index], proof, nil
}

// VerifyBatch checks that leaf, when hashed and folded up through proof
// (bottom layer first) using the sibling at each step, reproduces root at
// the claimed index among numLeaves total leaves.
func VerifyBatch(root Digest, index int, numLeaves int, leaf field.Elem, proof []Digest) bool {
	expectedDepth, err := bitutil.Log2Strict(numLeaves)
	if err != nil {
		return false
	}
	if len(proof) != expectedDepth {
		return false
	}
	if index < 0 || index >= numLeaves {
		return false
	}

	cur := HashOne(leaf)
	idx := index
	for _, sibling := range proof {
		if idx&1 == 0 {
			cur = Compress(cur, sibling)
		} else {
			cur = Compress(sibling, cur)
		}
		idx /= 2
	}
	return cur == root
}
