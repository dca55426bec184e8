package poseidon2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/field"
)

func TestPermuteDeterministic(t *testing.T) {
	var s1, s2 State
	for i := range s1 {
		s1[i] = field.New(uint32(i * 7))
		s2[i] = field.New(uint32(i * 7))
	}
	Permute(&s1)
	Permute(&s2)
	require.Equal(t, s1, s2)
}

func TestPermuteChangesState(t *testing.T) {
	var s State
	for i := range s {
		s[i] = field.New(uint32(i + 1))
	}
	before := s
	Permute(&s)
	require.NotEqual(t, before, s)
}

func TestHashDeterministicAndSensitive(t *testing.T) {
	a := []field.Elem{field.New(1), field.New(2), field.New(3)}
	b := []field.Elem{field.New(1), field.New(2), field.New(4)}
	require.Equal(t, Hash(a), Hash(a))
	require.NotEqual(t, Hash(a), Hash(b))
}

func TestCompressNotCommutativeInGeneral(t *testing.T) {
	a := HashOne(field.New(1))
	b := HashOne(field.New(2))
	require.NotEqual(t, Compress(a, b), Compress(b, a))
}

func TestMerkleTreeOpenVerify(t *testing.T) {
	leaves := make([]field.Elem, 8)
	for i := range leaves {
		leaves[i] = field.New(uint32(100 + i))
	}
	root, tree, err := CommitVec(leaves)
	require.NoError(t, err)

	for i := range leaves {
		leaf, proof, err := OpenBatch(tree, leaves, i)
		require.NoError(t, err)
		require.True(t, VerifyBatch(root, i, len(leaves), leaf, proof))
	}
}

func TestMerkleTreeRejectsTamperedLeaf(t *testing.T) {
	leaves := make([]field.Elem, 4)
	for i := range leaves {
		leaves[i] = field.New(uint32(i))
	}
	root, tree, err := CommitVec(leaves)
	require.NoError(t, err)

	_, proof, err := OpenBatch(tree, leaves, 2)
	require.NoError(t, err)
	require.False(t, VerifyBatch(root, 2, len(leaves), field.New(999), proof))
}

func TestStreamCipherDeterministicKeystream(t *testing.T) {
	key := []field.Elem{field.New(42), field.New(7)}
	c1 := NewStreamCipher(key)
	c2 := NewStreamCipher(key)
	require.Equal(t, c1.NextN(20), c2.NextN(20))
}

func TestChallengerSampleChangesWithObservations(t *testing.T) {
	c1 := NewChallenger()
	c1.Observe(field.New(1))
	s1 := c1.Sample()

	c2 := NewChallenger()
	c2.Observe(field.New(2))
	s2 := c2.Sample()

	require.False(t, s1.Equal(s2))
}

func TestChallengerSampleExtElementConsumesThree(t *testing.T) {
	c := NewChallenger()
	c.ObserveDigest(HashOne(field.New(5)))
	e := c.SampleExtElement()
	require.False(t, e.IsZero())
	require.Len(t, c.outputBuffer, Rate-3)
}
