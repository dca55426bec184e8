// Package shard implements the erasure-coded shard commitment scheme: a
// payload matrix is circle-FFT extrapolated into many more shards than its
// own width, committed to with a two-level Poseidon2 Merkle tree, and
// opened at a Fiat-Shamir challenge point so that a verifier can check a
// claimed recovery against the commitment without re-downloading every
// shard ("optimistic correctable commitment", per
// https://ethresear.ch/t/using-fri-for-da-with-optimistic-correctable-commitments-in-rollups/20467).
package shard

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/circle"
	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/poseidon2"
)

// Commitment is the public header produced by ComputeCommitment: a hash
// binding the original payload matrix, the Merkle root over every shard,
// and the payload's evaluations at the Fiat-Shamir challenge point chi,
// which callers can check a recovered matrix against without access to the
// full shard set.
type Commitment struct {
	PCSCommitmentHash  poseidon2.Digest
	ShardsRootHash     poseidon2.Digest
	Chi                field.Ext3
	OpeningEvaluations []field.Ext3
}

// CanonicalHash computes poseidon2(pcs_commitment_hash || poseidon2(chi ||
// poseidon2(opening_evaluations))), the single hash a peer can compare to
// accept a commitment as canonical without re-deriving chi or the openings.
func (c Commitment) CanonicalHash() poseidon2.Digest {
	openingElems := make([]field.Elem, 0, len(c.OpeningEvaluations)*3)
	for _, e := range c.OpeningEvaluations {
		openingElems = append(openingElems, e[0], e[1], e[2])
	}
	openingDigest := poseidon2.Hash(openingElems)

	chiElems := append([]field.Elem{c.Chi[0], c.Chi[1], c.Chi[2]}, openingDigest[:]...)
	chiDigest := poseidon2.Hash(chiElems)

	outer := append(append([]field.Elem{}, c.PCSCommitmentHash[:]...), chiDigest[:]...)
	return poseidon2.Hash(outer)
}

// ProverData is everything the committing node needs to keep around to
// serve shard downloads and their Merkle openings later.
type ProverData struct {
	Commitment     Commitment
	Shards         [][]field.Elem
	TopTree        *poseidon2.MerkleTree
	TopTreeLeaves  []field.Elem // concatenated per-shard root hash components
	LogBlowup      int
	LogDataWidth   int
	LogDataHeight  int
}

// ComputeSubdomain returns the index-th of the 2^logBlowupFactor subcosets
// of the size-2^(logDimension+logBlowupFactor) shards domain; recovering
// from exactly one full subcoset is the fast path since it's itself a valid
// circle domain of size 2^logDimension.
func ComputeSubdomain(index, logBlowupFactor, logDimension int) (circle.Domain, error) {
	if index < 0 || index >= (1<<logBlowupFactor) {
		return circle.Domain{}, fmt.Errorf("shard: subdomain index %d out of bounds for log blowup %d", index, logBlowupFactor)
	}
	shiftPoint := circle.Generator(logDimension + logBlowupFactor + 1)
	generatorPoint := circle.Generator(logDimension + logBlowupFactor)
	shift := circle.Add(shiftPoint, circle.ScalarMul(generatorPoint, uint64(index)))
	return circle.New(logDimension, shift), nil
}

// ComputeSubdomainIndexes returns the natural-order indexes, into the full
// shards domain, of the index-th subcoset's points: two interleaved
// arithmetic progressions of step 2*blowup, one starting at index and one
// starting at 2*blowup-index-1 (the y-conjugate half).
func ComputeSubdomainIndexes(index, logBlowupFactor, logDimension int) []int {
	blowup := 1 << logBlowupFactor
	halfShards := 1 << (logDimension - 1)

	out := make([]int, 0, 2*halfShards)
	a := index
	b := 2*blowup - index - 1
	for i := 0; i < halfShards; i++ {
		out = append(out, a, b)
		a += 2 * blowup
		b += 2 * blowup
	}
	return out
}

// ComputeCommitment builds the shard set and commitment for an m-row,
// n-column payload matrix: the payload is extended via circle-FFT
// extrapolation from n to n*2^logBlowupFactor shards (each shard holding
// one evaluation point's values across all m rows), a two-level Merkle
// tree commits to them, and the payload's evaluations at a Fiat-Shamir
// challenge point chi are attached as the opening.
func ComputeCommitment(dataMatrix field.Matrix, logBlowupFactor int) (*ProverData, error) {
	n := dataMatrix.Width
	m := dataMatrix.Height()
	logDataWidth, err := bitutil.Log2Strict(n)
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: data width: %w", err)
	}
	logDataHeight, err := bitutil.Log2Strict(m)
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: data height: %w", err)
	}
	logNumShards := logDataWidth + logBlowupFactor

	dataDomain := circle.Standard(logDataWidth)
	shardsDomain := circle.Standard(logNumShards)
	commitmentDomain := circle.Standard(logDataHeight)

	transposed := dataMatrix.Transpose() // height n, width m

	expanded, err := circle.Extrapolate(dataDomain, transposed, shardsDomain)
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: extrapolate: %w", err)
	}

	numShards := expanded.Height()
	shards := make([][]field.Elem, numShards)
	for i := 0; i < numShards; i++ {
		row := expanded.Row(i)
		shards[i] = append([]field.Elem(nil), row...)
	}

	shardRoots := make([]poseidon2.Digest, numShards)
	for i, s := range shards {
		root, _, err := poseidon2.CommitVec(s)
		if err != nil {
			return nil, fmt.Errorf("shard: compute_commitment: committing shard %d: %w", i, err)
		}
		shardRoots[i] = root
	}

	concatenated := make([]field.Elem, 0, numShards*poseidon2.Rate)
	for _, r := range shardRoots {
		concatenated = append(concatenated, r[:]...)
	}
	shardsRootHash, topTree, err := poseidon2.CommitVec(concatenated)
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: committing shard roots: %w", err)
	}

	pcsCommitmentHash, _, err := poseidon2.CommitVec(append([]field.Elem(nil), dataMatrix.Values...))
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: committing payload: %w", err)
	}

	challenger := poseidon2.NewChallenger()
	challenger.ObserveDigest(pcsCommitmentHash)
	challenger.ObserveDigest(shardsRootHash)
	chi := challenger.SampleExtElement()

	coeffs, err := circle.Interpolate(commitmentDomain, dataMatrix)
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: interpolate payload: %w", err)
	}
	openingEvaluations, err := circle.EvaluateExt(coeffs, circle.FromProjectiveLine(chi))
	if err != nil {
		return nil, fmt.Errorf("shard: compute_commitment: evaluate opening: %w", err)
	}

	return &ProverData{
		Commitment: Commitment{
			PCSCommitmentHash:  pcsCommitmentHash,
			ShardsRootHash:     shardsRootHash,
			Chi:                chi,
			OpeningEvaluations: openingEvaluations,
		},
		Shards:        shards,
		TopTree:       topTree,
		TopTreeLeaves: concatenated,
		LogBlowup:     logBlowupFactor,
		LogDataWidth:  logDataWidth,
		LogDataHeight: logDataHeight,
	}, nil
}

// OpenShard returns the Merkle opening that lets a holder of shard
// shardIndex's full value vector prove it is part of pd's commitment: one
// authentication path per component of the shard's own root hash, since the
// top-level tree's leaves are individual hash components rather than whole
// shards.
func OpenShard(pd *ProverData, shardIndex int) ([poseidon2.Rate][]poseidon2.Digest, error) {
	var proofs [poseidon2.Rate][]poseidon2.Digest
	base := shardIndex * poseidon2.Rate
	if shardIndex < 0 || base+poseidon2.Rate > len(pd.TopTreeLeaves) {
		return proofs, fmt.Errorf("shard: open_shard: index %d out of range", shardIndex)
	}
	for k := 0; k < poseidon2.Rate; k++ {
		_, proof, err := poseidon2.OpenBatch(pd.TopTree, pd.TopTreeLeaves, base+k)
		if err != nil {
			return proofs, fmt.Errorf("shard: open_shard: %w", err)
		}
		proofs[k] = proof
	}
	return proofs, nil
}

// VerifyShard checks that shardValues (a full shard downloaded from some
// peer) is part of commitment's shard set at shardIndex, given the
// authentication paths OpenShard produced for it. The verifier recomputes
// the shard's own root directly from shardValues (it has the whole shard,
// so no inner-tree proof is needed) and only needs proofs for that root's
// presence in the top-level tree.
func VerifyShard(commitment Commitment, numShards, shardIndex int, shardValues []field.Elem, proofs [poseidon2.Rate][]poseidon2.Digest) (bool, error) {
	root, _, err := poseidon2.CommitVec(shardValues)
	if err != nil {
		return false, fmt.Errorf("shard: verify_shard: %w", err)
	}
	base := shardIndex * poseidon2.Rate
	for k := 0; k < poseidon2.Rate; k++ {
		if !poseidon2.VerifyBatch(commitment.ShardsRootHash, base+k, numShards*poseidon2.Rate, root[k], proofs[k]) {
			return false, nil
		}
	}
	return true, nil
}
