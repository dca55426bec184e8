package shard

import (
	"fmt"

	"github.com/shardmesh/shardmesh/pkg/bitutil"
	"github.com/shardmesh/shardmesh/pkg/circle"
	"github.com/shardmesh/shardmesh/pkg/field"
)

// RecoverFromSubcoset reconstructs the original m-row, n-column payload
// matrix from exactly one full subcoset of n shards (subcosetIndex,
// identified by ComputeSubdomain/ComputeSubdomainIndexes): since a subcoset
// is itself a valid circle domain, this is a single extrapolation back onto
// the standard domain, no matrix inversion required.
func RecoverFromSubcoset(shardsMatrix field.Matrix, subcosetIndex, logBlowupFactor int) (field.Matrix, error) {
	logDimension, err := bitutil.Log2Strict(shardsMatrix.Height())
	if err != nil {
		return field.Matrix{}, fmt.Errorf("shard: recover_from_subcoset: %w", err)
	}
	sourceDomain, err := ComputeSubdomain(subcosetIndex, logBlowupFactor, logDimension)
	if err != nil {
		return field.Matrix{}, err
	}
	targetDomain := circle.Standard(logDimension)

	recovered, err := circle.Extrapolate(sourceDomain, shardsMatrix, targetDomain)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("shard: recover_from_subcoset: %w", err)
	}
	return recovered.Transpose(), nil
}

// RecoverGeneral reconstructs the payload matrix from an arbitrary set of n
// shard indexes (not necessarily forming a subcoset) into the full shards
// domain of size 2^(logDimension+logBlowupFactor). Each of the n chosen
// points, together with its shard row, gives one equation per original
// polynomial; the transfer matrix built from those points is inverted via
// Gauss-Jordan (see pkg/field) instead of relying on subcoset structure.
func RecoverGeneral(indexes []int, shardsMatrix field.Matrix, logBlowupFactor, logDimension int) (field.Matrix, error) {
	n := 1 << logDimension
	if len(indexes) != n {
		return field.Matrix{}, fmt.Errorf("shard: recover_general: need exactly %d shards, got %d", n, len(indexes))
	}
	if shardsMatrix.Height() != n {
		return field.Matrix{}, fmt.Errorf("shard: recover_general: shards matrix height %d does not match %d indexes", shardsMatrix.Height(), n)
	}

	shardsDomain := circle.Standard(logDimension + logBlowupFactor)
	points := make([]circle.Point, n)
	seen := make(map[int]bool, n)
	for i, idx := range indexes {
		if seen[idx] {
			return field.Matrix{}, fmt.Errorf("shard: recover_general: duplicate shard index %d", idx)
		}
		seen[idx] = true
		points[i] = shardsDomain.Point(idx)
	}

	coeffs, err := circle.InterpolateAtPoints(points, shardsMatrix)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("shard: recover_general: %w", err)
	}

	dataDomain := circle.Standard(logDimension)
	recovered, err := circle.Evaluate(dataDomain, coeffs)
	if err != nil {
		return field.Matrix{}, fmt.Errorf("shard: recover_general: %w", err)
	}
	return recovered.Transpose(), nil
}
