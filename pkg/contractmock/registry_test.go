package contractmock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/types"
)

func TestRegistryCreateThenGet(t *testing.T) {
	reg, err := Open(filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, err)

	ownerPK := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	commit := shard.Commitment{}

	id, err := reg.Create(ownerPK, commit)
	require.NoError(t, err)

	info, ok := reg.Get(id)
	require.True(t, ok)
	require.Equal(t, uint64(0), info.Index)
	require.Equal(t, ownerPK, info.OwnerPK)
}

func TestRegistryGetUnknownClusterNotFound(t *testing.T) {
	reg, err := Open(filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, err)

	_, ok := reg.Get(types.ClusterID{})
	require.False(t, ok)
}

func TestRegistryAssignsIncrementingIndices(t *testing.T) {
	reg, err := Open(filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, err)

	ownerPK := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	id1, err := reg.Create(ownerPK, shard.Commitment{})
	require.NoError(t, err)
	id2, err := reg.Create(ownerPK, shard.Commitment{Chi: field.Ext3FromBase(field.New(7))})
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	info1, ok := reg.Get(id1)
	require.True(t, ok)
	info2, ok := reg.Get(id2)
	require.True(t, ok)
	require.Equal(t, uint64(0), info1.Index)
	require.Equal(t, uint64(1), info2.Index)
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	reg, err := Open(path)
	require.NoError(t, err)

	ownerPK := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	id, err := reg.Create(ownerPK, shard.Commitment{})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	info, ok := reopened.Get(id)
	require.True(t, ok)
	require.Equal(t, uint64(0), info.Index)
}
