package contractmock

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/shardmesh/shardmesh/pkg/field"
	"github.com/shardmesh/shardmesh/pkg/poseidon2"
	"github.com/shardmesh/shardmesh/pkg/shard"
	"github.com/shardmesh/shardmesh/pkg/types"
)

// record is one registered cluster: the owner who may upload to it, the
// commitment they registered, and the numeric index the registry
// assigned it.
type record struct {
	Index   uint64
	OwnerPK []byte
	Commit  shard.Commitment
}

// state is the gob-persisted shape of the whole registry: every cluster
// record (each carrying its own index) and the next index to assign.
type state struct {
	Clusters  map[types.ClusterID]record
	NextIndex uint64
}

// Registry is the contract mock's in-memory cluster table, durable to a
// gob file on every write.
type Registry struct {
	mu       sync.RWMutex
	path     string
	clusters map[types.ClusterID]record
	next     uint64
}

// Open loads path if it exists, or starts an empty registry otherwise.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path, clusters: make(map[types.ClusterID]record)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("contractmock: open %s: %w", path, err)
	}

	var st state
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return nil, fmt.Errorf("contractmock: decode %s: %w", path, err)
	}
	r.clusters = st.Clusters
	r.next = st.NextIndex
	if r.clusters == nil {
		r.clusters = make(map[types.ClusterID]record)
	}
	return r, nil
}

// Create assigns a fresh cluster id to (ownerPK, commit) and persists
// the registry.
func (r *Registry) Create(ownerPK []byte, commit shard.Commitment) (types.ClusterID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.next
	r.next++

	id := deriveClusterID(ownerPK, commit, index)
	r.clusters[id] = record{Index: index, OwnerPK: append([]byte(nil), ownerPK...), Commit: commit}

	if err := r.persistLocked(); err != nil {
		return types.ClusterID{}, err
	}
	return id, nil
}

// Get looks up id's registered record. ok is false if id was never
// created.
func (r *Registry) Get(id types.ClusterID) (types.ClusterInfoResponse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.clusters[id]
	if !ok {
		return types.ClusterInfoResponse{}, false
	}
	return types.ClusterInfoResponse{Index: rec.Index, OwnerPK: rec.OwnerPK, Commit: rec.Commit}, true
}

func (r *Registry) persistLocked() error {
	var buf bytes.Buffer
	st := state{Clusters: r.clusters, NextIndex: r.next}
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return fmt.Errorf("contractmock: encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("contractmock: mkdir: %w", err)
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("contractmock: write %s: %w", r.path, err)
	}
	return nil
}

// deriveClusterID folds the registration's identifying data through
// Poseidon2 into a 5-element cluster tag: deterministic given the same
// inputs, and collision-free in practice across the assigned index
// alone already being unique.
func deriveClusterID(ownerPK []byte, commit shard.Commitment, index uint64) types.ClusterID {
	elems := make([]field.Elem, 0, len(ownerPK)+1+8)
	for _, b := range ownerPK {
		elems = append(elems, field.New(uint32(b)))
	}
	elems = append(elems, commit.PCSCommitmentHash[:]...)
	elems = append(elems, field.New(uint32(index)), field.New(uint32(index>>32)))

	digest := poseidon2.Hash(elems)
	var id types.ClusterID
	copy(id[:], digest[:5])
	return id
}
