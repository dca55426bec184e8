// Package snapstore implements a sharded, snapshot-versioned storage layer:
// fixed-size clusters are written to a flat backing file at slot offsets,
// a bbolt-backed table maps (snapshot, cluster) pairs to slots, and a
// reference-counted allocator (pkg/snapstore/allocator) reclaims slots once
// no live snapshot references them anymore.
package snapstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	bolt "go.etcd.io/bbolt"

	"github.com/shardmesh/shardmesh/pkg/snapstore/allocator"
)

// Config describes the fixed shape of one storage instance.
type Config struct {
	NumClusters int
	ClusterSize int
}

type offsetEntry struct {
	DBSnapshot uint64
	Offset     uint64
}

// cell is one (snapshot, cluster) mapping, individually lockable so that
// writes to different clusters within the same snapshot never contend.
type cell struct {
	mu    sync.Mutex
	entry offsetEntry
}

// Store is a SnapshotDb: durable cluster storage plus a versioned offset
// table and a slot allocator.
type Store struct {
	db      *bolt.DB
	config  Config
	storage *os.File

	allocator *allocator.Allocator
	numSlots  atomic.Int64

	tableMu         sync.RWMutex
	snapshotStart   uint64
	snapshotPending uint64
	inner           map[uint64][]*cell
}

// Open opens (or formats, if empty) a snapshot store rooted at dataDir.
func Open(dataDir string, config Config) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("snapstore: mkdir %s: %w", dataDir, err)
	}

	db, err := bolt.Open(filepath.Join(dataDir, "meta.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("snapstore: open meta db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapstore: create bucket: %w", err)
	}

	storage, err := os.OpenFile(filepath.Join(dataDir, "storage"), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("snapstore: open storage file: %w", err)
	}

	empty, err := isEmpty(db)
	if err != nil {
		return nil, err
	}
	if empty {
		if err := initDB(db, storage, config); err != nil {
			return nil, err
		}
	}

	numSlots, err := getNumSlots(db)
	if err != nil {
		return nil, err
	}

	rows, start, pending, err := loadOffsetTable(db, config)
	if err != nil {
		return nil, err
	}

	linkCounter := make([]int64, numSlots)
	for _, row := range rows {
		for _, e := range row {
			if int(e.Offset) < len(linkCounter) {
				linkCounter[e.Offset]++
			}
		}
	}
	alloc := allocator.FromLinkCounter(linkCounter)

	inner := make(map[uint64][]*cell, len(rows))
	for i, row := range rows {
		cells := make([]*cell, len(row))
		for j, e := range row {
			cells[j] = &cell{entry: e}
		}
		inner[start+uint64(i)] = cells
	}

	s := &Store{
		db:              db,
		config:          config,
		storage:         storage,
		allocator:       alloc,
		snapshotStart:   start,
		snapshotPending: pending,
		inner:           inner,
	}
	s.numSlots.Store(int64(alloc.Len()))
	return s, nil
}

// Close releases the backing files.
func (s *Store) Close() error {
	storageErr := s.storage.Close()
	dbErr := s.db.Close()
	if storageErr != nil {
		return storageErr
	}
	return dbErr
}

func initDB(db *bolt.DB, storage *os.File, config Config) error {
	numSlots := allocator.FreeSlotsMinReserve + config.NumClusters
	if err := db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if err := b.Put(simpleKey(keyTagSnapshotStart), encodeUint64(0)); err != nil {
			return err
		}
		if err := b.Put(simpleKey(keyTagSnapshotPending), encodeUint64(1)); err != nil {
			return err
		}
		if err := b.Put(simpleKey(keyTagNumSlots), encodeUint64(uint64(numSlots))); err != nil {
			return err
		}
		for c := 0; c < config.NumClusters; c++ {
			if err := b.Put(offsetTableKey(0, uint64(c)), encodeUint64(uint64(c))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("snapstore: init meta: %w", err)
	}

	if err := storage.Truncate(0); err != nil {
		return fmt.Errorf("snapstore: truncate storage: %w", err)
	}
	size := int64(config.ClusterSize) * int64(config.NumClusters)
	if err := storage.Truncate(size); err != nil {
		return fmt.Errorf("snapstore: size storage file: %w", err)
	}
	return nil
}

func isEmpty(db *bolt.DB) (bool, error) {
	var empty bool
	err := db.View(func(tx *bolt.Tx) error {
		empty = tx.Bucket(bucketMeta).Get(simpleKey(keyTagSnapshotStart)) == nil
		return nil
	})
	return empty, err
}

func getNumSlots(db *bolt.DB) (int, error) {
	var n int
	err := db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMeta).Get(simpleKey(keyTagNumSlots))
		n = int(decodeUint64(v))
		return nil
	})
	return n, err
}

// loadOffsetTable reconstructs, per snapshot in [start, pending], the
// per-cluster offset entries, filling holes from the previous snapshot,
// pruning stale pre-start entries down to the newest one per cluster, and
// detecting (and persisting) a pending counter that lagged behind an
// OffsetTable entry actually written for it before a crash.
func loadOffsetTable(db *bolt.DB, config Config) ([][]offsetEntry, uint64, uint64, error) {
	var start, pending uint64
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		start = decodeUint64(b.Get(simpleKey(keyTagSnapshotStart)))
		pending = decodeUint64(b.Get(simpleKey(keyTagSnapshotPending)))
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}

	rowCount := int(pending-start) + 1
	rows := make([][]offsetEntry, rowCount)
	filled := make([][]bool, rowCount)
	for i := range rows {
		rows[i] = make([]offsetEntry, config.NumClusters)
		filled[i] = make([]bool, config.NumClusters)
	}
	// grow extends rows/filled so that index idx is addressable; guards
	// against a recovered db_snapshot that runs ahead of the persisted
	// pending counter (the crash window between an OffsetTable write and
	// the SnapshotPending bump that should have followed it).
	grow := func(idx int) {
		for len(rows) <= idx {
			rows = append(rows, make([]offsetEntry, config.NumClusters))
			filled = append(filled, make([]bool, config.NumClusters))
		}
	}

	computedPending := pending
	var keysToRemove [][]byte

	err = db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketMeta).Cursor()
		prefix := offsetTablePrefix()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			snap, cluster, ok := decodeOffsetTableKey(k)
			if !ok || cluster >= uint64(config.NumClusters) {
				continue
			}
			offset := decodeUint64(v)
			if snap > computedPending {
				computedPending = snap
			}

			if snap < start {
				if !filled[0][cluster] || rows[0][cluster].DBSnapshot < snap {
					if filled[0][cluster] {
						keysToRemove = append(keysToRemove, offsetTableKey(rows[0][cluster].DBSnapshot, cluster))
					}
					rows[0][cluster] = offsetEntry{DBSnapshot: snap, Offset: offset}
					filled[0][cluster] = true
				}
				continue
			}

			idx := int(snap - start)
			grow(idx)
			rows[idx][cluster] = offsetEntry{DBSnapshot: snap, Offset: offset}
			filled[idx][cluster] = true
		}
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}

	if len(keysToRemove) > 0 {
		if err := db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketMeta)
			for _, k := range keysToRemove {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return nil, 0, 0, fmt.Errorf("snapstore: pruning stale offset entries: %w", err)
		}
	}

	for i := 1; i < len(rows); i++ {
		for j := 0; j < config.NumClusters; j++ {
			if !filled[i][j] {
				rows[i][j] = rows[i-1][j]
				filled[i][j] = filled[i-1][j]
			}
		}
	}

	if computedPending != pending {
		if err := db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketMeta).Put(simpleKey(keyTagSnapshotPending), encodeUint64(computedPending))
		}); err != nil {
			return nil, 0, 0, fmt.Errorf("snapstore: persisting recovered pending: %w", err)
		}
		pending = computedPending
	}

	return rows, start, pending, nil
}
