package snapstore

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Write durably stores data (which must be exactly config.ClusterSize
// bytes) as clusterID's value in the current pending snapshot. It returns
// only once the bytes are synced to disk and the new mapping is either
// flushed to the metadata store or recoverable on reopen.
func (s *Store) Write(clusterID int, data []byte) error {
	if len(data) != s.config.ClusterSize {
		return fmt.Errorf("snapstore: write: data length %d does not match cluster size %d", len(data), s.config.ClusterSize)
	}
	if clusterID < 0 || clusterID >= s.config.NumClusters {
		return fmt.Errorf("snapstore: write: cluster %d out of range", clusterID)
	}

	slot := s.allocator.Pop()
	rawOffset := int64(slot) * int64(s.config.ClusterSize)
	if _, err := s.storage.WriteAt(data, rawOffset); err != nil {
		return fmt.Errorf("snapstore: write: %w", err)
	}
	if err := syncRange(s.storage, rawOffset, int64(len(data))); err != nil {
		return fmt.Errorf("snapstore: write: sync: %w", err)
	}

	s.tableMu.RLock()
	pending := s.snapshotPending
	c := s.inner[pending][clusterID]
	s.tableMu.RUnlock()

	c.mu.Lock()
	prev := c.entry
	decSlot := -1
	if prev.DBSnapshot == pending {
		decSlot = int(prev.Offset)
	}
	c.entry = offsetEntry{DBSnapshot: pending, Offset: uint64(slot)}
	c.mu.Unlock()

	newNumSlots := s.allocator.Len()
	oldNumSlots := int(s.numSlots.Swap(int64(newNumSlots)))

	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if err := b.Put(offsetTableKey(pending, uint64(clusterID)), encodeUint64(uint64(slot))); err != nil {
			return err
		}
		if oldNumSlots != newNumSlots {
			if err := b.Put(simpleKey(keyTagNumSlots), encodeUint64(uint64(newNumSlots))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("snapstore: write: persisting offset: %w", err)
	}

	if decSlot >= 0 {
		s.allocator.Dec(decSlot)
	}
	return nil
}

// Read reads the entire cluster clusterID as it stood at snapshot.
func (s *Store) Read(snapshot uint64, clusterID int) ([]byte, error) {
	return s.ReadExact(snapshot, clusterID, 0, s.config.ClusterSize)
}

// ReadExact reads length bytes starting at offset within clusterID as it
// stood at snapshot.
func (s *Store) ReadExact(snapshot uint64, clusterID, offset, length int) ([]byte, error) {
	s.tableMu.RLock()
	cells, ok := s.inner[snapshot]
	s.tableMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("snapstore: read: unknown snapshot %d", snapshot)
	}
	if clusterID < 0 || clusterID >= len(cells) {
		return nil, fmt.Errorf("snapstore: read: cluster %d out of range", clusterID)
	}

	c := cells[clusterID]
	c.mu.Lock()
	slot := c.entry.Offset
	c.mu.Unlock()

	buf := make([]byte, length)
	rawOffset := int64(slot)*int64(s.config.ClusterSize) + int64(offset)
	if _, err := s.storage.ReadAt(buf, rawOffset); err != nil {
		return nil, fmt.Errorf("snapstore: read: %w", err)
	}
	return buf, nil
}

// AddSnapshot freezes the current pending snapshot and opens a new one,
// initially identical to it (copy-on-write: subsequent writes only affect
// the new pending snapshot).
func (s *Store) AddSnapshot() error {
	s.tableMu.Lock()
	oldPending := s.snapshotPending
	oldCells := s.inner[oldPending]

	values := make([]offsetEntry, len(oldCells))
	for i, c := range oldCells {
		c.mu.Lock()
		values[i] = c.entry
		c.mu.Unlock()
	}

	frozen := make([]*cell, len(values))
	fresh := make([]*cell, len(values))
	slotsToInc := make([]int, len(values))
	for i, v := range values {
		frozen[i] = &cell{entry: v}
		fresh[i] = &cell{entry: v}
		slotsToInc[i] = int(v.Offset)
	}

	s.inner[oldPending] = frozen
	newPending := oldPending + 1
	s.inner[newPending] = fresh
	s.snapshotPending = newPending
	s.tableMu.Unlock()

	s.allocator.IncMany(slotsToInc)

	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(simpleKey(keyTagSnapshotPending), encodeUint64(newPending))
	}); err != nil {
		return fmt.Errorf("snapstore: add_snapshot: %w", err)
	}
	return nil
}

// JoinSnapshot finalizes and drops the oldest live snapshot, releasing any
// slots that were exclusively its own.
func (s *Store) JoinSnapshot() error {
	s.tableMu.Lock()
	removedID := s.snapshotStart
	removed := s.inner[removedID]
	delete(s.inner, removedID)
	newStart := removedID + 1
	s.snapshotStart = newStart
	startCells := s.inner[newStart]

	var offsetsToDec []int
	var keysToRemove [][]byte
	for clusterID, rc := range removed {
		rc.mu.Lock()
		removedEntry := rc.entry
		rc.mu.Unlock()

		sc := startCells[clusterID]
		sc.mu.Lock()
		startEntry := sc.entry
		sc.mu.Unlock()

		if startEntry.DBSnapshot == newStart {
			offsetsToDec = append(offsetsToDec, int(removedEntry.Offset))
			keysToRemove = append(keysToRemove, offsetTableKey(removedEntry.DBSnapshot, uint64(clusterID)))
		}
	}
	s.tableMu.Unlock()

	s.allocator.DecMany(offsetsToDec)

	if len(keysToRemove) == 0 {
		return nil
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		for _, k := range keysToRemove {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("snapstore: join_snapshot: %w", err)
	}
	return nil
}

// SnapshotRange returns the currently live [start, pending] snapshot IDs.
func (s *Store) SnapshotRange() (start, pending uint64) {
	s.tableMu.RLock()
	defer s.tableMu.RUnlock()
	return s.snapshotStart, s.snapshotPending
}

// NumSlots returns the current size of the slot pool.
func (s *Store) NumSlots() int {
	return int(s.numSlots.Load())
}

// AllocatorStats reports the free-pool size and the sum of every slot's
// reference count, for metrics collection and the reference-count
// conservation test property.
func (s *Store) AllocatorStats() (freeCount int, refcountSum int64) {
	return s.allocator.FreeCount(), s.allocator.RefcountSum()
}
