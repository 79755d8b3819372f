// Package index provides the in-memory hash table implementation for the
// ignite key-value store. This package embodies the core Bitcask
// architectural principle: maintain all keys in memory with minimal
// metadata while storing actual values on disk.
package index

import "errors"

// ErrIndexClosed is returned when attempting to use a closed Index.
var ErrIndexClosed = errors.New("operation failed: cannot access closed index")

// Get returns the location of key's latest live Set record, if any.
func (idx *Index) Get(key string) (RecordPointer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	loc, ok := idx.entries[key]
	return loc, ok
}

// Put records key as now living at loc, superseding whatever was there
// before. It returns the length of the record it superseded (0 if key was
// not previously present) so the caller can fold that into a waste counter.
func (idx *Index) Put(key string, loc RecordPointer) (evictedLength uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if prev, ok := idx.entries[key]; ok {
		evictedLength = prev.Length
	}
	idx.entries[key] = loc
	return evictedLength
}

// Delete removes key from the index, reporting whether it was present and,
// if so, the length of the Set record it pointed at — the bytes that just
// became waste on disk.
func (idx *Index) Delete(key string) (evictedLength uint32, hadEntry bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, ok := idx.entries[key]
	if !ok {
		return 0, false
	}
	delete(idx.entries, key)
	return prev.Length, true
}

// Update rewrites key's location in place without treating the previous
// location as waste. Used exclusively by compaction, which relocates live
// records without changing what is logically live.
func (idx *Index) Update(key string, loc RecordPointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[key] = loc
}

// Len returns the number of live keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Snapshot returns a copy of every live (key, location) pair. Compaction
// takes a snapshot up front so it can safely rewrite locations as it goes
// without holding the index lock for the duration of the rewrite.
func (idx *Index) Snapshot() map[string]RecordPointer {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]RecordPointer, len(idx.entries))
	for k, v := range idx.entries {
		out[k] = v
	}
	return out
}

// Close releases the index's backing map. The Index must not be used
// afterward.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.entries)
	idx.entries = nil
	return nil
}
