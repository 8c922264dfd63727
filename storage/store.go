package storage

import (
	"encoding/binary"
	"errors"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
)

// ErrCorruptedStorage signals that a fixed-width value read back a length
// that does not match its type — an internal-consistency violation the spec
// requires callers to treat as fatal (spec.md §4.1), never as a recoverable
// "value absent" case.
var ErrCorruptedStorage = errors.New("storage: corrupted value")

// ErrMissingValue is returned by ReadU64 when the key has no value at all,
// distinct from ErrCorruptedStorage (a present-but-malformed value).
var ErrMissingValue = errors.New("storage: missing value")

// entry is one pending mutation: a Deleted entry with Value == nil.
type entry struct {
	value   []byte
	deleted bool
}

// Store layers a per-transaction diff over a durable hostsdk.KV. Reads check
// the diff first, then the durable store (spec.md §3 invariant: "a storage
// slot read after a write in the same transaction returns the written
// value"). Writes only ever touch the diff; Commit flushes it to the KV,
// Abort discards it.
type Store struct {
	kv   hostsdk.KV
	diff map[string]entry
	// order preserves insertion order so Diff() is deterministic, which
	// matters for the replayer's byte-for-byte diff comparison (spec.md §4.10).
	order []string

	checkpoints []checkpoint
}

// checkpoint is a point Rollback can return the diff to: for every key
// record touches for the first time after the checkpoint was taken, saved
// holds the entry that key had at that moment (nil meaning the key was not
// present in the diff yet), so Rollback can put it back exactly.
type checkpoint struct {
	orderLen int
	saved    map[string]*entry
}

// New wraps a host KV store with an empty diff.
func New(kv hostsdk.KV) *Store {
	return &Store{kv: kv, diff: make(map[string]entry)}
}

func (s *Store) record(key []byte, e entry) {
	k := string(key)
	if len(s.checkpoints) > 0 {
		cp := &s.checkpoints[len(s.checkpoints)-1]
		if _, already := cp.saved[k]; !already {
			if prev, exists := s.diff[k]; exists {
				prevCopy := prev
				cp.saved[k] = &prevCopy
			} else {
				cp.saved[k] = nil
			}
		}
	}
	if _, exists := s.diff[k]; !exists {
		s.order = append(s.order, k)
	}
	s.diff[k] = e
}

// Checkpoint marks the current diff state and returns a token Rollback can
// later return to, undoing every Write/Delete staged since (spec.md §4.2/
// §4.6 call-frame isolation: a reverted nested CALL/CREATE must not leave
// its storage writes behind). Checkpoints nest: rolling back to an outer one
// also discards any inner checkpoints taken after it.
func (s *Store) Checkpoint() int {
	s.checkpoints = append(s.checkpoints, checkpoint{
		orderLen: len(s.order),
		saved:    make(map[string]*entry),
	})
	return len(s.checkpoints) - 1
}

// Rollback undoes every diff mutation staged since the matching Checkpoint
// call, restoring each touched key to the value (or absence) it had at that
// point. An out-of-range id is a no-op.
func (s *Store) Rollback(id int) {
	if id < 0 || id >= len(s.checkpoints) {
		return
	}
	for i := len(s.checkpoints) - 1; i >= id; i-- {
		for k, prev := range s.checkpoints[i].saved {
			if prev == nil {
				delete(s.diff, k)
			} else {
				s.diff[k] = *prev
			}
		}
	}
	s.order = s.order[:s.checkpoints[id].orderLen]
	s.checkpoints = s.checkpoints[:id]
}

// Read returns the value for key, checking the diff before the durable
// store; a deletion recorded in the diff shadows any durable value.
func (s *Store) Read(key []byte) ([]byte, bool) {
	if e, ok := s.diff[string(key)]; ok {
		if e.deleted {
			return nil, false
		}
		return e.value, true
	}
	v, err := s.kv.Read(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Has reports whether a value is present for key.
func (s *Store) Has(key []byte) bool {
	_, ok := s.Read(key)
	return ok
}

// Write stages a value for key.
func (s *Store) Write(key, value []byte) {
	cp := make([]byte, len(value))
	copy(cp, value)
	s.record(key, entry{value: cp})
}

// Delete stages a deletion of key.
func (s *Store) Delete(key []byte) {
	s.record(key, entry{deleted: true})
}

// ReadU64 reads an 8-byte big-endian value. A present-but-wrong-length value
// is ErrCorruptedStorage (fatal); an absent key is ErrMissingValue (the
// caller decides whether that's an error or a default-zero case).
func (s *Store) ReadU64(key []byte) (uint64, error) {
	v, ok := s.Read(key)
	if !ok {
		return 0, ErrMissingValue
	}
	if len(v) != 8 {
		return 0, ErrCorruptedStorage
	}
	return binary.BigEndian.Uint64(v), nil
}

// WriteU64 writes an 8-byte big-endian value.
func (s *Store) WriteU64(key []byte, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	s.Write(key, buf[:])
}

// DiffEntry is one exported mutation of Diff(), in emission order.
type DiffEntry struct {
	Key     []byte
	Value   []byte // nil when Deleted
	Deleted bool
}

// Diff returns the pending mutations in the order they were first staged.
// This is the unit of output of one transaction (spec.md §3) and the unit of
// input the replayer compares against.
func (s *Store) Diff() []DiffEntry {
	out := make([]DiffEntry, 0, len(s.order))
	for _, k := range s.order {
		e := s.diff[k]
		out = append(out, DiffEntry{Key: []byte(k), Value: e.value, Deleted: e.deleted})
	}
	return out
}

// Commit flushes the diff to the durable store, clears it, and returns the
// entries that were flushed (the unit of output the replayer compares
// against, per spec.md §4.10).
func (s *Store) Commit() []DiffEntry {
	out := s.Diff()
	for _, k := range s.order {
		e := s.diff[k]
		key := []byte(k)
		if e.deleted {
			s.kv.Delete(key)
		} else {
			s.kv.Write(key, e.value)
		}
	}
	s.Abort()
	return out
}

// Abort discards the pending diff without touching the durable store.
func (s *Store) Abort() {
	s.diff = make(map[string]entry)
	s.order = nil
	s.checkpoints = nil
}
