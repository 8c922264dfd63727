package hashchain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/core/types"
)

// Snapshot encodes (big-endian integers, fixed-size hashes) the running
// chain's full state — not just the
// committed previous/current-height pair but the in-flight block builder's
// stream-compact stack and bloom — so a fresh State (rebuilt on the next
// host invocation) can pick up exactly where the last one left off. Without
// this, the O(log n) live stack spec.md §4.9 describes would not survive
// across the per-invocation State reconstruction the engine facade does.
func (s *State) Snapshot() []byte {
	buf := make([]byte, 0, 64)
	buf = appendBool(buf, s.started)
	buf = appendU64(buf, s.currentHeight)
	buf = append(buf, s.previous[:]...)
	buf = append(buf, s.builder.bloom[:]...)
	buf = appendU32(buf, uint32(len(s.builder.merkle.stack)))
	for _, f := range s.builder.merkle.stack {
		buf = appendU32(buf, f.height)
		buf = append(buf, f.hash[:]...)
	}
	return buf
}

// Restore reverses Snapshot. An empty or malformed blob leaves s unstarted,
// which is the correct state before the first start_hashchain call ever
// writes a snapshot.
func (s *State) Restore(blob []byte) {
	if len(blob) < 1+8+32+len(types.Bloom{})+4 {
		return
	}
	pos := 0
	started := blob[pos] != 0
	pos++
	height := binary.BigEndian.Uint64(blob[pos:])
	pos += 8
	var previous [32]byte
	copy(previous[:], blob[pos:])
	pos += 32
	var bloom types.Bloom
	copy(bloom[:], blob[pos:])
	pos += len(bloom)
	n := binary.BigEndian.Uint32(blob[pos:])
	pos += 4

	stack := make([]frame, 0, n)
	for i := uint32(0); i < n; i++ {
		if pos+4+32 > len(blob) {
			return
		}
		h := binary.BigEndian.Uint32(blob[pos:])
		pos += 4
		var hash [32]byte
		copy(hash[:], blob[pos:])
		pos += 32
		stack = append(stack, frame{height: h, hash: hash})
	}

	s.started = started
	s.currentHeight = height
	s.previous = previous
	s.builder.bloom = bloom
	s.builder.merkle.stack = stack
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}
