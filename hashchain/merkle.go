// Package hashchain implements spec.md §4.9's per-block hashchain: a
// stream-compact Merkle tree over transaction leaves plus a bloom
// accumulator, folded into a running keccak256 chain anchored at
// start_hashchain. Grounded on the teacher's block-building idiom of
// accumulating per-tx side effects into one committed block header,
// generalized from "build an RLP block header" to "fold into a hashchain."
package hashchain

import "github.com/ethereum/go-ethereum/crypto"

// frame is one (height, hash) entry in the stream-compact stack.
type frame struct {
	height uint32
	hash   [32]byte
}

// streamCompactTree is the stack described in spec.md §4.9: O(1) amortized
// insert, O(log n) space, via "pop and merge equal-height siblings".
type streamCompactTree struct {
	stack []frame
}

func (t *streamCompactTree) insert(leaf [32]byte) {
	f := frame{height: 1, hash: leaf}
	for len(t.stack) > 0 && t.stack[len(t.stack)-1].height == f.height {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		f = frame{height: f.height + 1, hash: keccakPair(top.hash, f.hash)}
	}
	t.stack = append(t.stack, f)
}

// root computes the Merkle root by popping-and-duplicating the stack until
// one element remains, per spec.md §4.9's move_to_block rule. An empty tree
// yields 32 zero bytes.
func (t *streamCompactTree) root() [32]byte {
	if len(t.stack) == 0 {
		return [32]byte{}
	}
	stack := append([]frame(nil), t.stack...)
	for len(stack) > 1 {
		n := len(stack)
		right := stack[n-1]
		left := stack[n-2]
		if right.height < left.height {
			// Duplicate the shorter right subtree until it matches its left sibling.
			stack[n-1] = frame{height: right.height + 1, hash: keccakPair(right.hash, right.hash)}
			continue
		}
		stack = stack[:n-2]
		stack = append(stack, frame{height: left.height + 1, hash: keccakPair(left.hash, right.hash)})
	}
	return stack[0].hash
}

func (t *streamCompactTree) reset() {
	t.stack = t.stack[:0]
}

func keccakPair(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	var out [32]byte
	copy(out[:], crypto.Keccak256(buf))
	return out
}
