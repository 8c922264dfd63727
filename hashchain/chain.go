package hashchain

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrBlockHeightIncorrect is spec.md §4.9's add_block_tx failure when h does
// not match the builder's current block height.
var ErrBlockHeightIncorrect = errors.New("BlockHeightIncorrect")

// ErrNotMovingForward guards move_to_block's "next > current_block_height"
// requirement.
var ErrNotMovingForward = errors.New("hashchain: move_to_block must advance")

// State is the running hashchain anchored at start_hashchain. Zero value is
// not started; call Start before AddBlockTx/MoveToBlock.
type State struct {
	chainID       [32]byte
	contractID    []byte
	started       bool
	currentHeight uint64
	previous      [32]byte
	builder       blockBuilder
}

// New returns an unstarted State for the given chain id and contract
// (engine account) id.
func New(chainID [32]byte, contractID []byte) *State {
	return &State{chainID: chainID, contractID: contractID}
}

// Start anchors the chain at genesisBlockHashchain and the given starting
// height, per spec.md §4.9 ("anchored by genesis_block_hashchain, which is
// chosen once and set at start_hashchain"). Callers are responsible for the
// "contract must be is_paused == true to start" precondition — State itself
// has no notion of pause state.
func (s *State) Start(genesisBlockHashchain [32]byte, startHeight uint64) {
	s.started = true
	s.previous = genesisBlockHashchain
	s.currentHeight = startHeight
	s.builder.reset()
}

// Started reports whether Start has been called.
func (s *State) Started() bool { return s.started }

// CurrentHeight returns the block height the builder is currently
// accumulating into.
func (s *State) CurrentHeight() uint64 { return s.currentHeight }

// PreviousBlockHashchain returns the last committed block's hashchain value.
func (s *State) PreviousBlockHashchain() [32]byte { return s.previous }

// AddBlockTx implements spec.md §4.9's add_block_tx: folds one transaction's
// (method, input, output) into the current block's Merkle tree and OR's
// txBloom into the block bloom accumulator.
func (s *State) AddBlockTx(height uint64, method string, input, output []byte, txBloom *types.Bloom) error {
	if !s.started {
		return nil // hashchain not started yet: nothing to record
	}
	if height != s.currentHeight {
		return ErrBlockHeightIncorrect
	}
	s.builder.addTx(method, input, output, txBloom)
	return nil
}

// MoveToBlock implements spec.md §4.9's move_to_block: for every height from
// current up to next-1, folds the accumulated builder into the running
// block_hashchain and clears it.
func (s *State) MoveToBlock(next uint64) error {
	if next <= s.currentHeight {
		return ErrNotMovingForward
	}
	for h := s.currentHeight; h < next; h++ {
		root := s.builder.merkle.root()
		s.previous = blockHashchain(s.chainID, s.contractID, h, s.previous, root, s.builder.bloom)
		s.builder.reset()
	}
	s.currentHeight = next
	return nil
}

func blockHashchain(chainID [32]byte, contractID []byte, height uint64, previous [32]byte, merkleRoot [32]byte, bloom types.Bloom) [32]byte {
	var heightBE [8]byte
	binary.BigEndian.PutUint64(heightBE[:], height)

	buf := make([]byte, 0, 32+len(contractID)+8+32+32+len(bloom))
	buf = append(buf, chainID[:]...)
	buf = append(buf, contractID...)
	buf = append(buf, heightBE[:]...)
	buf = append(buf, previous[:]...)
	buf = append(buf, merkleRoot[:]...)
	buf = append(buf, bloom[:]...)

	var out [32]byte
	copy(out[:], crypto.Keccak256(buf))
	return out
}
