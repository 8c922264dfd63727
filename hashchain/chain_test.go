package hashchain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddBlockTxRejectsWrongHeight(t *testing.T) {
	s := New([32]byte{1}, []byte("engine.near"))
	s.Start([32]byte{}, 0)

	err := s.AddBlockTx(1, "submit", nil, nil, nil)
	require.ErrorIs(t, err, ErrBlockHeightIncorrect)
}

func TestMoveToBlockRequiresForwardProgress(t *testing.T) {
	s := New([32]byte{1}, []byte("engine.near"))
	s.Start([32]byte{}, 5)

	err := s.MoveToBlock(5)
	require.ErrorIs(t, err, ErrNotMovingForward)
}

func TestHashchainIsDeterministicAndSensitiveToTxs(t *testing.T) {
	a := New([32]byte{1}, []byte("engine.near"))
	a.Start([32]byte{9}, 0)
	require.NoError(t, a.AddBlockTx(0, "submit", []byte("in1"), []byte("out1"), nil))
	require.NoError(t, a.MoveToBlock(1))
	withTx := a.PreviousBlockHashchain()

	b := New([32]byte{1}, []byte("engine.near"))
	b.Start([32]byte{9}, 0)
	require.NoError(t, b.MoveToBlock(1))
	withoutTx := b.PreviousBlockHashchain()

	require.NotEqual(t, withTx, withoutTx)
}

func TestEmptyBlockMerkleRootIsZero(t *testing.T) {
	var tree streamCompactTree
	require.Equal(t, [32]byte{}, tree.root())
}

func TestStreamCompactTreeMergesEqualHeights(t *testing.T) {
	var tree streamCompactTree
	tree.insert(leafHash("a", nil, nil))
	tree.insert(leafHash("b", nil, nil))
	// two leaves of height 1 merge into one height-2 frame
	require.Len(t, tree.stack, 1)
	require.EqualValues(t, 2, tree.stack[0].height)
}

func TestMoveToBlockAdvancesMultipleEmptyHeights(t *testing.T) {
	s := New([32]byte{1}, []byte("engine.near"))
	s.Start([32]byte{}, 0)
	require.NoError(t, s.MoveToBlock(3))
	require.Equal(t, uint64(3), s.CurrentHeight())
}
