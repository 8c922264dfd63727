package hashchain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTripsInFlightBuilderState(t *testing.T) {
	s := New([32]byte{1}, []byte("engine.near"))
	s.Start([32]byte{9}, 5)
	require.NoError(t, s.AddBlockTx(5, "submit", []byte("a"), []byte("b"), nil))
	require.NoError(t, s.AddBlockTx(5, "submit", []byte("c"), []byte("d"), nil))

	blob := s.Snapshot()

	restored := New([32]byte{1}, []byte("engine.near"))
	restored.Restore(blob)

	require.Equal(t, s.Started(), restored.Started())
	require.Equal(t, s.CurrentHeight(), restored.CurrentHeight())
	require.Equal(t, s.PreviousBlockHashchain(), restored.PreviousBlockHashchain())
	require.Equal(t, s.builder.merkle.root(), restored.builder.merkle.root())

	require.NoError(t, s.MoveToBlock(6))
	require.NoError(t, restored.MoveToBlock(6))
	require.Equal(t, s.PreviousBlockHashchain(), restored.PreviousBlockHashchain())
}

func TestRestoreIgnoresMalformedBlob(t *testing.T) {
	s := New([32]byte{1}, []byte("engine.near"))
	s.Restore([]byte{1, 2, 3})
	require.False(t, s.Started())
}
