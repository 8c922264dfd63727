package storage

import (
	"testing"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/stretchr/testify/require"
)

func TestReadYourWrites(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)

	key := Key(PrefixBalance, []byte{0x01})
	s.Write(key, []byte{0xAA})

	v, ok := s.Read(key)
	require.True(t, ok)
	require.Equal(t, []byte{0xAA}, v)

	// Not yet committed: the durable store must not see it.
	require.False(t, host.Has(key))

	s.Commit()
	require.True(t, host.Has(key))
}

func TestDeleteShadowsDurable(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	key := Key(PrefixNonce, []byte{0x02})
	host.Write(key, []byte{0x01})

	s := New(host)
	s.Delete(key)

	_, ok := s.Read(key)
	require.False(t, ok)

	s.Abort()
	// After abort the durable value is untouched.
	v, ok := s.Read(key)
	require.True(t, ok)
	require.Equal(t, []byte{0x01}, v)
}

func TestReadU64Corruption(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	key := Key(PrefixConfig, []byte("bad"))
	s.Write(key, []byte{0x01, 0x02, 0x03})

	_, err := s.ReadU64(key)
	require.ErrorIs(t, err, ErrCorruptedStorage)

	_, err = s.ReadU64(Key(PrefixConfig, []byte("missing")))
	require.ErrorIs(t, err, ErrMissingValue)
}

func TestRollbackUndoesWritesSinceCheckpoint(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	key := Key(PrefixBalance, []byte{0x01})
	s.Write(key, []byte{0xAA})

	cp := s.Checkpoint()
	s.Write(key, []byte{0xBB})
	other := Key(PrefixBalance, []byte{0x02})
	s.Write(other, []byte{0xCC})

	s.Rollback(cp)

	v, ok := s.Read(key)
	require.True(t, ok)
	require.Equal(t, []byte{0xAA}, v, "pre-checkpoint write must survive rollback")

	_, ok = s.Read(other)
	require.False(t, ok, "a key first touched after the checkpoint must be gone after rollback")
}

func TestRollbackUndoesDeleteSinceCheckpoint(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	key := Key(PrefixBalance, []byte{0x01})
	s.Write(key, []byte{0xAA})

	cp := s.Checkpoint()
	s.Delete(key)
	_, ok := s.Read(key)
	require.False(t, ok)

	s.Rollback(cp)
	v, ok := s.Read(key)
	require.True(t, ok)
	require.Equal(t, []byte{0xAA}, v)
}

func TestRollbackToOuterCheckpointDiscardsInnerOne(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	key := Key(PrefixBalance, []byte{0x01})

	outer := s.Checkpoint()
	s.Write(key, []byte{0x01})
	inner := s.Checkpoint()
	s.Write(key, []byte{0x02})

	s.Rollback(outer)
	_, ok := s.Read(key)
	require.False(t, ok)

	// The inner checkpoint no longer exists; rolling back to it is a no-op.
	s.Write(key, []byte{0x03})
	s.Rollback(inner)
	v, ok := s.Read(key)
	require.True(t, ok)
	require.Equal(t, []byte{0x03}, v)
}

func TestRollbackLeavesDiffOrderDeterministic(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	s.Write(Key(PrefixBalance, []byte{1}), []byte{1})
	cp := s.Checkpoint()
	s.Write(Key(PrefixBalance, []byte{2}), []byte{2})
	s.Rollback(cp)
	s.Write(Key(PrefixBalance, []byte{3}), []byte{3})

	diff := s.Diff()
	require.Len(t, diff, 2)
	require.Equal(t, Key(PrefixBalance, []byte{1}), diff[0].Key)
	require.Equal(t, Key(PrefixBalance, []byte{3}), diff[1].Key)
}

func TestDiffOrderDeterministic(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	s := New(host)
	s.Write(Key(PrefixBalance, []byte{1}), []byte{1})
	s.Write(Key(PrefixBalance, []byte{2}), []byte{2})
	s.Delete(Key(PrefixBalance, []byte{1}))

	diff := s.Diff()
	require.Len(t, diff, 2)
	require.True(t, diff[0].Deleted)
	require.False(t, diff[1].Deleted)
}
