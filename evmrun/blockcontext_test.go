package evmrun

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
)

func TestCoinbaseIsDeterministicFunctionOfPredecessor(t *testing.T) {
	a := coinbaseFromPredecessor("alice.near")
	b := coinbaseFromPredecessor("alice.near")
	c := coinbaseFromPredecessor("bob.near")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestBlockHashIsDeterministicAndHeightSensitive(t *testing.T) {
	chainID := [32]byte{1, 2, 3}
	h1 := blockHash(chainID, 10, "engine.near")
	h2 := blockHash(chainID, 10, "engine.near")
	h3 := blockHash(chainID, 11, "engine.near")
	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}

func TestNewBlockContextUsesHostState(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{9}, 300_000_000_000_000)
	host.SetBlock(42, 1000, [32]byte{7})

	ctx := NewBlockContext(host, "engine.near")
	require.Equal(t, uint64(42), ctx.BlockNumber.Uint64())
	require.Equal(t, uint64(1000), ctx.Time)
	require.Equal(t, int64(0), ctx.BaseFee.Int64())
	require.Equal(t, coinbaseFromPredecessor("alice.near"), ctx.Coinbase)
}
