package standard

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestECRecoverGas(t *testing.T) {
	var c ECRecover
	require.Equal(t, uint64(3000), c.RequiredGas(nil))
	require.Equal(t, uint64(3000), c.RequiredGas(make([]byte, 128)))
}

func TestECRecoverRun_RecoversSigningAddress(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	var hash [32]byte
	hash[0] = 0xab

	sig, err := crypto.Sign(hash[:], key)
	require.NoError(t, err)

	in := make([]byte, 128)
	copy(in[0:32], hash[:])
	in[63] = sig[64] + 27
	copy(in[64:96], sig[0:32])
	copy(in[96:128], sig[32:64])

	var c ECRecover
	out, err := c.Run(in)
	require.NoError(t, err)
	require.Len(t, out, 32)
	require.Equal(t, addr.Bytes(), out[12:])
}

func TestECRecoverRun_InvalidVYieldsEmptyOutput(t *testing.T) {
	in := make([]byte, 128)
	in[63] = 99 // not 27 or 28
	var c ECRecover
	out, err := c.Run(in)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestECRecoverRun_ZeroRYieldsEmptyOutput(t *testing.T) {
	in := make([]byte, 128)
	in[63] = 27
	var c ECRecover
	out, err := c.Run(in)
	require.NoError(t, err)
	require.Nil(t, out)
}
