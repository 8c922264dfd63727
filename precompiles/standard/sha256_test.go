package standard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256Gas(t *testing.T) {
	var c SHA256
	require.Equal(t, uint64(60), c.RequiredGas(nil))
	require.Equal(t, uint64(72), c.RequiredGas(make([]byte, 32)))
	require.Equal(t, uint64(72), c.RequiredGas(make([]byte, 1)))
	require.Equal(t, uint64(84), c.RequiredGas(make([]byte, 33)))
}

func TestSHA256Run(t *testing.T) {
	var c SHA256
	out, err := c.Run([]byte("hello"))
	require.NoError(t, err)
	require.Len(t, out, 32)
}

func TestRIPEMD160Gas(t *testing.T) {
	var c RIPEMD160
	require.Equal(t, uint64(600), c.RequiredGas(nil))
	require.Equal(t, uint64(720), c.RequiredGas(make([]byte, 32)))
}

func TestRIPEMD160RunIsLeftPadded(t *testing.T) {
	var c RIPEMD160
	out, err := c.Run([]byte("hello"))
	require.NoError(t, err)
	require.Len(t, out, 32)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, out[:12])
}

func TestIdentityGasAndRun(t *testing.T) {
	var c Identity
	require.Equal(t, uint64(15), c.RequiredGas(nil))
	in := []byte("round trip me")
	out, err := c.Run(in)
	require.NoError(t, err)
	require.Equal(t, in, out)
	out[0] = 'X'
	require.NotEqual(t, in[0], out[0], "Run must copy, not alias, the input")
}
