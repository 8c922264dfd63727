package precompiles

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

type constPrecompile struct {
	gas uint64
	out []byte
}

func (c constPrecompile) RequiredGas([]byte) uint64        { return c.gas }
func (c constPrecompile) Run([]byte) ([]byte, error)        { return c.out, nil }

func TestDispatchUnregisteredFallsThrough(t *testing.T) {
	r := New()
	out, isPre, err := r.Dispatch(common.HexToAddress("0x99"), nil)
	require.Nil(t, out)
	require.False(t, isPre)
	require.NoError(t, err)
}

func TestDispatchPausedIsFatal(t *testing.T) {
	r := New()
	addr := common.HexToAddress("0x01")
	r.Register(addr, FlagECRecover, constPrecompile{gas: 3000, out: []byte{0x01}})
	r.SetPausedMask(uint32(FlagECRecover))

	out, isPre, err := r.Dispatch(addr, nil)
	require.Nil(t, out)
	require.True(t, isPre)
	require.ErrorIs(t, err, ErrPaused)
}

func TestPauseResumeIsIdentity(t *testing.T) {
	r := New()
	addr := common.HexToAddress("0x01")
	r.Register(addr, FlagECRecover, constPrecompile{gas: 3000, out: []byte{0x01}})

	original := r.PausedMask()
	r.SetPausedMask(uint32(FlagECRecover))
	r.SetPausedMask(original)

	out, isPre, err := r.Dispatch(addr, nil)
	require.Equal(t, []byte{0x01}, out)
	require.True(t, isPre)
	require.NoError(t, err)
}
