package evmrun

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/precompiles"
	"github.com/aurora-is-near/aurora-engine-go/precompiles/bridge"
	"github.com/aurora-is-near/aurora-engine-go/precompiles/standard"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

func newTestDriver(t *testing.T) (*Driver, hostsdk.Host, *storage.Store, *promise.Sink) {
	t.Helper()
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	store := storage.New(host)
	accounts := account.New(store)
	return &Driver{Accounts: accounts, Registry: precompiles.New()}, host, store, promise.NewSink()
}

func TestBridgePrecompilesRegisteredAtKeccakAddresses(t *testing.T) {
	d, host, store, sink := newTestDriver(t)
	tracker := newCallTracker()

	got := d.bridgePrecompiles(host, "engine.near", store, sink, tracker)

	for _, addr := range []common.Address{
		common.Address(bridge.ExitToNearAddress),
		common.Address(bridge.ExitToEthereumAddress),
		common.Address(bridge.CrossContractCallAddress),
		common.Address(bridge.PredecessorAccountIDAddress),
		common.Address(bridge.CurrentAccountIDAddress),
		common.Address(bridge.RandomSeedAddress),
		common.Address(bridge.PrepaidGasAddress),
	} {
		_, ok := got[addr]
		require.True(t, ok, "missing bridge precompile at %s", addr)
	}
}

func TestPauseGatedBlocksRunWhenMasked(t *testing.T) {
	d, host, store, sink := newTestDriver(t)
	d.Registry.SetPausedMask(uint32(precompiles.FlagExitToNear))
	tracker := newCallTracker()

	got := d.bridgePrecompiles(host, "engine.near", store, sink, tracker)
	p := got[common.Address(bridge.ExitToNearAddress)]

	_, err := p.Run([]byte{0x00})
	require.ErrorIs(t, err, precompiles.ErrPaused)
}

func TestPauseGatedAllowsRunWhenUnmasked(t *testing.T) {
	d, host, store, sink := newTestDriver(t)
	tracker := newCallTracker()
	tracker.frames = append(tracker.frames, bridge.CallContext{
		Caller: common.HexToAddress("0xbb"),
		Self:   common.Address(bridge.ExitToNearAddress),
		Address: common.Address(bridge.ExitToNearAddress),
	})

	got := d.bridgePrecompiles(host, "engine.near", store, sink, tracker)
	p := got[common.Address(bridge.ExitToNearAddress)]

	input := append([]byte{0x00}, []byte("bob.near")...)
	_, err := p.Run(input)
	require.NoError(t, err)
	require.Len(t, sink.Actions(), 1)
}

func TestCallTrackerTracksDelegateCallApparentAddress(t *testing.T) {
	tr := newCallTracker()
	outer := common.HexToAddress("0x01")
	inner := common.HexToAddress("0x02")

	tr.onEnter(0, opCallCodeUnused, common.HexToAddress("0xff"), outer, nil, 0, nil)
	tr.onEnter(1, opDelegateCall, outer, inner, nil, 0, nil)

	cur := tr.current()
	require.Equal(t, inner, cur.Self)
	require.Equal(t, outer, cur.Address)
	require.True(t, cur.IsDelegateCall)

	tr.onExit(1, nil, 0, nil, false)
	require.Equal(t, outer, tr.current().Self)
}

// opCallCodeUnused is a placeholder "plain call" opcode distinct from
// opDelegateCall/opStaticCall, used only to seed the outer frame above.
const opCallCodeUnused byte = 0xf1

// TestNewEVMDispatchesStandardPrecompileThroughGlobalTables is the
// end-to-end check for the real go-ethereum precompile dispatch NewEVM
// installs at package-init/first-use time (installGlobalPrecompiles):
// calling the vanilla ecrecover address through evm.Call must actually run
// this engine's Registry-registered implementation, not go-ethereum's own
// built-in one and not an empty-account no-op.
func TestNewEVMDispatchesStandardPrecompileThroughGlobalTables(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 300_000_000)
	store := storage.New(host)
	accounts := account.New(store)
	registry := precompiles.BuildForFork(precompiles.Homestead, precompiles.StandardSet{
		ECRecover: standard.ECRecover{},
	})

	d := &Driver{Accounts: accounts, Registry: registry, ChainCfg: params.MainnetChainConfig}
	evm := d.NewEVM(host, "engine.near", store, promise.NewSink())

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	var hash [32]byte
	hash[0] = 0xcd
	sig, err := crypto.Sign(hash[:], key)
	require.NoError(t, err)

	in := make([]byte, 128)
	copy(in[0:32], hash[:])
	in[63] = sig[64] + 27
	copy(in[64:96], sig[0:32])
	copy(in[96:128], sig[32:64])

	caller := common.HexToAddress("0xF00D000000000000000000000000000000F00D")
	ecrecoverAddr := common.BytesToAddress([]byte{0x01})

	ret, _, err := d.Call(evm, caller, ecrecoverAddr, in, 100_000, new(uint256.Int))
	require.NoError(t, err)
	require.Len(t, ret, 32)
	require.Equal(t, signer.Bytes(), ret[12:])
}

// TestNewEVMUnregisteredStandardPrecompileDegradesToEmptyCall exercises the
// "not yet fork-activated" branch of globalPrecompile.Run: an address this
// engine occupies in go-ethereum's tables but whose Registry entry isn't
// registered (e.g. a BLS12-381 address pre-Osaka) must behave like calling
// an address with no code, not error.
func TestNewEVMUnregisteredStandardPrecompileDegradesToEmptyCall(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 300_000_000)
	store := storage.New(host)
	accounts := account.New(store)
	registry := precompiles.BuildForFork(precompiles.Homestead, precompiles.StandardSet{})

	d := &Driver{Accounts: accounts, Registry: registry, ChainCfg: params.MainnetChainConfig}
	evm := d.NewEVM(host, "engine.near", store, promise.NewSink())

	caller := common.HexToAddress("0xF00D000000000000000000000000000000F00D")
	blsG1AddAddr := common.BytesToAddress([]byte{0x0b})

	ret, _, err := d.Call(evm, caller, blsG1AddAddr, []byte{0x01}, 100_000, new(uint256.Int))
	require.NoError(t, err)
	require.Empty(t, ret)
}
