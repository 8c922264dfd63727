package evmrun

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/precompiles"
	"github.com/aurora-is-near/aurora-engine-go/precompiles/bridge"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// Driver wraps a *vm.EVM configured the way spec.md §4.6 requires: block
// context from the host, account state from package account, and
// precompile dispatch from package precompiles — all supplied to the
// interpreter without any adapter layer, since account.Accounts already
// implements vm.StateDB directly.
type Driver struct {
	Accounts *account.Accounts
	Registry *precompiles.Registry
	ChainCfg *params.ChainConfig

	// RouterDeployed and TransferFrom back the near_cross_contract_call
	// precompile's router-storage-staking step (spec.md §4.5.3). Both may be
	// nil, in which case staking is skipped.
	RouterDeployed func(caller common.Address) bool
	TransferFrom   func(caller common.Address, amount *big.Int) error
}

// invocationPrecompiles is the per-NewEVM-call context the shared
// globalPrecompile entries (see installGlobalPrecompiles) dispatch against.
// vm.PrecompiledContract's Run([]byte) ([]byte, error) carries no per-call
// argument for this, so it has to be threaded in out of band.
type invocationPrecompiles struct {
	registry *precompiles.Registry
	bridge   map[common.Address]vm.PrecompiledContract
}

var (
	activeMu sync.Mutex
	active   *invocationPrecompiles
)

func setActive(inv *invocationPrecompiles) {
	activeMu.Lock()
	active = inv
	activeMu.Unlock()
}

func currentInvocation() *invocationPrecompiles {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

// globalPrecompile is the single long-lived value installed at every
// address this engine's precompiles occupy, across every go-ethereum fork
// table (see installGlobalPrecompiles). It defers entirely to whichever
// invocation's NewEVM call installed itself as active most recently.
type globalPrecompile struct {
	addr common.Address
}

func (g globalPrecompile) RequiredGas(input []byte) uint64 {
	inv := currentInvocation()
	if inv == nil {
		return 0
	}
	if bp, ok := inv.bridge[g.addr]; ok {
		return bp.RequiredGas(input)
	}
	return inv.registry.RequiredGas(g.addr, input)
}

func (g globalPrecompile) Run(input []byte) ([]byte, error) {
	inv := currentInvocation()
	if inv == nil {
		return nil, fmt.Errorf("evmrun: precompile %s invoked outside any NewEVM invocation", g.addr)
	}
	if bp, ok := inv.bridge[g.addr]; ok {
		return bp.Run(input)
	}
	out, isPrecompile, err := inv.registry.Dispatch(g.addr, input)
	if !isPrecompile {
		// The address is only a precompile in go-ethereum's table because we
		// put it there; if this invocation's Registry hasn't activated it
		// yet (pre-fork), fall back to ordinary empty-account-call
		// semantics rather than inventing an error.
		return nil, nil
	}
	return out, err
}

// globalOnce installs the shared dispatcher into go-ethereum's own per-fork
// precompile tables exactly once per process. vm.Config in the vanilla
// github.com/ethereum/go-ethereum dependency this module pins (go.mod) has
// no per-EVM precompile override hook — that field exists only on the
// ava-labs/libevm fork, which this module does not depend on. What vanilla
// core/vm does expose is the fork tables themselves
// (PrecompiledContractsHomestead/Byzantium/Istanbul/Berlin/Cancun): each is
// an exported, mutable package-level map, and EVM.precompile(addr) re-reads
// whichever one is active on every single lookup, at any call depth — not a
// snapshot taken once at EVM construction. Installing a long-lived
// dispatcher at our addresses in all of them reaches the same call sites
// PrecompileOverrides would have, for both top-level and opcode-level
// CALL/DELEGATECALL/STATICCALL, without needing anything outside vanilla
// core/vm.
var globalOnce sync.Once

func installGlobalPrecompiles() {
	addrs := append([]common.Address{}, precompiles.Addresses()...)
	addrs = append(addrs,
		common.Address(bridge.ExitToNearAddress),
		common.Address(bridge.ExitToEthereumAddress),
		common.Address(bridge.CrossContractCallAddress),
		common.Address(bridge.PredecessorAccountIDAddress),
		common.Address(bridge.CurrentAccountIDAddress),
		common.Address(bridge.RandomSeedAddress),
		common.Address(bridge.PrepaidGasAddress),
	)

	tables := []map[common.Address]vm.PrecompiledContract{
		vm.PrecompiledContractsHomestead,
		vm.PrecompiledContractsByzantium,
		vm.PrecompiledContractsIstanbul,
		vm.PrecompiledContractsBerlin,
		vm.PrecompiledContractsCancun,
	}
	for _, addr := range addrs {
		w := globalPrecompile{addr: addr}
		for _, t := range tables {
			t[addr] = w
		}
	}
}

// NewEVM builds a fresh *vm.EVM for one call/transaction. store and sink are
// the per-invocation state diff and promise sink the bridge precompiles
// (spec.md §4.5) read and schedule against; they have no meaning across
// invocations, unlike Accounts/Registry/ChainCfg which the Driver owns for
// its whole lifetime.
//
// NewEVM also installs this invocation as the one globalPrecompile entries
// dispatch against (see installGlobalPrecompiles). That installation is not
// restored/unwound on return: the engine only ever has one invocation in
// flight at a time — a fresh Engine/Driver/Store is built per host call (see
// engine.New) and nothing begins a second invocation before the first one's
// Submit/Call/View fully returns — so the next NewEVM call simply replaces
// it.
func (d *Driver) NewEVM(h hostsdk.Host, engineAccount hostsdk.AccountID, store *storage.Store, sink *promise.Sink) *vm.EVM {
	globalOnce.Do(installGlobalPrecompiles)

	blockCtx := NewBlockContext(h, engineAccount)
	txCtx := vm.TxContext{}
	tracker := newCallTracker()

	bridgePrecompiles := d.bridgePrecompiles(h, engineAccount, store, sink, tracker)
	setActive(&invocationPrecompiles{registry: d.Registry, bridge: bridgePrecompiles})

	cfg := vm.Config{Tracer: tracker.hooks()}
	return vm.NewEVM(blockCtx, txCtx, d.Accounts, d.ChainCfg, cfg)
}

// bridgePrecompiles builds the stateful/async bridge precompiles at their
// keccak-derived addresses (spec.md §4.5), fresh for this invocation since
// each one closes over store/host/sink rather than being reusable across
// calls the way the stateless standard precompiles in Registry are.
func (d *Driver) bridgePrecompiles(h hostsdk.Host, engineAccount hostsdk.AccountID, store *storage.Store, sink *promise.Sink, tracker *callTracker) map[common.Address]vm.PrecompiledContract {
	wrap := func(flag precompiles.Flag, impl bridgePrecompile) vm.PrecompiledContract {
		return pauseGated{
			registry: d.Registry,
			flag:     flag,
			inner:    bridgeAdapter{impl: impl, tracker: tracker, accounts: d.Accounts},
		}
	}

	out := make(map[common.Address]vm.PrecompiledContract, 7)
	out[common.Address(bridge.ExitToNearAddress)] = wrap(precompiles.FlagExitToNear, bridge.ExitToNear{Store: store, Host: h, Sink: sink})
	out[common.Address(bridge.ExitToEthereumAddress)] = wrap(precompiles.FlagExitToEthereum, bridge.ExitToEthereum{Store: store, Host: h, Sink: sink})
	out[common.Address(bridge.CrossContractCallAddress)] = wrap(precompiles.FlagCrossContractCall, bridge.CrossContractCall{
		Store: store, Host: h, Sink: sink, EngineAccount: engineAccount,
		RouterDeployed: d.RouterDeployed, TransferFrom: d.TransferFrom,
	})

	// Identity-reflection precompiles already satisfy vm.PrecompiledContract
	// directly (spec.md §4.5.4: no Guard, no logs) so they need no adapter.
	out[common.Address(bridge.PredecessorAccountIDAddress)] = bridge.PredecessorAccountID{Host: h}
	out[common.Address(bridge.CurrentAccountIDAddress)] = bridge.CurrentAccountID{Host: h}
	out[common.Address(bridge.RandomSeedAddress)] = bridge.RandomSeed{Host: h}
	out[common.Address(bridge.PrepaidGasAddress)] = bridge.PrepaidGas{Host: h}

	return out
}

// pauseGated enforces a precompiles.Registry paused-mask bit for a bridge
// precompile the same way Registry.Dispatch does for standard ones, without
// requiring the bridge precompile itself to be registered there.
type pauseGated struct {
	registry *precompiles.Registry
	flag     precompiles.Flag
	inner    vm.PrecompiledContract
}

func (p pauseGated) RequiredGas(input []byte) uint64 { return p.inner.RequiredGas(input) }

func (p pauseGated) Run(input []byte) ([]byte, error) {
	if uint32(p.flag)&p.registry.PausedMask() != 0 {
		return nil, precompiles.ErrPaused
	}
	return p.inner.Run(input)
}

// Call executes a message call. value is a wei-denominated amount.
func (d *Driver) Call(evm *vm.EVM, sender common.Address, to common.Address, input []byte, gas uint64, value *uint256.Int) ([]byte, uint64, error) {
	ret, leftOver, err := evm.Call(sender, to, input, gas, value)
	return ret, gas - leftOver, err
}

// Create deploys code and returns the new contract's address.
func (d *Driver) Create(evm *vm.EVM, sender common.Address, code []byte, gas uint64, value *uint256.Int) ([]byte, common.Address, uint64, error) {
	ret, addr, leftOver, err := evm.Create(sender, code, gas, value)
	return ret, addr, gas - leftOver, err
}

func transferBalance(db vm.StateDB, from, to common.Address, amount *big.Int) {
	v, _ := uint256.FromBig(amount)
	db.SubBalance(from, v, tracing.BalanceChangeTransfer)
	db.AddBalance(to, v, tracing.BalanceChangeTransfer)
}
